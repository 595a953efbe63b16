package storage

import "errors"

// ErrSetNotFound is returned when a named record set does not exist.
var ErrSetNotFound = errors.New("record set not found")
