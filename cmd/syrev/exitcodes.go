package main

// Exit codes
const (
	ExitSuccess     = 0 // Success
	ExitError       = 1 // General error (invalid arguments, runtime failure)
	ExitConfigError = 2 // Configuration error (invalid threshold, missing email)
	ExitDataError   = 3 // Data error (malformed CSV, unknown record set)
)
