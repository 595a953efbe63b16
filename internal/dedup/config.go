package dedup

import "fmt"

// DefaultThreshold is the similarity threshold used by the standard
// screening workflow.
const DefaultThreshold = 90

// Config controls the matching policy.
type Config struct {
	// Threshold is the score (0-100) that both the title and the abstract
	// similarity must strictly exceed for a fuzzy match. A pair scoring
	// exactly Threshold is not a duplicate.
	Threshold int
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() Config {
	return Config{Threshold: DefaultThreshold}
}

// Validate checks that the configuration is usable.
func (c Config) Validate() error {
	if c.Threshold < 0 || c.Threshold > 100 {
		return fmt.Errorf("threshold must be between 0 and 100, got %d", c.Threshold)
	}
	return nil
}
