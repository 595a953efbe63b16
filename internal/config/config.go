// Package config loads the syrev configuration file.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/kinleydh/syrev/internal/dedup"
	"github.com/kinleydh/syrev/internal/pubmed"
)

// DefaultFile is the configuration file looked up in the working directory.
const DefaultFile = "syrev.yml"

// Config holds harvest and deduplication settings from syrev.yml.
// Command-line flags override these values; the NCBI_API_KEY environment
// variable overrides api_key.
type Config struct {
	Email      string `yaml:"email"`       // Contact email sent to NCBI with every request
	APIKey     string `yaml:"api_key"`     // NCBI API key (optional; raises rate limit)
	MaxResults int    `yaml:"max_results"` // Maximum records per harvest
	BatchSize  int    `yaml:"batch_size"`  // Records per efetch call
	Threshold  int    `yaml:"threshold"`   // Fuzzy similarity threshold (0-100)
	YearsBack  int    `yaml:"years_back"`  // Publication date window; 0 = all years
	Output     string `yaml:"output"`      // Output base name for CSV artifacts
	Database   string `yaml:"database"`    // Path to the harvest cache database
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		MaxResults: pubmed.DefaultMaxResults,
		BatchSize:  pubmed.DefaultBatchSize,
		Threshold:  dedup.DefaultThreshold,
		Output:     "pubmed_results",
		Database:   "syrev.db",
	}
}

// Load reads and validates the configuration at path, applying defaults
// for unset fields. A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks field ranges.
func (c Config) Validate() error {
	if c.Threshold < 0 || c.Threshold > 100 {
		return fmt.Errorf("threshold must be between 0 and 100, got %d", c.Threshold)
	}
	if c.MaxResults <= 0 {
		return fmt.Errorf("max_results must be positive, got %d", c.MaxResults)
	}
	if c.BatchSize <= 0 {
		return fmt.Errorf("batch_size must be positive, got %d", c.BatchSize)
	}
	if c.YearsBack < 0 {
		return fmt.Errorf("years_back must not be negative, got %d", c.YearsBack)
	}
	if c.Output == "" {
		return fmt.Errorf("output must not be empty")
	}
	return nil
}
