package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "syrev.yml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg != Default() {
		t.Errorf("cfg = %+v, want defaults %+v", cfg, Default())
	}
	if cfg.Threshold != 90 {
		t.Errorf("default threshold = %d, want 90", cfg.Threshold)
	}
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
email: reviewer@example.org
threshold: 85
years_back: 10
output: backpain
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Email != "reviewer@example.org" {
		t.Errorf("Email = %q", cfg.Email)
	}
	if cfg.Threshold != 85 {
		t.Errorf("Threshold = %d", cfg.Threshold)
	}
	if cfg.YearsBack != 10 {
		t.Errorf("YearsBack = %d", cfg.YearsBack)
	}
	if cfg.Output != "backpain" {
		t.Errorf("Output = %q", cfg.Output)
	}
	// Unset fields keep their defaults.
	if cfg.MaxResults != Default().MaxResults {
		t.Errorf("MaxResults = %d, want default %d", cfg.MaxResults, Default().MaxResults)
	}
	if cfg.BatchSize != Default().BatchSize {
		t.Errorf("BatchSize = %d, want default %d", cfg.BatchSize, Default().BatchSize)
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"threshold too high", "threshold: 101"},
		{"threshold negative", "threshold: -1"},
		{"max_results zero", "max_results: 0"},
		{"batch_size negative", "batch_size: -5"},
		{"years_back negative", "years_back: -1"},
		{"empty output", `output: ""`},
		{"malformed yaml", "threshold: [nope"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, tt.content)); err == nil {
				t.Errorf("expected error for %q", tt.content)
			}
		})
	}
}
