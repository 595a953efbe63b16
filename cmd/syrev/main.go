// Package main provides the syrev CLI entry point.
package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/kinleydh/syrev/internal/config"
	"github.com/kinleydh/syrev/internal/storage"
)

// Version is set at build time via ldflags
var Version = "dev"

// configPath is the configuration file shared by all commands.
var configPath string

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "syrev",
	Short: "PubMed harvesting and deduplication for systematic reviews",
	Long: `syrev harvests bibliographic records from PubMed and removes exact
and near-duplicate entries before screening.

Records are fetched through the Entrez E-utilities API, cached in a local
SQLite database, and deduplicated with an exact PMID/DOI pass followed by
fuzzy title/abstract matching within publication-year buckets.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Load .env file if present (for NCBI_API_KEY)
	_ = godotenv.Load()

	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultFile, "Path to configuration file")
	rootCmd.Version = Version
}

// mustLoadConfig loads the configuration or exits with a config error.
func mustLoadConfig() config.Config {
	cfg, err := config.Load(configPath)
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}
	return cfg
}

// mustOpenDB opens the harvest cache database or exits.
func mustOpenDB(cfg config.Config) *storage.DB {
	db, err := storage.Open(cfg.Database)
	if err != nil {
		exitWithError(ExitError, "opening database %s: %v", cfg.Database, err)
	}
	return db
}
