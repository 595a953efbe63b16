package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/kinleydh/syrev/internal/config"
	"github.com/kinleydh/syrev/internal/export"
	"github.com/kinleydh/syrev/internal/pubmed"
	"github.com/kinleydh/syrev/internal/record"
)

var (
	searchMaxResults int
	searchYearsBack  int
	searchOutput     string
	searchSet        string
)

func init() {
	searchCmd.Flags().IntVar(&searchMaxResults, "max-results", 0, "Maximum records to retrieve (default from config)")
	searchCmd.Flags().IntVar(&searchYearsBack, "years-back", 0, "Restrict to publications from the last N years")
	searchCmd.Flags().StringVar(&searchOutput, "output", "", "Output base name for the CSV artifact")
	searchCmd.Flags().StringVar(&searchSet, "set", "", "Cache set name (defaults to the output base name)")
	rootCmd.AddCommand(searchCmd)
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search PubMed and save the harvested records",
	Long: `Search PubMed and save the harvested records.

The query supports MeSH terms and boolean operators. Harvested records are
written to <output>.csv and cached in the local database for later
deduplication runs.

Examples:
  syrev search '"low back pain"[MeSH] AND exercise'
  syrev search 'aspirin AND headache' --years-back 5 --output aspirin`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg := applySearchFlags(cmd, mustLoadConfig())

	records, query := harvest(cmd, args[0], cfg)
	if len(records) == 0 {
		return nil
	}
	saveHarvest(cfg, query, records)
	return nil
}

// applySearchFlags overrides config values with explicitly set flags.
func applySearchFlags(cmd *cobra.Command, cfg config.Config) config.Config {
	if cmd.Flags().Changed("max-results") {
		cfg.MaxResults = searchMaxResults
	}
	if cmd.Flags().Changed("years-back") {
		cfg.YearsBack = searchYearsBack
	}
	if cmd.Flags().Changed("output") {
		cfg.Output = searchOutput
	}
	if err := cfg.Validate(); err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}
	return cfg
}

// harvest fetches and extracts all records matching the query, returning
// them with the full query sent to Entrez. It exits on failure and prints
// a notice when nothing was found.
func harvest(cmd *cobra.Command, terms string, cfg config.Config) ([]record.Record, string) {
	if cfg.Email == "" {
		exitWithError(ExitConfigError, "NCBI requires a contact email; set email in %s", configPath)
	}

	query := pubmed.BuildQuery(terms, cfg.YearsBack, time.Now())
	status("Searching PubMed with query: %s", query)

	opts := []pubmed.ClientOption{pubmed.WithEmail(cfg.Email)}
	if cfg.APIKey != "" && os.Getenv("NCBI_API_KEY") == "" {
		opts = append(opts, pubmed.WithAPIKey(cfg.APIKey))
	}
	client := pubmed.NewClient(opts...)

	records, err := client.Harvest(cmd.Context(), query, cfg.MaxResults, cfg.BatchSize, func(fetched, total int) {
		status("Fetched %d/%d records", fetched, total)
	})
	if err != nil {
		exitWithError(ExitError, "harvesting: %v", err)
	}

	if len(records) == 0 {
		notice("No results were found. Check your query and try again.")
		return nil, query
	}
	success("Total records fetched: %d", len(records))
	return records, query
}

// saveHarvest writes the raw CSV artifact and caches the records.
func saveHarvest(cfg config.Config, query string, records []record.Record) {
	csvPath := cfg.Output + ".csv"
	if err := export.WriteRecords(csvPath, records); err != nil {
		exitWithError(ExitError, "saving records: %v", err)
	}
	success("Data saved to %s", csvPath)

	setName := searchSet
	if setName == "" {
		setName = cfg.Output
	}
	db := mustOpenDB(cfg)
	defer db.Close()
	if err := db.SaveSet(setName, query, records); err != nil {
		exitWithError(ExitError, "caching records: %v", err)
	}
	status("Cached %d records as set %q in %s", len(records), setName, cfg.Database)
}
