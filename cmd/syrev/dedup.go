package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kinleydh/syrev/internal/config"
	"github.com/kinleydh/syrev/internal/dedup"
	"github.com/kinleydh/syrev/internal/export"
	"github.com/kinleydh/syrev/internal/record"
	"github.com/kinleydh/syrev/internal/storage"
)

var (
	dedupSet       string
	dedupIn        string
	dedupThreshold int
	dedupOutput    string
)

func init() {
	dedupCmd.Flags().StringVar(&dedupSet, "set", "", "Cached record set to deduplicate (defaults to the output base name)")
	dedupCmd.Flags().StringVar(&dedupIn, "in", "", "Deduplicate a CSV file instead of a cached set")
	dedupCmd.Flags().IntVar(&dedupThreshold, "threshold", 0, "Fuzzy similarity threshold, 0-100 (default from config)")
	dedupCmd.Flags().StringVar(&dedupOutput, "output", "", "Output base name for the CSV artifacts")
	rootCmd.AddCommand(dedupCmd)
}

var dedupCmd = &cobra.Command{
	Use:   "dedup",
	Short: "Remove duplicate records from a harvest",
	Long: `Remove duplicate records from a harvest.

Records sharing a non-empty PMID or DOI are linked first; the remaining
records are compared within publication-year buckets, and a pair whose
title and abstract token-sort similarities both exceed the threshold is
marked duplicate. Earlier records win: a duplicate is attributed to the
first record that matched it.

Writes <output>_deduplicated.csv, <output>_duplicates.csv (with
duplicate_of and reason columns) and <output>_summary.txt.

Examples:
  syrev dedup
  syrev dedup --set backpain --threshold 85
  syrev dedup --in results.csv --output results`,
	RunE: runDedup,
}

func runDedup(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	if cmd.Flags().Changed("threshold") {
		cfg.Threshold = dedupThreshold
	}
	if cmd.Flags().Changed("output") {
		cfg.Output = dedupOutput
	}

	var records []record.Record
	if dedupIn != "" {
		var err error
		records, err = export.ReadRecords(dedupIn)
		if err != nil {
			exitWithError(ExitDataError, "reading %s: %v", dedupIn, err)
		}
	} else {
		setName := dedupSet
		if setName == "" {
			setName = cfg.Output
		}
		db := mustOpenDB(cfg)
		defer db.Close()

		var err error
		records, err = db.LoadSet(setName)
		if errors.Is(err, storage.ErrSetNotFound) {
			exitWithError(ExitDataError, "no cached set %q; run 'syrev search' first or pass --in", setName)
		}
		if err != nil {
			exitWithError(ExitError, "loading set %q: %v", setName, err)
		}
	}

	deduplicateAndReport(records, cfg)
	return nil
}

// deduplicateAndReport runs the engine over records and writes the three
// dedup artifacts.
func deduplicateAndReport(records []record.Record, cfg config.Config) {
	status("Removing duplicates from %d records...", len(records))

	result, err := dedup.Deduplicate(records, dedup.Config{Threshold: cfg.Threshold})
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}

	keptPath := cfg.Output + "_deduplicated.csv"
	if err := export.WriteRecords(keptPath, result.Kept); err != nil {
		exitWithError(ExitError, "saving deduplicated records: %v", err)
	}
	success("Saved %d deduplicated records to %s", len(result.Kept), keptPath)

	duplicatesPath := cfg.Output + "_duplicates.csv"
	if err := export.WriteDuplicates(duplicatesPath, result); err != nil {
		exitWithError(ExitError, "saving duplicates: %v", err)
	}
	success("Saved %d removed duplicates to %s", result.DuplicateCount, duplicatesPath)

	summary := export.Summary(len(records), result.DuplicateCount, len(result.Kept), cfg.Output)
	if err := export.WriteSummary(cfg.Output+"_summary.txt", summary); err != nil {
		exitWithError(ExitError, "saving summary: %v", err)
	}
	fmt.Print(summary)
}
