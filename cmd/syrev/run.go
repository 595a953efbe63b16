package main

import (
	"github.com/spf13/cobra"
)

func init() {
	runCmd.Flags().IntVar(&searchMaxResults, "max-results", 0, "Maximum records to retrieve (default from config)")
	runCmd.Flags().IntVar(&searchYearsBack, "years-back", 0, "Restrict to publications from the last N years")
	runCmd.Flags().StringVar(&searchOutput, "output", "", "Output base name for the CSV artifacts")
	runCmd.Flags().IntVar(&dedupThreshold, "threshold", 0, "Fuzzy similarity threshold, 0-100 (default from config)")
	rootCmd.AddCommand(runCmd)
}

var runCmd = &cobra.Command{
	Use:   "run <query>",
	Short: "Harvest PubMed and deduplicate in one pass",
	Long: `Harvest PubMed and deduplicate in one pass.

Equivalent to 'syrev search' followed by 'syrev dedup': fetches every
matching record, saves the raw CSV, removes duplicates and writes the
deduplicated CSV, the duplicates CSV and the run summary.

Example:
  syrev run '"low back pain"[MeSH] AND exercise' --years-back 10`,
	Args: cobra.ExactArgs(1),
	RunE: runRun,
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg := applySearchFlags(cmd, mustLoadConfig())
	if cmd.Flags().Changed("threshold") {
		cfg.Threshold = dedupThreshold
	}

	records, query := harvest(cmd, args[0], cfg)
	if len(records) == 0 {
		return nil
	}
	saveHarvest(cfg, query, records)
	deduplicateAndReport(records, cfg)

	success("Process completed successfully!")
	return nil
}
