package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/kinleydh/syrev/internal/pdfdoi"
	"github.com/kinleydh/syrev/internal/storage"
)

var (
	backfillSet    string
	backfillPDFDir string
)

func init() {
	backfillCmd.Flags().StringVar(&backfillSet, "set", "", "Cached record set to update (defaults to the output base name)")
	backfillCmd.Flags().StringVar(&backfillPDFDir, "pdf-dir", "", "Directory of full-text PDFs named <pmid>.pdf")
	backfillCmd.MarkFlagRequired("pdf-dir")
	rootCmd.AddCommand(backfillCmd)
}

var backfillCmd = &cobra.Command{
	Use:   "backfill-doi",
	Short: "Fill missing DOIs from full-text PDFs",
	Long: `Fill missing DOIs from full-text PDFs.

Records harvested without a DOI cannot be linked in the exact-identifier
phase of deduplication. This command scans a directory of PDFs named
<pmid>.pdf, extracts the DOI printed on the leading pages, and updates
the cached set in place. Run it before 'syrev dedup'.

Example:
  syrev backfill-doi --set backpain --pdf-dir ./fulltexts`,
	RunE: runBackfill,
}

func runBackfill(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()

	setName := backfillSet
	if setName == "" {
		setName = cfg.Output
	}

	db := mustOpenDB(cfg)
	defer db.Close()

	records, err := db.LoadSet(setName)
	if errors.Is(err, storage.ErrSetNotFound) {
		exitWithError(ExitDataError, "no cached set %q; run 'syrev search' first", setName)
	}
	if err != nil {
		exitWithError(ExitError, "loading set %q: %v", setName, err)
	}

	status("Scanning %s for DOIs...", backfillPDFDir)
	updated, err := pdfdoi.Backfill(records, backfillPDFDir)
	if err != nil {
		exitWithError(ExitError, "scanning PDFs: %v", err)
	}
	if updated == 0 {
		notice("No records updated")
		return nil
	}

	// Preserve the query recorded at harvest time.
	query := setQuery(db, setName)
	if err := db.SaveSet(setName, query, records); err != nil {
		exitWithError(ExitError, "saving set %q: %v", setName, err)
	}
	success("Backfilled DOIs on %d records in set %q", updated, setName)
	return nil
}

// setQuery returns the stored query for a set, or "" if unavailable.
func setQuery(db *storage.DB, name string) string {
	sets, err := db.ListSets()
	if err != nil {
		return ""
	}
	for _, s := range sets {
		if s.Name == name {
			return s.Query
		}
	}
	return ""
}
