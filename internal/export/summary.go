package export

import (
	"fmt"
	"os"
)

// Summary renders the run summary: the counts in reading order, then the
// four artifact names derived from the output base.
func Summary(total, duplicates, final int, outputBase string) string {
	return fmt.Sprintf(`
PubMed Scraping and Deduplication Summary
=========================================
Total records collected: %d
Duplicate records removed: %d
Final unique records: %d

Original data saved to: %s.csv
Deduplicated data saved to: %s_deduplicated.csv
Removed duplicates saved to: %s_duplicates.csv
This summary saved to: %s_summary.txt
`, total, duplicates, final, outputBase, outputBase, outputBase, outputBase)
}

// WriteSummary writes the summary text to path.
func WriteSummary(path, summary string) error {
	if err := os.WriteFile(path, []byte(summary), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
