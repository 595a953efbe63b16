// Package export writes the deduplication artifacts: record CSVs, the
// duplicates CSV with match evidence, and the run summary.
package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/kinleydh/syrev/internal/dedup"
	"github.com/kinleydh/syrev/internal/record"
)

// WriteRecords writes records as CSV with the canonical column order.
func WriteRecords(path string, records []record.Record) error {
	rows := make([][]string, 0, len(records)+1)
	rows = append(rows, record.Columns)
	for _, r := range records {
		rows = append(rows, r.Values())
	}
	return writeCSV(path, rows)
}

// WriteDuplicates writes the duplicate records with two extra columns:
// duplicate_of (the input index of the record they matched) and reason
// (the recorded match evidence). When an index somehow appears in more
// than one pair, the first-recorded pair wins.
func WriteDuplicates(path string, result dedup.Result) error {
	header := make([]string, 0, len(record.Columns)+2)
	header = append(header, record.Columns...)
	header = append(header, "duplicate_of", "reason")

	rows := make([][]string, 0, len(result.Duplicates)+1)
	rows = append(rows, header)
	for i, r := range result.Duplicates {
		var duplicateOf, reason string
		if p, ok := result.PairFor(result.DuplicateIndices[i]); ok {
			duplicateOf = strconv.Itoa(p.OriginalIndex)
			reason = p.Reason
		}
		rows = append(rows, append(r.Values(), duplicateOf, reason))
	}
	return writeCSV(path, rows)
}

// ReadRecords reads a CSV previously written by WriteRecords. Columns are
// matched by header name, so files with extra columns (such as a
// duplicates CSV) load too.
func ReadRecords(path string) ([]record.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	col := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		col[name] = i
	}
	field := func(row []string, name string) string {
		if i, ok := col[name]; ok && i < len(row) {
			return row[i]
		}
		return ""
	}

	records := make([]record.Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		records = append(records, record.Record{
			PMID:                field(row, "pmid"),
			DOI:                 field(row, "doi"),
			Title:               field(row, "title"),
			Authors:             field(row, "authors"),
			Journal:             field(row, "journal"),
			PublicationYear:     field(row, "publication_year"),
			FullPublicationDate: field(row, "full_publication_date"),
			Volume:              field(row, "volume"),
			Issue:               field(row, "issue"),
			Pages:               field(row, "pages"),
			ArticleType:         field(row, "article_type"),
			Language:            field(row, "language"),
			Abstract:            field(row, "abstract"),
			Keywords:            field(row, "keywords"),
			Grants:              field(row, "grants"),
			PublicationStatus:   field(row, "publication_status"),
			PubMedLink:          field(row, "pubmed_link"),
			FullTextLink:        field(row, "full_text_link"),
		})
	}
	return records, nil
}

func writeCSV(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}

	w := csv.NewWriter(f)
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			f.Close()
			return fmt.Errorf("writing %s: %w", path, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("flushing %s: %w", path, err)
	}
	return f.Close()
}
