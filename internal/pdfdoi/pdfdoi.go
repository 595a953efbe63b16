// Package pdfdoi backfills missing DOIs on harvested records from a
// directory of full-text PDFs. Records indexed without a DOI otherwise
// fall through the exact-identifier phase of deduplication.
package pdfdoi

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/kinleydh/syrev/internal/record"
)

// DOI pattern: 10.XXXX/... where XXXX is 4+ digits
var doiPattern = regexp.MustCompile(`10\.\d{4,9}/[^\s<>"{}|\\^~\[\]` + "`" + `]+`)

// maxPages limits the scan; the DOI is almost always on the first page.
const maxPages = 3

// ExtractDOI returns the first valid DOI found in the leading pages of the
// PDF at path, or "" when none is present.
func ExtractDOI(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	pages := maxPages
	if r.NumPage() < pages {
		pages = r.NumPage()
	}

	for i := 1; i <= pages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		if doi := FindDOI(text); doi != "" {
			return doi, nil
		}
	}

	return "", nil // No DOI found (not an error)
}

// FindDOI finds the first valid DOI in text.
func FindDOI(text string) string {
	for _, match := range doiPattern.FindAllString(text, -1) {
		// Remove trailing punctuation
		match = strings.TrimRight(match, ".,;:)")
		if isValidDOI(match) {
			return match
		}
	}
	return ""
}

// isValidDOI performs basic validation on a DOI.
func isValidDOI(doi string) bool {
	if len(doi) < 10 {
		return false
	}
	if !strings.HasPrefix(doi, "10.") {
		return false
	}
	slashIdx := strings.Index(doi, "/")
	if slashIdx == -1 || slashIdx >= len(doi)-1 {
		return false
	}
	return true
}

// Backfill fills the DOI of records whose doi field is empty from PDFs
// found under dir. PDFs are matched to records by file name: a record
// with PMID 33301246 picks up 33301246.pdf. Returns the number of
// records updated; unreadable PDFs and PDFs without a DOI are skipped.
func Backfill(records []record.Record, dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, err
	}

	byPMID := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".pdf") {
			continue
		}
		pmid := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
		doi, err := ExtractDOI(filepath.Join(dir, entry.Name()))
		if err != nil || doi == "" {
			continue
		}
		byPMID[pmid] = doi
	}

	updated := 0
	for i := range records {
		if records[i].DOI != "" || records[i].PMID == "" {
			continue
		}
		if doi, ok := byPMID[records[i].PMID]; ok {
			records[i].DOI = doi
			updated++
		}
	}
	return updated, nil
}
