package pubmed

import (
	"fmt"
	"strings"
	"time"
)

// MaxQueryLength is the longest query sent in a single esearch call.
// Longer queries are split on " AND " boundaries.
const MaxQueryLength = 2000

// dateLayout is the Entrez publication-date format.
const dateLayout = "2006/01/02"

// BuildQuery appends a publication-date range covering the last yearsBack
// years to the search terms. yearsBack <= 0 returns the terms unchanged.
func BuildQuery(terms string, yearsBack int, now time.Time) string {
	if yearsBack <= 0 {
		return terms
	}
	start := now.AddDate(0, 0, -yearsBack*365)
	return fmt.Sprintf("%s AND (%s:%s[Date - Publication])",
		terms, start.Format(dateLayout), now.Format(dateLayout))
}

// SplitQuery splits a query on " AND " boundaries into chunks of at most
// maxLen characters. Terms are never split internally, so a single term
// longer than maxLen becomes its own oversized chunk.
func SplitQuery(query string, maxLen int) []string {
	terms := strings.Split(query, " AND ")

	var chunks []string
	var current []string
	currentLen := 0

	for _, term := range terms {
		if len(current) > 0 && currentLen+len(term)+5 > maxLen { // 5 for " AND "
			chunks = append(chunks, strings.Join(current, " AND "))
			current = []string{term}
			currentLen = len(term)
			continue
		}
		current = append(current, term)
		currentLen += len(term) + 5
	}
	if len(current) > 0 {
		chunks = append(chunks, strings.Join(current, " AND "))
	}

	return chunks
}
