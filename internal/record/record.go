// Package record defines the core domain types for harvested bibliographic records.
package record

import "strings"

// Record represents one bibliographic record harvested from PubMed.
//
// Every field is a plain string; data absent from the source record is the
// empty string, never a distinguished missing marker. This matters for the
// deduplication engine: two records with empty DOIs must not be considered
// identical on that field.
type Record struct {
	// Identification
	PMID  string `json:"pmid"`
	DOI   string `json:"doi"`
	Title string `json:"title"`

	// Publication info
	Authors             string `json:"authors"` // "Name (Affiliation); Name; ..."
	Journal             string `json:"journal"`
	PublicationYear     string `json:"publication_year"` // 4 digits or empty
	FullPublicationDate string `json:"full_publication_date"`
	Volume              string `json:"volume"`
	Issue               string `json:"issue"`
	Pages               string `json:"pages"`

	// Study characteristics
	ArticleType string `json:"article_type"`
	Language    string `json:"language"`

	// Content
	Abstract string `json:"abstract"`
	Keywords string `json:"keywords"`

	// Additional info
	Grants            string `json:"grants"`
	PublicationStatus string `json:"publication_status"`

	// Links
	PubMedLink   string `json:"pubmed_link"`
	FullTextLink string `json:"full_text_link"`
}

// Columns is the canonical column order for exported record tables.
var Columns = []string{
	"pmid", "doi", "title",
	"authors", "journal", "publication_year", "full_publication_date",
	"volume", "issue", "pages",
	"article_type", "language",
	"abstract", "keywords",
	"grants", "publication_status",
	"pubmed_link", "full_text_link",
}

// Values returns the record's fields in Columns order.
func (r Record) Values() []string {
	return []string{
		r.PMID, r.DOI, r.Title,
		r.Authors, r.Journal, r.PublicationYear, r.FullPublicationDate,
		r.Volume, r.Issue, r.Pages,
		r.ArticleType, r.Language,
		r.Abstract, r.Keywords,
		r.Grants, r.PublicationStatus,
		r.PubMedLink, r.FullTextLink,
	}
}

// ComparisonKey holds the lower-cased fields the deduplication engine
// compares. Keys are derived, never stored back on the record.
type ComparisonKey struct {
	Title    string
	Abstract string
}

// Key derives the comparison key for a record without mutating it.
func Key(r Record) ComparisonKey {
	return ComparisonKey{
		Title:    strings.ToLower(r.Title),
		Abstract: strings.ToLower(r.Abstract),
	}
}
