package medline

import (
	"fmt"
	"strings"

	"github.com/kinleydh/syrev/internal/record"
)

// Extract maps one parsed MEDLINE record onto a bibliographic record,
// following PubMed's field conventions: the DOI comes from the LID entries
// tagged "[doi]" with AID as fallback, authors are paired positionally
// with their affiliations, the journal title JT falls back to the
// abbreviation TA, and the publication year is the leading four characters
// of the DP field.
func Extract(f Fields) record.Record {
	doi := doiFrom(f["LID"])
	if doi == "" {
		doi = doiFrom(f["AID"])
	}

	pubDate := f.Get("DP")
	year := pubDate
	if len(year) > 4 {
		year = year[:4]
	}

	journal := f.Get("JT")
	if journal == "" {
		journal = f.Get("TA")
	}

	pmid := f.Get("PMID")
	var pubmedLink string
	if pmid != "" {
		pubmedLink = fmt.Sprintf("https://pubmed.ncbi.nlm.nih.gov/%s/", pmid)
	}

	return record.Record{
		PMID:  pmid,
		DOI:   doi,
		Title: f.Get("TI"),

		Authors:             authorsWithAffiliations(f["AU"], f["AD"]),
		Journal:             journal,
		PublicationYear:     year,
		FullPublicationDate: pubDate,
		Volume:              f.Get("VI"),
		Issue:               f.Get("IP"),
		Pages:               f.Get("PG"),

		ArticleType: strings.Join(f["PT"], "; "),
		Language:    strings.Join(f["LA"], "; "),

		Abstract: f.Get("AB"),
		Keywords: strings.Join(f["OT"], "; "),

		Grants:            strings.Join(f["GR"], "; "),
		PublicationStatus: f.Get("PST"),

		PubMedLink:   pubmedLink,
		FullTextLink: f.Get("PMC"),
	}
}

// ExtractAll maps a batch of parsed records.
func ExtractAll(fields []Fields) []record.Record {
	records := make([]record.Record, 0, len(fields))
	for _, f := range fields {
		records = append(records, Extract(f))
	}
	return records
}

// doiFrom returns the identifier of the first value tagged "[doi]".
// LID/AID values look like "10.1056/NEJMoa2034577 [doi]".
func doiFrom(vals []string) string {
	for _, v := range vals {
		if strings.Contains(v, "[doi]") {
			if i := strings.IndexByte(v, ' '); i > 0 {
				return v[:i]
			}
			return v
		}
	}
	return ""
}

// authorsWithAffiliations pairs authors positionally with affiliations,
// rendering "Name (Affiliation)" when an affiliation is present. Unpaired
// entries from either list are kept.
func authorsWithAffiliations(authors, affiliations []string) string {
	n := len(authors)
	if len(affiliations) > n {
		n = len(affiliations)
	}
	parts := make([]string, 0, n)
	for i := 0; i < n; i++ {
		var author, affiliation string
		if i < len(authors) {
			author = authors[i]
		}
		if i < len(affiliations) {
			affiliation = affiliations[i]
		}
		if affiliation != "" {
			parts = append(parts, fmt.Sprintf("%s (%s)", author, affiliation))
		} else {
			parts = append(parts, author)
		}
	}
	return strings.Join(parts, "; ")
}
