package medline

import (
	"strings"
	"testing"
)

const sampleRecord = `PMID- 33301246
OWN - NLM
STAT- MEDLINE
DP  - 2021 Feb 4
TI  - Efficacy and Safety of the mRNA-1273 SARS-CoV-2 Vaccine.
PG  - 403-416
LID - 10.1056/NEJMoa2035389 [doi]
AB  - Vaccines are needed to prevent coronavirus disease 2019 (Covid-19) and to
      protect persons who are at high risk for complications.
AU  - Baden LR
AD  - Brigham and Women's Hospital, Boston.
AU  - El Sahly HM
AD  - Baylor College of Medicine, Houston.
AU  - Essink B
TA  - N Engl J Med
JT  - The New England journal of medicine
VI  - 384
IP  - 5
LA  - eng
PT  - Journal Article
PT  - Randomized Controlled Trial
OT  - Covid-19
OT  - Vaccines
GR  - 75A50120C00034/Biomedical Advanced Research and Development Authority
PST - ppublish
PMC - PMC7787219
`

func TestParseSingleRecord(t *testing.T) {
	records, err := Parse(strings.NewReader(sampleRecord))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}

	f := records[0]
	if got := f.Get("PMID"); got != "33301246" {
		t.Errorf("PMID = %q", got)
	}
	if got := f.Get("TI"); got != "Efficacy and Safety of the mRNA-1273 SARS-CoV-2 Vaccine." {
		t.Errorf("TI = %q", got)
	}
	// Continuation lines join with a single space.
	wantAB := "Vaccines are needed to prevent coronavirus disease 2019 (Covid-19) and to protect persons who are at high risk for complications."
	if got := f.Get("AB"); got != wantAB {
		t.Errorf("AB = %q, want %q", got, wantAB)
	}
	if got := len(f["AU"]); got != 3 {
		t.Errorf("len(AU) = %d, want 3", got)
	}
	if got := len(f["PT"]); got != 2 {
		t.Errorf("len(PT) = %d, want 2", got)
	}
}

func TestParseMultipleRecords(t *testing.T) {
	text := "PMID- 1\nTI  - First\n\nPMID- 2\nTI  - Second\n\n"
	records, err := Parse(strings.NewReader(text))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if records[0].Get("PMID") != "1" || records[1].Get("PMID") != "2" {
		t.Errorf("records = %v", records)
	}
}

func TestParseEmpty(t *testing.T) {
	records, err := Parse(strings.NewReader(""))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("got %d records, want 0", len(records))
	}
}

func TestExtract(t *testing.T) {
	records, err := Parse(strings.NewReader(sampleRecord))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	r := Extract(records[0])

	if r.PMID != "33301246" {
		t.Errorf("PMID = %q", r.PMID)
	}
	if r.DOI != "10.1056/NEJMoa2035389" {
		t.Errorf("DOI = %q", r.DOI)
	}
	if r.PublicationYear != "2021" {
		t.Errorf("PublicationYear = %q", r.PublicationYear)
	}
	if r.FullPublicationDate != "2021 Feb 4" {
		t.Errorf("FullPublicationDate = %q", r.FullPublicationDate)
	}
	if r.Journal != "The New England journal of medicine" {
		t.Errorf("Journal = %q (JT must win over TA)", r.Journal)
	}
	wantAuthors := "Baden LR (Brigham and Women's Hospital, Boston.); El Sahly HM (Baylor College of Medicine, Houston.); Essink B"
	if r.Authors != wantAuthors {
		t.Errorf("Authors = %q, want %q", r.Authors, wantAuthors)
	}
	if r.ArticleType != "Journal Article; Randomized Controlled Trial" {
		t.Errorf("ArticleType = %q", r.ArticleType)
	}
	if r.Keywords != "Covid-19; Vaccines" {
		t.Errorf("Keywords = %q", r.Keywords)
	}
	if r.PubMedLink != "https://pubmed.ncbi.nlm.nih.gov/33301246/" {
		t.Errorf("PubMedLink = %q", r.PubMedLink)
	}
	if r.FullTextLink != "PMC7787219" {
		t.Errorf("FullTextLink = %q", r.FullTextLink)
	}
}

func TestExtractDOIFallbackToAID(t *testing.T) {
	f := Fields{
		"AID": {"S0140-6736(20)30183-5 [pii]", "10.1016/S0140-6736(20)30183-5 [doi]"},
	}
	r := Extract(f)
	if r.DOI != "10.1016/S0140-6736(20)30183-5" {
		t.Errorf("DOI = %q", r.DOI)
	}
}

func TestExtractMissingFields(t *testing.T) {
	r := Extract(Fields{})
	if r.PMID != "" || r.DOI != "" || r.Title != "" || r.PublicationYear != "" {
		t.Errorf("missing fields must extract as empty strings, got %+v", r)
	}
	if r.PubMedLink != "" {
		t.Errorf("no PubMed link without a PMID, got %q", r.PubMedLink)
	}
}

func TestExtractShortPublicationDate(t *testing.T) {
	r := Extract(Fields{"DP": {"2020"}})
	if r.PublicationYear != "2020" {
		t.Errorf("PublicationYear = %q", r.PublicationYear)
	}
}
