// Package dedup implements the deduplication engine for harvested
// bibliographic records.
//
// Records are processed in input order. Each record that has not already
// been marked duplicate anchors two matching passes: an exact pass that
// links every record sharing its non-empty PMID or DOI, then a fuzzy pass
// over the unmarked records in its publication-year bucket whose title and
// abstract token-sort ratios both exceed the configured threshold.
//
// A record marked duplicate never anchors a pass of its own and is never a
// candidate for a later anchor. Matches are locked in on first discovery;
// the engine deliberately does not compute a transitive closure over the
// duplicate relation, so the result depends on input order.
package dedup

import (
	"fmt"

	"github.com/kinleydh/syrev/internal/fuzzy"
	"github.com/kinleydh/syrev/internal/record"
)

// ExactReason is the evidence string recorded for identifier matches.
const ExactReason = "Exact match (PMID/DOI)"

// Pair records one duplicate discovery: the record at DuplicateIndex
// matched the earlier anchor at OriginalIndex.
type Pair struct {
	OriginalIndex  int    `json:"original_index"`
	DuplicateIndex int    `json:"duplicate_index"`
	Reason         string `json:"reason"`
}

// Result partitions the input into kept and duplicate records.
//
// Kept and Duplicates each preserve the records' relative input order.
// DuplicateIndices holds the original input index of each entry in
// Duplicates. Pairs is in discovery order.
type Result struct {
	Kept             []record.Record
	Duplicates       []record.Record
	DuplicateIndices []int
	Pairs            []Pair
	DuplicateCount   int
}

// PairFor returns the first-recorded pair in which idx is the duplicate.
func (r Result) PairFor(idx int) (Pair, bool) {
	for _, p := range r.Pairs {
		if p.DuplicateIndex == idx {
			return p, true
		}
	}
	return Pair{}, false
}

// Deduplicate runs the engine over records. The input is never mutated;
// indices in the result refer to positions in the input slice.
func Deduplicate(records []record.Record, cfg Config) (Result, error) {
	if err := cfg.Validate(); err != nil {
		return Result{}, err
	}

	keys := make([]record.ComparisonKey, len(records))
	for i, r := range records {
		keys[i] = record.Key(r)
	}

	marked := make(map[int]bool)
	var pairs []Pair

	for i := range records {
		if marked[i] {
			continue
		}
		pairs = exactLink(records, i, marked, pairs)
		pairs = fuzzyGroup(records, keys, i, cfg.Threshold, marked, pairs)
	}

	kept := make([]record.Record, 0, len(records)-len(marked))
	duplicates := make([]record.Record, 0, len(marked))
	var duplicateIndices []int
	for i, r := range records {
		if marked[i] {
			duplicates = append(duplicates, r)
			duplicateIndices = append(duplicateIndices, i)
		} else {
			kept = append(kept, r)
		}
	}

	return Result{
		Kept:             kept,
		Duplicates:       duplicates,
		DuplicateIndices: duplicateIndices,
		Pairs:            pairs,
		DuplicateCount:   len(marked),
	}, nil
}

// exactLink marks every unmarked record sharing the anchor's non-empty
// PMID or DOI. The scan covers the entire set regardless of publication
// year; identifiers are compared as raw strings, and empty identifiers
// never match each other.
func exactLink(records []record.Record, anchor int, marked map[int]bool, pairs []Pair) []Pair {
	a := records[anchor]
	for j, r := range records {
		if j == anchor || marked[j] {
			continue
		}
		pmidMatch := a.PMID != "" && r.PMID == a.PMID
		doiMatch := a.DOI != "" && r.DOI == a.DOI
		if pmidMatch || doiMatch {
			marked[j] = true
			pairs = append(pairs, Pair{OriginalIndex: anchor, DuplicateIndex: j, Reason: ExactReason})
		}
	}
	return pairs
}

// fuzzyGroup marks every unmarked record in the anchor's publication-year
// bucket whose title and abstract similarities both strictly exceed
// threshold. Records with empty years bucket together.
func fuzzyGroup(records []record.Record, keys []record.ComparisonKey, anchor, threshold int, marked map[int]bool, pairs []Pair) []Pair {
	year := records[anchor].PublicationYear
	for j := range records {
		if j == anchor || marked[j] || records[j].PublicationYear != year {
			continue
		}
		titleSim := fuzzy.TokenSortRatio(keys[anchor].Title, keys[j].Title)
		if titleSim <= threshold {
			continue
		}
		abstractSim := fuzzy.TokenSortRatio(keys[anchor].Abstract, keys[j].Abstract)
		if abstractSim <= threshold {
			continue
		}
		marked[j] = true
		pairs = append(pairs, Pair{
			OriginalIndex:  anchor,
			DuplicateIndex: j,
			Reason:         fmt.Sprintf("Fuzzy match (Title: %d%%, Abstract: %d%%)", titleSim, abstractSim),
		})
	}
	return pairs
}
