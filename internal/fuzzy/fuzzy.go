// Package fuzzy implements the token-sort ratio string similarity used by
// the deduplication engine.
package fuzzy

import (
	"math"
	"sort"
	"strings"
)

// Ratio returns a similarity score in [0, 100] for two strings: twice the
// total length of their matching blocks divided by the combined length,
// rounded to the nearest integer. Two empty strings score 0.
func Ratio(a, b string) int {
	total := len(a) + len(b)
	if total == 0 {
		return 0
	}
	m := matchingBlocks(a, b)
	return int(math.Round(200 * float64(m) / float64(total)))
}

// TokenSortRatio returns Ratio computed over copies of a and b whose
// whitespace-separated tokens have been sorted, making the score
// insensitive to word order but not to spelling.
func TokenSortRatio(a, b string) int {
	return Ratio(sortTokens(a), sortTokens(b))
}

func sortTokens(s string) string {
	tokens := strings.Fields(s)
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}

// matchingBlocks returns the total length of the matching blocks found by
// locating the longest common substring and recursing into the unmatched
// remainders on each side.
func matchingBlocks(a, b string) int {
	if a == "" || b == "" {
		return 0
	}
	ai, bi, size := longestMatch(a, b)
	if size == 0 {
		return 0
	}
	return size + matchingBlocks(a[:ai], b[:bi]) + matchingBlocks(a[ai+size:], b[bi+size:])
}

// longestMatch finds the longest common substring of a and b, returning
// its start offsets in a and b and its length. Ties resolve to the
// earliest occurrence in a, then in b.
func longestMatch(a, b string) (int, int, int) {
	bestA, bestB, bestSize := 0, 0, 0
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)

	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				cur[j] = prev[j-1] + 1
				if cur[j] > bestSize {
					bestSize = cur[j]
					bestA = i - bestSize
					bestB = j - bestSize
				}
			} else {
				cur[j] = 0
			}
		}
		prev, cur = cur, prev
	}
	return bestA, bestB, bestSize
}
