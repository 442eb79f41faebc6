// Package levenshtein computes edit distances between city names.
package levenshtein

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// Fold returns the form of s used for case-insensitive comparison: the
// lower-case mapping, which never expands a letter the way full case folding
// does (ß stays ß). The string is NFC-normalized first so that composed and
// decomposed spellings of the same letter fold to the same runes.
func Fold(s string) string {
	return cases.Lower(language.Und).String(norm.NFC.String(s))
}

// Distance returns the minimum number of single-rune insertions, deletions
// or substitutions needed to turn a into b, ignoring case.
func Distance(a, b string) int {
	ra, rb := []rune(Fold(a)), []rune(Fold(b))
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	// Two rows of the (len(a)+1) x (len(b)+1) table are enough.
	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}

	return prev[len(rb)]
}
