package textutil

import (
	"strings"

	"golang.org/x/text/cases"
)

var foldCaser = cases.Fold()

// Normalize folds case and collapses whitespace runs to single spaces.
// OCR-extracted text and hand-typed descriptions compare stably after
// normalization.
func Normalize(s string) string {
	folded := foldCaser.String(s)
	return strings.Join(strings.Fields(folded), " ")
}

// Ratio computes a sequence similarity ratio in [0, 1] between the
// normalized forms of a and b: 2*M/T, where M is the total length of the
// matching blocks and T the combined length. Identical strings score 1,
// disjoint strings 0.
func Ratio(a, b string) float64 {
	ra := []rune(Normalize(a))
	rb := []rune(Normalize(b))
	if len(ra) == 0 && len(rb) == 0 {
		return 1
	}
	if len(ra) == 0 || len(rb) == 0 {
		return 0
	}
	matched := matchingLength(ra, rb)
	return 2 * float64(matched) / float64(len(ra)+len(rb))
}

// matchingLength sums the lengths of matching blocks: find the longest
// common substring, then recurse on the pieces to its left and right.
func matchingLength(a, b []rune) int {
	ai, bi, size := longestCommonSubstring(a, b)
	if size == 0 {
		return 0
	}
	total := size
	total += matchingLength(a[:ai], b[:bi])
	total += matchingLength(a[ai+size:], b[bi+size:])
	return total
}

func longestCommonSubstring(a, b []rune) (ai, bi, size int) {
	if len(a) == 0 || len(b) == 0 {
		return 0, 0, 0
	}
	// prev[j] holds the match run ending at a[i-1], b[j-1].
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				curr[j] = prev[j-1] + 1
				if curr[j] > size {
					size = curr[j]
					ai = i - size
					bi = j - size
				}
			} else {
				curr[j] = 0
			}
		}
		prev, curr = curr, prev
	}
	return ai, bi, size
}
