package textutil

import "unicode/utf8"

// Levenshtein returns the edit distance between a and b, counting insertions,
// deletions, and substitutions of single runes at cost 1. Only one row of the
// dynamic-programming table is kept, sized by the shorter input.
func Levenshtein(a, b string) int {
	if a == b {
		return 0
	}
	ra := []rune(a)
	rb := []rune(b)
	if len(ra) < len(rb) {
		ra, rb = rb, ra
	}
	if len(rb) == 0 {
		return len(ra)
	}

	row := make([]int, len(rb)+1)
	for j := range row {
		row[j] = j
	}
	for i, ca := range ra {
		diag := row[0]
		row[0] = i + 1
		for j, cb := range rb {
			above := row[j+1]
			cost := diag
			if ca != cb {
				cost++
			}
			row[j+1] = min(above+1, row[j]+1, cost)
			diag = above
		}
	}
	return row[len(rb)]
}

// Similarity maps the edit distance between a and b onto [0, 1] relative to
// the longer string. Identical strings (including two empty strings) score 1.
func Similarity(a, b string) float64 {
	distance := Levenshtein(a, b)
	if distance == 0 {
		return 1
	}
	longest := max(utf8.RuneCountInString(a), utf8.RuneCountInString(b))
	return 1 - float64(distance)/float64(longest)
}
