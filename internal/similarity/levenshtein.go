// Package similarity provides the deterministic fuzzy-comparison
// primitives used by the matching engine. All functions are pure,
// symmetric and side-effect-free.
package similarity

// Levenshtein computes the minimum number of single-character edits
// (insertions, deletions, substitutions) between two strings.
func Levenshtein(a, b string) int {
	ra := []rune(a)
	rb := []rune(b)
	if len(ra) < len(rb) {
		ra, rb = rb, ra
	}
	if len(rb) == 0 {
		return len(ra)
	}

	previous := make([]int, len(rb)+1)
	current := make([]int, len(rb)+1)
	for j := range previous {
		previous[j] = j
	}

	for i, ca := range ra {
		current[0] = i + 1
		for j, cb := range rb {
			cost := 0
			if ca != cb {
				cost = 1
			}
			current[j+1] = min3(
				previous[j+1]+1, // deletion
				current[j]+1,    // insertion
				previous[j]+cost,
			)
		}
		previous, current = current, previous
	}
	return previous[len(rb)]
}

// LevenshteinSimilarity converts edit distance into a [0,1] score:
// 1 - distance/max(len). Both empty yields 1.0, exactly one empty 0.0.
func LevenshteinSimilarity(a, b string) float64 {
	if a == "" && b == "" {
		return 1.0
	}
	if a == "" || b == "" {
		return 0.0
	}
	la := len([]rune(a))
	lb := len([]rune(b))
	maxLen := la
	if lb > maxLen {
		maxLen = lb
	}
	return 1.0 - float64(Levenshtein(a, b))/float64(maxLen)
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
