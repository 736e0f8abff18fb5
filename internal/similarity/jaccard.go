package similarity

import "strings"

// DefaultNGram is the character n-gram size used for Jaccard comparison.
const DefaultNGram = 2

// Jaccard computes the Jaccard index over the character n-gram sets of two
// strings. Strings shorter than n contribute themselves as a single gram.
// Both empty yields 1.0, exactly one empty 0.0.
func Jaccard(a, b string, n int) float64 {
	if a == "" && b == "" {
		return 1.0
	}
	if a == "" || b == "" {
		return 0.0
	}
	if n < 1 {
		n = DefaultNGram
	}
	return setJaccard(ngrams(strings.ToLower(a), n), ngrams(strings.ToLower(b), n))
}

// TokenJaccard computes the Jaccard index over whitespace-separated token
// sets. It rewards shared tokens regardless of ordering, which gives
// partial credit to reordered or partially extracted names.
func TokenJaccard(a, b string) float64 {
	if a == "" && b == "" {
		return 1.0
	}
	if a == "" || b == "" {
		return 0.0
	}
	return setJaccard(tokenSet(a), tokenSet(b))
}

func ngrams(s string, n int) map[string]struct{} {
	runes := []rune(s)
	set := make(map[string]struct{})
	if len(runes) < n {
		set[s] = struct{}{}
		return set
	}
	for i := 0; i+n <= len(runes); i++ {
		set[string(runes[i:i+n])] = struct{}{}
	}
	return set
}

func tokenSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, tok := range strings.Fields(s) {
		set[tok] = struct{}{}
	}
	return set
}

func setJaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1.0
	}
	if len(a) == 0 || len(b) == 0 {
		return 0.0
	}
	intersection := 0
	for k := range a {
		if _, ok := b[k]; ok {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	return float64(intersection) / float64(union)
}
