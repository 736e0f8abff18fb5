package similarity

import "strings"

// Blend weights for name comparison. Whole-string edit distance carries
// more weight; token overlap supplies partial credit for abbreviated or
// reordered names.
const (
	nameLevenshteinWeight = 0.6
	nameTokenWeight       = 0.4
)

// abbreviationCredit is the score an initial ("A." / "A") earns against a
// full token starting with the same letter.
const abbreviationCredit = 0.5

// NameSimilarity blends whole-string Levenshtein similarity with a
// token-set overlap score. Abbreviated tokens receive partial credit, so
// "A.YILMAZ" against "AHMET YILMAZ" scores well above zero. Symmetric.
func NameSimilarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0.0
	}
	lev := LevenshteinSimilarity(a, b)
	tok := nameTokenScore(nameTokens(a), nameTokens(b))
	return nameLevenshteinWeight*lev + nameTokenWeight*tok
}

// nameTokens splits a canonical name into comparison tokens. Dots and
// commas act as separators so "A.YILMAZ" yields ["A", "YILMAZ"].
func nameTokens(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == '.' || r == ','
	})
}

// nameTokenScore scores two token sets symmetrically: each token earns its
// best match against the other side and the total is normalized by the
// combined token count.
func nameTokenScore(a, b []string) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1.0
	}
	if len(a) == 0 || len(b) == 0 {
		return 0.0
	}
	total := 0.0
	for _, ta := range a {
		total += bestTokenMatch(ta, b)
	}
	for _, tb := range b {
		total += bestTokenMatch(tb, a)
	}
	return total / float64(len(a)+len(b))
}

func bestTokenMatch(tok string, against []string) float64 {
	best := 0.0
	for _, other := range against {
		if s := tokenMatch(tok, other); s > best {
			best = s
		}
	}
	return best
}

// tokenMatch compares two name tokens: exact equality scores 1.0, an
// initial against a token starting with the same rune scores
// abbreviationCredit, anything else 0.
func tokenMatch(a, b string) float64 {
	if a == b {
		return 1.0
	}
	ra := []rune(a)
	rb := []rune(b)
	if len(ra) == 1 && len(rb) > 1 && ra[0] == rb[0] {
		return abbreviationCredit
	}
	if len(rb) == 1 && len(ra) > 1 && rb[0] == ra[0] {
		return abbreviationCredit
	}
	return 0.0
}
