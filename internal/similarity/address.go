package similarity

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/Furkanturan8/rent-receipt-matcher/internal/normalize"
)

// Street-level suffix patterns found on Turkish addresses: mahalle
// (neighborhood), sokak (street), cadde (avenue), each with its common
// abbreviations.
var addressSuffixPatterns = []*regexp.Regexp{
	regexp.MustCompile(`([A-Z0-9]+(?:\s+[A-Z0-9]+)?)\s+MAH(?:ALLE)?(?:SI)?\.?\b`),
	regexp.MustCompile(`([A-Z0-9]+)\s+SOK(?:AK|AGI)?\.?\b`),
	regexp.MustCompile(`([A-Z0-9]+)\s+CAD(?:DE)?(?:SI)?\.?\b`),
}

// Digit-in-word OCR repairs: "M0DA" -> "MODA", "K1RA" -> "KIRA". Only
// applied between letters so genuine unit numbers survive.
var (
	zeroInWord = regexp.MustCompile(`([A-Z])0([A-Z])`)
	oneInWord  = regexp.MustCompile(`([A-Z])1([A-Z])`)
	plainToken = regexp.MustCompile(`\b[A-Z]+\b`)
)

// ExtractAddressKeywords pulls the location-bearing tokens out of a free
// text: named streets and neighborhoods, unit numbers (DAIRE_8, NO_15)
// and plain candidate tokens not on the stopword list. The result is
// deduplicated and sorted for determinism.
func ExtractAddressKeywords(text string, cfg KeywordConfig) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	upper := normalize.Name(text)
	upper = zeroInWord.ReplaceAllString(upper, "${1}O${2}")
	upper = oneInWord.ReplaceAllString(upper, "${1}I${2}")

	stopwords := cfg.stopwordSet()
	for _, prefix := range cfg.NumberPrefixes {
		// Prefix labels carry no location information on their own.
		stopwords[prefix] = struct{}{}
	}
	seen := make(map[string]struct{})

	for _, pattern := range addressSuffixPatterns {
		for _, match := range pattern.FindAllStringSubmatch(upper, -1) {
			for _, word := range strings.Fields(match[1]) {
				if len(word) > 2 {
					seen[word] = struct{}{}
				}
			}
		}
	}

	for i, re := range cfg.numberPrefixPatterns() {
		for _, match := range re.FindAllStringSubmatch(upper, -1) {
			seen[fmt.Sprintf("%s_%s", cfg.NumberPrefixes[i], match[1])] = struct{}{}
		}
	}

	for _, word := range plainToken.FindAllString(upper, -1) {
		if len(word) < cfg.MinTokenLen || len(word) > cfg.MaxTokenLen {
			continue
		}
		if _, stop := stopwords[word]; stop {
			continue
		}
		seen[word] = struct{}{}
	}

	keywords := make([]string, 0, len(seen))
	for k := range seen {
		keywords = append(keywords, k)
	}
	sort.Strings(keywords)
	return keywords
}

// AddressSimilarity computes the Jaccard index over the address keyword
// sets extracted from two free texts. When either side yields no
// keywords the score is 0: there is nothing address-like to compare.
func AddressSimilarity(a, b string, cfg KeywordConfig) float64 {
	ka := ExtractAddressKeywords(a, cfg)
	kb := ExtractAddressKeywords(b, cfg)
	if len(ka) == 0 || len(kb) == 0 {
		return 0.0
	}

	setA := make(map[string]struct{}, len(ka))
	for _, k := range ka {
		setA[k] = struct{}{}
	}
	setB := make(map[string]struct{}, len(kb))
	for _, k := range kb {
		setB[k] = struct{}{}
	}
	return setJaccard(setA, setB)
}
