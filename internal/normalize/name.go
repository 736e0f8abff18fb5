package normalize

import (
	"regexp"
	"strings"
)

// turkishFold maps Turkish diacritics to their ASCII analogues. The
// mapping is one-way; there is no attempt to restore diacritics.
var turkishFold = strings.NewReplacer(
	"ı", "I", "İ", "I",
	"ş", "S", "Ş", "S",
	"ğ", "G", "Ğ", "G",
	"ü", "U", "Ü", "U",
	"ö", "O", "Ö", "O",
	"ç", "C", "Ç", "C",
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// Name returns the canonical form of a person or company name: uppercased,
// Turkish diacritics folded to ASCII, whitespace runs collapsed, trimmed.
// Idempotent.
func Name(s string) string {
	n := turkishFold.Replace(s)
	n = strings.ToUpper(n)
	n = whitespaceRun.ReplaceAllString(n, " ")
	return strings.TrimSpace(n)
}
