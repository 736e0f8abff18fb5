package normalize

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Furkanturan8/rent-receipt-matcher/internal/matcherrors"
)

// currencyMarks removes Turkish currency symbols and codes before parsing.
var currencyMarks = strings.NewReplacer("₺", "", "TRY", "", "TL", "")

// Amount parses a noisy amount string into a fixed-point decimal.
// Currency symbols/codes are stripped, the O->0 OCR confusion is resolved,
// and comma/dot are disambiguated heuristically: the rightmost separator
// followed by at most two digits is the decimal point, every other
// separator is a thousands mark. Returns a *matcherrors.ParseError when no
// digits remain after stripping.
func Amount(s string) (decimal.Decimal, error) {
	cleaned := currencyMarks.Replace(strings.TrimSpace(s))
	cleaned = strings.ReplaceAll(cleaned, "O", "0")
	cleaned = strings.ReplaceAll(cleaned, "o", "0")
	cleaned = strings.ReplaceAll(cleaned, " ", "")

	if !strings.ContainsAny(cleaned, "0123456789") {
		return decimal.Zero, &matcherrors.ParseError{
			Field: "amount",
			Value: s,
			Err:   errors.New("no digits after stripping"),
		}
	}

	standardized := standardizeSeparators(cleaned)
	amount, err := decimal.NewFromString(standardized)
	if err != nil {
		return decimal.Zero, &matcherrors.ParseError{Field: "amount", Value: s, Err: err}
	}
	return amount, nil
}

// standardizeSeparators converts Turkish ("45.000,00") and English
// ("45,000.00") separator conventions into a plain decimal string.
func standardizeSeparators(s string) string {
	lastComma := strings.LastIndex(s, ",")
	lastDot := strings.LastIndex(s, ".")

	switch {
	case lastComma >= 0 && lastDot >= 0:
		if lastComma > lastDot {
			// Turkish format: dot thousands, comma decimal.
			if isDecimalTail(s[lastComma+1:]) {
				intPart := strings.ReplaceAll(s[:lastComma], ".", "")
				intPart = strings.ReplaceAll(intPart, ",", "")
				return intPart + "." + s[lastComma+1:]
			}
			return strings.ReplaceAll(strings.ReplaceAll(s, ".", ""), ",", "")
		}
		// English format: comma thousands, dot decimal.
		if isDecimalTail(s[lastDot+1:]) {
			intPart := strings.ReplaceAll(s[:lastDot], ",", "")
			intPart = strings.ReplaceAll(intPart, ".", "")
			return intPart + "." + s[lastDot+1:]
		}
		return strings.ReplaceAll(strings.ReplaceAll(s, ",", ""), ".", "")

	case lastComma >= 0:
		if strings.Count(s, ",") == 1 && isDecimalTail(s[lastComma+1:]) {
			return strings.ReplaceAll(s, ",", ".")
		}
		return strings.ReplaceAll(s, ",", "")

	case lastDot >= 0:
		if strings.Count(s, ".") == 1 && isDecimalTail(s[lastDot+1:]) {
			return s
		}
		return strings.ReplaceAll(s, ".", "")
	}
	return s
}

// isDecimalTail reports whether the text after a separator looks like a
// decimal fraction (one or two digits).
func isDecimalTail(tail string) bool {
	if len(tail) == 0 || len(tail) > 2 {
		return false
	}
	for _, r := range tail {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
