package normalize

import (
	"errors"
	"strings"
	"time"

	"github.com/Furkanturan8/rent-receipt-matcher/internal/matcherrors"
)

// dateLayouts lists the formats receipts are known to carry, most common
// first. Day-first layouts dominate Turkish bank receipts.
var dateLayouts = []string{
	"02.01.2006",
	"02/01/2006",
	"02-01-2006",
	"2006-01-02",
	"02.01.06",
	"02/01/06",
}

// Date parses a noisy date string, resolving the O->0 OCR confusion in
// digit positions first. Returns a *matcherrors.ParseError for ambiguous
// or out-of-range values; callers treat that as a missing-field signal.
func Date(s string) (time.Time, error) {
	cleaned := strings.TrimSpace(s)
	cleaned = strings.ReplaceAll(cleaned, "O", "0")
	cleaned = strings.ReplaceAll(cleaned, "o", "0")

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, cleaned); err == nil {
			return t, nil
		}
	}
	return time.Time{}, &matcherrors.ParseError{
		Field: "transaction_date",
		Value: s,
		Err:   errors.New("unrecognized date format"),
	}
}
