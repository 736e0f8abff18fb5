// Package normalize provides the canonicalizers that map noisy receipt
// fields to the canonical forms used by every downstream comparison.
// All functions are pure and total: unparseable input degrades to an
// empty or zero canonical value instead of aborting processing.
package normalize

import "strings"

// MaxIBANVariants caps OCR-confusion variant generation to avoid
// combinatorial blow-up on pathological input.
const MaxIBANVariants = 8

// ibanBodyStart is the offset where the numeric account part begins
// (after the country code and check digits). OCR substitutions are only
// applied there; the country code legitimately contains letters.
const ibanBodyStart = 4

// IBAN returns the canonical form of an IBAN string: whitespace and
// hyphens stripped, uppercased, with the OCR confusions O->0 and I/L->1
// resolved in the account part. Idempotent.
func IBAN(s string) string {
	stripped := stripIBAN(s)
	if len(stripped) <= ibanBodyStart {
		return stripped
	}
	body := stripped[ibanBodyStart:]
	body = strings.Map(func(r rune) rune {
		switch r {
		case 'O':
			return '0'
		case 'I', 'L':
			return '1'
		}
		return r
	}, body)
	return stripped[:ibanBodyStart] + body
}

// IBANVariants returns the set of plausible readings of a noisy IBAN: the
// canonical form first, followed by variants with O<->0 and I/L<->1
// substituted independently at each ambiguous account-part position. The
// set is capped at MaxIBANVariants and is deterministic for a given input.
func IBANVariants(s string) []string {
	canonical := IBAN(s)
	if canonical == "" {
		return nil
	}

	variants := []string{canonical}
	seen := map[string]bool{canonical: true}

	stripped := stripIBAN(s)
	// Breadth-first over ambiguous positions so low-order substitutions
	// appear before compound ones.
	queue := []string{stripped}
	for len(queue) > 0 && len(variants) < MaxIBANVariants {
		current := queue[0]
		queue = queue[1:]
		for i := ibanBodyStart; i < len(current); i++ {
			alt, ok := confusedRune(rune(current[i]))
			if !ok {
				continue
			}
			next := current[:i] + string(alt) + current[i+1:]
			if seen[next] {
				continue
			}
			seen[next] = true
			variants = append(variants, next)
			queue = append(queue, next)
			if len(variants) >= MaxIBANVariants {
				break
			}
		}
	}
	return variants
}

// IBANEquals reports whether a noisy IBAN plausibly denotes the reference
// IBAN: true when the reference's canonical form matches any variant of
// the noisy value.
func IBANEquals(noisy, reference string) bool {
	ref := IBAN(reference)
	if ref == "" {
		return false
	}
	for _, v := range IBANVariants(noisy) {
		if IBAN(v) == ref || v == ref {
			return true
		}
	}
	return false
}

func stripIBAN(s string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(s) {
		if r == ' ' || r == '\t' || r == '-' {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// confusedRune returns the OCR-confusable counterpart of a rune, if any.
func confusedRune(r rune) (rune, bool) {
	switch r {
	case 'O':
		return '0', true
	case '0':
		return 'O', true
	case 'I', 'L':
		return '1', true
	case '1':
		return 'I', true
	}
	return 0, false
}
