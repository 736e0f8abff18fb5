package matcherrors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseErrorUnwrap(t *testing.T) {
	cause := errors.New("no digits after stripping")
	err := &ParseError{Field: "amount", Value: "abc", Err: cause}

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "amount")
	assert.Contains(t, err.Error(), "abc")
}

func TestErrorMessages(t *testing.T) {
	assert.Contains(t,
		(&ValidationError{Rule: "iban_format", Reason: "not a Turkish IBAN"}).Error(),
		"iban_format")
	assert.Contains(t,
		(&DataInconsistencyError{Entity: "property", Reason: "owner mismatch"}).Error(),
		"property")
	assert.Contains(t,
		(&StateTransitionError{From: "completed", To: "approved"}).Error(),
		"completed -> approved")
}
