// Package matcherrors defines the error taxonomy of the matching core.
// Parse errors are recoverable signals, validation errors are business-rule
// findings, and data inconsistency errors point at backend data problems
// rather than matching failures.
package matcherrors

import "fmt"

// ParseError represents a normalization failure for a single field value.
// Callers treat it as a zero/missing signal, never as a batch-fatal error.
type ParseError struct {
	Field string
	Value string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse %s='%s': %v", e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ValidationError represents a business-rule violation found by the
// validator. It blocks auto-approval but not the creation of a rejected
// transaction.
type ValidationError struct {
	Rule   string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation rule %s failed: %s", e.Rule, e.Reason)
}

// DataInconsistencyError signals that the backend snapshot contradicts
// itself, e.g. a property whose owner differs from the matched owner.
type DataInconsistencyError struct {
	Entity string
	Reason string
}

func (e *DataInconsistencyError) Error() string {
	return fmt.Sprintf("data inconsistency on %s: %s", e.Entity, e.Reason)
}

// StateTransitionError is returned when a transaction transition is not
// permitted from its current state.
type StateTransitionError struct {
	From string
	To   string
}

func (e *StateTransitionError) Error() string {
	return fmt.Sprintf("illegal transaction transition %s -> %s", e.From, e.To)
}
