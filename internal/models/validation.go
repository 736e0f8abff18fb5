package models

// ValidationResult collects the outcome of the business-rule checks run
// against a matched candidate triple. Errors block auto-approval; warnings
// are attached to the transaction for audit but never block progression.
type ValidationResult struct {
	IsValid  bool     `json:"is_valid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
	Messages []string `json:"messages"`
}

// NewValidationResult returns an empty, valid result.
func NewValidationResult() *ValidationResult {
	return &ValidationResult{IsValid: true}
}

// AddError records a blocking rule violation and marks the result invalid.
func (v *ValidationResult) AddError(msg string) {
	v.Errors = append(v.Errors, msg)
	v.IsValid = false
}

// AddWarning records a non-blocking finding.
func (v *ValidationResult) AddWarning(msg string) {
	v.Warnings = append(v.Warnings, msg)
}

// AddMessage records an informational line for operator review.
func (v *ValidationResult) AddMessage(msg string) {
	v.Messages = append(v.Messages, msg)
}
