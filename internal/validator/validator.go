// Package validator applies the business rules that a matched candidate
// triple must satisfy before a transaction can be auto-approved. The
// checks are independent of the fuzzy scores: they verify hard constraints
// such as IBAN format, expected amount and contract state.
package validator

import (
	"fmt"
	"regexp"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Furkanturan8/rent-receipt-matcher/internal/logging"
	"github.com/Furkanturan8/rent-receipt-matcher/internal/matcherrors"
	"github.com/Furkanturan8/rent-receipt-matcher/internal/models"
)

// turkishIBAN is the strict format of a Turkish IBAN: TR plus 24 digits.
var turkishIBAN = regexp.MustCompile(`^TR\d{24}$`)

// Config carries the validator's tunable constants.
type Config struct {
	// AmountTolerance is the relative deviation from the expected amount
	// that passes silently; deviations up to AmountCutoff produce a
	// warning, anything beyond an error.
	AmountTolerance float64 `mapstructure:"amount_tolerance" yaml:"amount_tolerance"`
	AmountCutoff    float64 `mapstructure:"amount_cutoff" yaml:"amount_cutoff"`

	// ContractExpiryWarning is how close to its end date an active
	// contract may be before a warning is raised.
	ContractExpiryWarning time.Duration `mapstructure:"contract_expiry_warning" yaml:"contract_expiry_warning"`

	// MaxReceiptAge is how old a receipt date may be before a warning is
	// raised.
	MaxReceiptAge time.Duration `mapstructure:"max_receipt_age" yaml:"max_receipt_age"`
}

// DefaultConfig returns the canonical validation constants.
func DefaultConfig() Config {
	return Config{
		AmountTolerance:       0.05,
		AmountCutoff:          0.15,
		ContractExpiryWarning: 30 * 24 * time.Hour,
		MaxReceiptAge:         365 * 24 * time.Hour,
	}
}

// Validator checks a matching outcome against the backend snapshot.
type Validator struct {
	snap   models.Snapshot
	cfg    Config
	logger logging.Logger
	now    func() time.Time
}

// New creates a Validator over a candidate snapshot.
func New(snap models.Snapshot, cfg Config, logger logging.Logger) *Validator {
	if logger == nil {
		logger = &logging.MockLogger{}
	}
	return &Validator{snap: snap, cfg: cfg, logger: logger, now: time.Now}
}

// WithClock replaces the time source. Tests use this to pin "now".
func (v *Validator) WithClock(now func() time.Time) *Validator {
	v.now = now
	return v
}

// Validate runs every business rule against the normalized fields and the
// match outcome. expectedAmount, when supplied, takes precedence over the
// matched property's list price (a contract's current due amount may
// differ from the listing). Errors make the result invalid; warnings are
// recorded but never block.
func (v *Validator) Validate(norm models.NormalizedFields, match models.MatchResult, expectedAmount *decimal.Decimal) models.ValidationResult {
	result := models.NewValidationResult()

	v.checkRequiredFields(norm, result)
	v.checkIBANFormat(norm, result)
	v.checkAmount(norm, match, expectedAmount, result)
	v.checkRelationship(match, result)
	v.checkActiveContract(match, result)
	v.checkReceiptDate(norm, result)

	if result.IsValid && len(result.Warnings) == 0 {
		result.AddMessage("all validations passed")
	} else if result.IsValid {
		result.AddMessage(fmt.Sprintf("validation passed with %d warning(s)", len(result.Warnings)))
	} else {
		result.AddMessage(fmt.Sprintf("validation failed with %d error(s)", len(result.Errors)))
	}

	v.logger.Debug("validation completed",
		logging.Field{Key: "valid", Value: result.IsValid},
		logging.Field{Key: logging.FieldCount, Value: len(result.Errors)})

	return *result
}

// checkRequiredFields verifies the minimum field set: receiver IBAN,
// amount, and at least one of sender name or description.
func (v *Validator) checkRequiredFields(norm models.NormalizedFields, result *models.ValidationResult) {
	if norm.ReceiverIBAN == "" {
		result.AddError(ruleError("required_fields", "receiver IBAN missing"))
	}
	if !norm.HasAmount {
		result.AddError(ruleError("required_fields", "amount missing"))
	}
	if norm.SenderName == "" && norm.Description == "" {
		result.AddError(ruleError("required_fields", "sender name or description missing"))
	}
}

func (v *Validator) checkIBANFormat(norm models.NormalizedFields, result *models.ValidationResult) {
	if norm.ReceiverIBAN == "" {
		return // absence already reported by the required-field check
	}
	if !turkishIBAN.MatchString(norm.ReceiverIBAN) {
		result.AddError(ruleError("iban_format", fmt.Sprintf("%s is not TR followed by 24 digits", norm.ReceiverIBAN)))
		return
	}
	result.AddMessage(fmt.Sprintf("receiver IBAN format valid: %s", norm.ReceiverIBAN))
}

// checkAmount compares the receipt amount against the expected amount,
// falling back to the matched property's list price.
func (v *Validator) checkAmount(norm models.NormalizedFields, match models.MatchResult, expectedAmount *decimal.Decimal, result *models.ValidationResult) {
	if !norm.HasAmount {
		return
	}
	if !norm.Amount.IsPositive() {
		result.AddError(ruleError("amount", fmt.Sprintf("must be positive, got %s", norm.Amount.StringFixed(2))))
		return
	}

	expected := expectedAmount
	if expected == nil && match.PropertyID != nil {
		if property, ok := v.snap.PropertyByID(*match.PropertyID); ok && property.ExpectedPrice.IsPositive() {
			price := property.ExpectedPrice
			expected = &price
		}
	}
	if expected == nil {
		result.AddWarning("no expected amount available for cross-check")
		return
	}

	deviation, _ := norm.Amount.Sub(*expected).Abs().Div(*expected).Float64()
	switch {
	case deviation <= v.cfg.AmountTolerance:
		result.AddMessage(fmt.Sprintf("amount %s within tolerance of expected %s",
			norm.Amount.StringFixed(2), expected.StringFixed(2)))
	case deviation <= v.cfg.AmountCutoff:
		result.AddWarning(fmt.Sprintf("amount %s deviates %.1f%% from expected %s",
			norm.Amount.StringFixed(2), deviation*100, expected.StringFixed(2)))
	default:
		result.AddError(ruleError("amount", fmt.Sprintf("%s deviates %.1f%% from expected %s, beyond the acceptable band",
			norm.Amount.StringFixed(2), deviation*100, expected.StringFixed(2))))
	}
}

// checkRelationship verifies the matched property actually belongs to the
// matched owner. A mismatch is a backend data inconsistency, not a fuzzy
// matching failure.
func (v *Validator) checkRelationship(match models.MatchResult, result *models.ValidationResult) {
	if match.OwnerID == nil {
		result.AddError(ruleError("relationship", "no owner matched"))
		return
	}
	result.AddMessage(fmt.Sprintf("owner matched (id %d)", *match.OwnerID))

	if match.PropertyID == nil {
		return
	}
	property, ok := v.snap.PropertyByID(*match.PropertyID)
	if !ok {
		result.AddError(inconsistencyError("property", fmt.Sprintf("matched property %d not in snapshot", *match.PropertyID)))
		return
	}
	if property.OwnerID != *match.OwnerID {
		result.AddError(inconsistencyError("property", fmt.Sprintf("property %d belongs to owner %d, not matched owner %d",
			property.ID, property.OwnerID, *match.OwnerID)))
		return
	}
	result.AddMessage(fmt.Sprintf("property matched (id %d)", property.ID))
}

// checkActiveContract requires a rental contract linking the matched
// customer and property. No contract at all is an error; a contract that
// is expired or close to its end date is a warning.
func (v *Validator) checkActiveContract(match models.MatchResult, result *models.ValidationResult) {
	if match.PropertyID == nil {
		return
	}
	contracts := v.snap.ContractsFor(*match.PropertyID)
	if match.CustomerID != nil {
		var linked []models.RentalContract
		for _, c := range contracts {
			if c.TenantID == *match.CustomerID {
				linked = append(linked, c)
			}
		}
		contracts = linked
	}
	if len(contracts) == 0 {
		result.AddError(ruleError("active_contract", fmt.Sprintf("no rental contract links the matched parties to property %d", *match.PropertyID)))
		return
	}

	now := v.now()
	for _, c := range contracts {
		if !c.IsActive(now) {
			continue
		}
		if !c.EndDate.IsZero() && c.EndDate.Sub(now) <= v.cfg.ContractExpiryWarning {
			result.AddWarning(fmt.Sprintf("contract %d expires on %s", c.ID, c.EndDate.Format("2006-01-02")))
		}
		result.AddMessage(fmt.Sprintf("active rental contract found (id %d)", c.ID))
		return
	}
	result.AddWarning(fmt.Sprintf("only expired contracts found for property %d", *match.PropertyID))
}

// checkReceiptDate sanity-checks the transaction date when one was
// extracted: future dates are errors, stale dates warnings.
func (v *Validator) checkReceiptDate(norm models.NormalizedFields, result *models.ValidationResult) {
	if !norm.HasDate {
		return
	}
	now := v.now()
	if norm.Date.After(now) {
		result.AddError(ruleError("receipt_date", fmt.Sprintf("receipt date %s is in the future", norm.Date.Format("2006-01-02"))))
		return
	}
	if now.Sub(norm.Date) > v.cfg.MaxReceiptAge {
		result.AddWarning(fmt.Sprintf("receipt date %s is older than expected", norm.Date.Format("2006-01-02")))
	}
}

// ruleError renders a business-rule violation through the shared error
// taxonomy so every error string carries the rule that produced it.
func ruleError(rule, reason string) string {
	return (&matcherrors.ValidationError{Rule: rule, Reason: reason}).Error()
}

// inconsistencyError renders a snapshot contradiction the same way.
func inconsistencyError(entity, reason string) string {
	return (&matcherrors.DataInconsistencyError{Entity: entity, Reason: reason}).Error()
}
