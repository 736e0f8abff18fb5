// Package matcher implements the weighted multi-criterion matching engine
// that decides which owner, customer and property a receipt belongs to.
package matcher

import (
	"fmt"

	"github.com/Furkanturan8/rent-receipt-matcher/internal/models"
)

// Weights assigns the aggregation weight of each matching criterion.
type Weights struct {
	IBAN    float64 `mapstructure:"iban" yaml:"iban"`
	Amount  float64 `mapstructure:"amount" yaml:"amount"`
	Name    float64 `mapstructure:"name" yaml:"name"`
	Address float64 `mapstructure:"address" yaml:"address"`
	Sender  float64 `mapstructure:"sender" yaml:"sender"`
}

// Of returns the weight configured for a criterion.
func (w Weights) Of(c models.Criterion) float64 {
	switch c {
	case models.CriterionIBAN:
		return w.IBAN
	case models.CriterionAmount:
		return w.Amount
	case models.CriterionName:
		return w.Name
	case models.CriterionAddress:
		return w.Address
	case models.CriterionSender:
		return w.Sender
	}
	return 0
}

// Total returns the sum of all weights.
func (w Weights) Total() float64 {
	return w.IBAN + w.Amount + w.Name + w.Address + w.Sender
}

// Config carries the tunable constants of the engine. Thresholds and
// tolerances are configuration rather than code so deployments can be
// re-tuned without rebuilding.
type Config struct {
	Weights Weights `mapstructure:"weights" yaml:"weights"`

	// MatchedThreshold and ReviewThreshold classify the 0-100 confidence:
	// >= MatchedThreshold is matched, >= ReviewThreshold is manual_review,
	// below is rejected. Both boundaries are inclusive.
	MatchedThreshold float64 `mapstructure:"matched_threshold" yaml:"matched_threshold"`
	ReviewThreshold  float64 `mapstructure:"review_threshold" yaml:"review_threshold"`

	// AmountTolerance is the relative deviation up to which the amount
	// criterion scores 1.0; between AmountTolerance and AmountCutoff the
	// score decays linearly to 0.
	AmountTolerance float64 `mapstructure:"amount_tolerance" yaml:"amount_tolerance"`
	AmountCutoff    float64 `mapstructure:"amount_cutoff" yaml:"amount_cutoff"`

	// PartialIBANScore is awarded when only the trailing four digits of
	// the IBAN agree.
	PartialIBANScore float64 `mapstructure:"partial_iban_score" yaml:"partial_iban_score"`
}

// DefaultConfig returns the canonical engine constants.
func DefaultConfig() Config {
	return Config{
		Weights: Weights{
			IBAN:    95,
			Amount:  85,
			Name:    75,
			Address: 70,
			Sender:  60,
		},
		MatchedThreshold: 90,
		ReviewThreshold:  70,
		AmountTolerance:  0.05,
		AmountCutoff:     0.15,
		PartialIBANScore: 0.5,
	}
}

// Validate checks the configuration for internally consistent values.
func (c Config) Validate() error {
	if c.Weights.Total() <= 0 {
		return fmt.Errorf("criterion weights must sum to a positive total, got %v", c.Weights.Total())
	}
	if c.Weights.IBAN < 0 || c.Weights.Amount < 0 || c.Weights.Name < 0 ||
		c.Weights.Address < 0 || c.Weights.Sender < 0 {
		return fmt.Errorf("criterion weights must be non-negative")
	}
	if c.MatchedThreshold < 0 || c.MatchedThreshold > 100 {
		return fmt.Errorf("matched_threshold must be within 0-100, got %v", c.MatchedThreshold)
	}
	if c.ReviewThreshold < 0 || c.ReviewThreshold > c.MatchedThreshold {
		return fmt.Errorf("review_threshold must be within 0-%v, got %v", c.MatchedThreshold, c.ReviewThreshold)
	}
	if c.AmountTolerance < 0 || c.AmountCutoff <= c.AmountTolerance {
		return fmt.Errorf("amount tolerance band invalid: tolerance=%v cutoff=%v", c.AmountTolerance, c.AmountCutoff)
	}
	if c.PartialIBANScore < 0 || c.PartialIBANScore > 1 {
		return fmt.Errorf("partial_iban_score must be within 0-1, got %v", c.PartialIBANScore)
	}
	return nil
}
