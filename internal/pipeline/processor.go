// Package pipeline chains the processing stages for a receipt: field
// normalization, candidate matching, business validation and transaction
// creation. It is the single entry point the CLI and batch runner use.
package pipeline

import (
	"github.com/shopspring/decimal"

	"github.com/Furkanturan8/rent-receipt-matcher/internal/logging"
	"github.com/Furkanturan8/rent-receipt-matcher/internal/matcher"
	"github.com/Furkanturan8/rent-receipt-matcher/internal/models"
	"github.com/Furkanturan8/rent-receipt-matcher/internal/normalize"
	"github.com/Furkanturan8/rent-receipt-matcher/internal/similarity"
	"github.com/Furkanturan8/rent-receipt-matcher/internal/transaction"
	"github.com/Furkanturan8/rent-receipt-matcher/internal/validator"
)

// Result bundles the outcome of every stage for one receipt.
type Result struct {
	Raw         models.RawReceiptFields `json:"raw"`
	Fields      models.NormalizedFields `json:"fields"`
	Match       models.MatchResult      `json:"match"`
	Validation  models.ValidationResult `json:"validation"`
	Transaction *models.Transaction     `json:"transaction,omitempty"`
}

// Processor runs receipts through the full pipeline against one
// candidate snapshot.
type Processor struct {
	snap     models.Snapshot
	engine   *matcher.Engine
	check    *validator.Validator
	txm      *transaction.Manager
	logger   logging.Logger
	expected *decimal.Decimal
}

// NewProcessor wires the pipeline stages over a shared snapshot.
func NewProcessor(snap models.Snapshot, matchCfg matcher.Config, keywords similarity.KeywordConfig, validateCfg validator.Config, logger logging.Logger) *Processor {
	if logger == nil {
		logger = &logging.MockLogger{}
	}
	return &Processor{
		snap:   snap,
		engine: matcher.NewEngine(matchCfg, keywords, logger),
		check:  validator.New(snap, validateCfg, logger),
		txm:    transaction.NewManager(snap, logger),
		logger: logger,
	}
}

// WithExpectedAmount overrides the amount the validator cross-checks
// against, instead of the matched property's list price.
func (p *Processor) WithExpectedAmount(amount decimal.Decimal) *Processor {
	p.expected = &amount
	return p
}

// Process runs one receipt through normalization, matching, validation
// and transaction creation.
func (p *Processor) Process(raw models.RawReceiptFields) (Result, error) {
	fields := normalize.Fields(raw)
	match := p.engine.MatchFields(fields, p.snap)
	validation := p.check.Validate(fields, match, p.expected)

	tx, err := p.txm.CreateFromMatch(raw, fields, match, validation)
	if err != nil {
		return Result{}, err
	}

	p.logger.Info("receipt processed",
		logging.Field{Key: logging.FieldStatus, Value: string(match.Status)},
		logging.Field{Key: logging.FieldConfidence, Value: match.Confidence},
		logging.Field{Key: logging.FieldTransactionID, Value: tx.ID})

	return Result{
		Raw:         raw,
		Fields:      fields,
		Match:       match,
		Validation:  validation,
		Transaction: tx,
	}, nil
}
