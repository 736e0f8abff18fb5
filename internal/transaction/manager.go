// Package transaction materializes classified matches into payment
// transactions and drives their lifecycle. Transitions follow a fixed
// state machine and every change is recorded on an append-only audit
// trail.
package transaction

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Furkanturan8/rent-receipt-matcher/internal/logging"
	"github.com/Furkanturan8/rent-receipt-matcher/internal/matcherrors"
	"github.com/Furkanturan8/rent-receipt-matcher/internal/models"
)

// SystemActor is recorded on audit entries produced by automated
// processing rather than an operator.
const SystemActor = "system"

// allowedTransitions is the transaction state machine. Terminal states
// have no outgoing edges; rejection is reachable from any live state.
var allowedTransitions = map[models.TransactionStatus][]models.TransactionStatus{
	models.TxPending:  {models.TxApproved, models.TxRejected},
	models.TxApproved: {models.TxCompleted, models.TxRejected},
}

func transitionAllowed(from, to models.TransactionStatus) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Manager creates transactions from match outcomes and applies lifecycle
// transitions.
type Manager struct {
	snap   models.Snapshot
	logger logging.Logger
	now    func() time.Time
	newID  func() string
}

// NewManager creates a Manager over a candidate snapshot.
func NewManager(snap models.Snapshot, logger logging.Logger) *Manager {
	if logger == nil {
		logger = &logging.MockLogger{}
	}
	return &Manager{
		snap:   snap,
		logger: logger,
		now:    time.Now,
		newID:  func() string { return uuid.NewString() },
	}
}

// WithClock replaces the time source. Tests use this to pin "now".
func (m *Manager) WithClock(now func() time.Time) *Manager {
	m.now = now
	return m
}

// WithIDSource replaces the transaction id generator.
func (m *Manager) WithIDSource(newID func() string) *Manager {
	m.newID = newID
	return m
}

// CreateFromMatch builds a transaction from a classified match and its
// validation outcome. The raw OCR fields are carried verbatim for audit.
// A clean match (matched status, valid, no warnings) is auto-approved and
// completed; a rejected match or failed validation produces a rejected
// transaction; everything else stays pending for manual review.
func (m *Manager) CreateFromMatch(raw models.RawReceiptFields, norm models.NormalizedFields, match models.MatchResult, validation models.ValidationResult) (*models.Transaction, error) {
	now := m.now()
	tx := &models.Transaction{
		ID:              m.newID(),
		Status:          models.TxPending,
		OwnerID:         match.OwnerID,
		CustomerID:      match.CustomerID,
		PropertyID:      match.PropertyID,
		ReferenceNumber: "RCPT-" + m.newID(),
		Description:     norm.Description,
		OCRPayload:      raw.Clone(),
		CreatedAt:       now,
		AuditTrail: []models.AuditEntry{{
			To:     models.TxPending,
			Reason: fmt.Sprintf("created from match with confidence %.1f", match.Confidence),
			Actor:  SystemActor,
			At:     now,
		}},
	}

	if norm.HasAmount {
		tx.Amount = models.NewMoney(norm.Amount, models.DefaultCurrency)
	}
	if norm.HasDate {
		date := norm.Date
		tx.PaymentDate = &date
	}

	m.linkContract(tx, match, now)

	switch {
	case match.Status == models.StatusRejected:
		m.reject(tx, "match rejected: "+firstOrDefault(match.Messages, "confidence below review threshold"), now)
	case !validation.IsValid:
		m.reject(tx, "validation failed: "+firstOrDefault(validation.Errors, "unspecified"), now)
	case match.Status == models.StatusMatched && len(validation.Warnings) == 0:
		m.transition(tx, models.TxApproved, "auto-approved: high confidence match with clean validation", now)
		m.transition(tx, models.TxCompleted, "auto-completed after approval", now)
	default:
		for _, w := range validation.Warnings {
			tx.Notes = append(tx.Notes, "warning: "+w)
		}
		// stays pending for manual review
	}

	m.logger.Info("transaction created",
		logging.Field{Key: logging.FieldTransactionID, Value: tx.ID},
		logging.Field{Key: logging.FieldStatus, Value: string(tx.Status)},
		logging.Field{Key: logging.FieldConfidence, Value: match.Confidence})

	return tx, nil
}

// linkContract attaches the active contract for the matched parties, if
// any, and derives the due date from the contract's payment day in the
// payment month.
func (m *Manager) linkContract(tx *models.Transaction, match models.MatchResult, now time.Time) {
	if match.PropertyID == nil {
		return
	}
	for _, c := range m.snap.ContractsFor(*match.PropertyID) {
		if match.CustomerID != nil && c.TenantID != *match.CustomerID {
			continue
		}
		if !c.IsActive(now) {
			continue
		}
		contractID := c.ID
		tx.ContractID = &contractID
		ref := now
		if tx.PaymentDate != nil {
			ref = *tx.PaymentDate
		}
		due := dueDateFor(c, ref)
		tx.DueDate = &due
		return
	}
}

// dueDateFor computes the contract's due date in the month of ref,
// clamping the payment day to the month's length.
func dueDateFor(c models.RentalContract, ref time.Time) time.Time {
	day := c.PaymentDay
	if day < 1 {
		day = 1
	}
	lastDay := time.Date(ref.Year(), ref.Month()+1, 0, 0, 0, 0, 0, ref.Location()).Day()
	if day > lastDay {
		day = lastDay
	}
	return time.Date(ref.Year(), ref.Month(), day, 0, 0, 0, 0, ref.Location())
}

// Approve moves a pending transaction to approved.
func (m *Manager) Approve(tx *models.Transaction, actor, reason string) error {
	return m.apply(tx, models.TxApproved, actor, reason)
}

// Complete moves an approved transaction to completed.
func (m *Manager) Complete(tx *models.Transaction, actor, reason string) error {
	return m.apply(tx, models.TxCompleted, actor, reason)
}

// Reject moves a live transaction to rejected.
func (m *Manager) Reject(tx *models.Transaction, actor, reason string) error {
	return m.apply(tx, models.TxRejected, actor, reason)
}

// AppendNote records a free-form note on the audit trail. Notes are
// permitted in every state, including terminal ones.
func (m *Manager) AppendNote(tx *models.Transaction, actor, note string) {
	tx.Notes = append(tx.Notes, note)
	tx.AuditTrail = append(tx.AuditTrail, models.AuditEntry{
		From:   tx.Status,
		To:     tx.Status,
		Reason: note,
		Actor:  actor,
		At:     m.now(),
	})
}

func (m *Manager) apply(tx *models.Transaction, to models.TransactionStatus, actor, reason string) error {
	if !transitionAllowed(tx.Status, to) {
		return &matcherrors.StateTransitionError{From: string(tx.Status), To: string(to)}
	}
	from := tx.Status
	tx.Status = to
	tx.AuditTrail = append(tx.AuditTrail, models.AuditEntry{
		From:   from,
		To:     to,
		Reason: reason,
		Actor:  actor,
		At:     m.now(),
	})
	m.logger.Info("transaction transitioned",
		logging.Field{Key: logging.FieldTransactionID, Value: tx.ID},
		logging.Field{Key: logging.FieldStatus, Value: string(to)},
		logging.Field{Key: logging.FieldReason, Value: reason})
	return nil
}

func (m *Manager) reject(tx *models.Transaction, reason string, now time.Time) {
	from := tx.Status
	tx.Status = models.TxRejected
	tx.AuditTrail = append(tx.AuditTrail, models.AuditEntry{
		From:   from,
		To:     models.TxRejected,
		Reason: reason,
		Actor:  SystemActor,
		At:     now,
	})
}

// transition applies an automatic state change during creation.
func (m *Manager) transition(tx *models.Transaction, to models.TransactionStatus, reason string, now time.Time) {
	from := tx.Status
	tx.Status = to
	tx.AuditTrail = append(tx.AuditTrail, models.AuditEntry{
		From:   from,
		To:     to,
		Reason: reason,
		Actor:  SystemActor,
		At:     now,
	})
}

func firstOrDefault(list []string, fallback string) string {
	if len(list) > 0 {
		return list[0]
	}
	return fallback
}
