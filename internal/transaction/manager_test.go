package transaction

import (
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Furkanturan8/rent-receipt-matcher/internal/matcherrors"
	"github.com/Furkanturan8/rent-receipt-matcher/internal/models"
)

var testNow = time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC)

func int64Ptr(v int64) *int64 { return &v }

func testSnapshot() models.Snapshot {
	return models.Snapshot{
		Contracts: []models.RentalContract{
			{
				ID: 301, PropertyID: 101, TenantID: 201,
				MonthlyRent: decimal.NewFromInt(12500), PaymentDay: 5,
				StartDate: time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC),
				EndDate:   time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
				Status:    models.ContractStatusActive,
			},
		},
	}
}

func testManager(snap models.Snapshot) *Manager {
	ids := 0
	return NewManager(snap, nil).
		WithClock(func() time.Time { return testNow }).
		WithIDSource(func() string {
			ids++
			return fmt.Sprintf("id-%d", ids)
		})
}

func cleanMatch() models.MatchResult {
	return models.MatchResult{
		Confidence: 95,
		Status:     models.StatusMatched,
		OwnerID:    int64Ptr(1),
		CustomerID: int64Ptr(201),
		PropertyID: int64Ptr(101),
	}
}

func cleanValidation() models.ValidationResult {
	return *models.NewValidationResult()
}

func cleanFields() models.NormalizedFields {
	date := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	return models.NormalizedFields{
		SenderName:   "AYSE DEMIR",
		ReceiverIBAN: "TR330006100519786457841326",
		Description:  "MART KIRA",
		Amount:       decimal.NewFromInt(12500),
		HasAmount:    true,
		Date:         date,
		HasDate:      true,
	}
}

func TestCreateFromMatchAutoCompletes(t *testing.T) {
	m := testManager(testSnapshot())
	raw := models.RawReceiptFields{models.FieldAmountText: "12.500,00 TL"}

	tx, err := m.CreateFromMatch(raw, cleanFields(), cleanMatch(), cleanValidation())

	require.NoError(t, err)
	assert.Equal(t, models.TxCompleted, tx.Status)
	assert.Equal(t, int64(1), *tx.OwnerID)
	assert.Equal(t, int64(201), *tx.CustomerID)
	assert.Equal(t, int64(101), *tx.PropertyID)
	require.NotNil(t, tx.ContractID)
	assert.Equal(t, int64(301), *tx.ContractID)

	// pending -> approved -> completed, recorded in order.
	require.Len(t, tx.AuditTrail, 3)
	assert.Equal(t, models.TxPending, tx.AuditTrail[0].To)
	assert.Equal(t, models.TxApproved, tx.AuditTrail[1].To)
	assert.Equal(t, models.TxCompleted, tx.AuditTrail[2].To)

	// Raw OCR fields are carried verbatim.
	assert.Equal(t, "12.500,00 TL", tx.OCRPayload.Get(models.FieldAmountText))
	assert.Contains(t, tx.ReferenceNumber, "RCPT-")
}

func TestCreateFromMatchDueDate(t *testing.T) {
	m := testManager(testSnapshot())

	tx, err := m.CreateFromMatch(nil, cleanFields(), cleanMatch(), cleanValidation())

	require.NoError(t, err)
	require.NotNil(t, tx.DueDate)
	// Payment day 5 in the payment month (March 2024).
	assert.Equal(t, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), *tx.DueDate)
}

func TestCreateFromMatchRejectedMatch(t *testing.T) {
	m := testManager(testSnapshot())
	match := cleanMatch()
	match.Status = models.StatusRejected
	match.OwnerID = nil
	match.PropertyID = nil

	tx, err := m.CreateFromMatch(nil, cleanFields(), match, cleanValidation())

	require.NoError(t, err)
	assert.Equal(t, models.TxRejected, tx.Status)
	assert.Nil(t, tx.ContractID)
}

func TestCreateFromMatchFailedValidation(t *testing.T) {
	m := testManager(testSnapshot())
	validation := models.NewValidationResult()
	validation.AddError("amount deviates beyond the acceptable band")

	tx, err := m.CreateFromMatch(nil, cleanFields(), cleanMatch(), *validation)

	require.NoError(t, err)
	assert.Equal(t, models.TxRejected, tx.Status)
	last := tx.AuditTrail[len(tx.AuditTrail)-1]
	assert.Contains(t, last.Reason, "validation failed")
}

func TestCreateFromMatchManualReviewStaysPending(t *testing.T) {
	m := testManager(testSnapshot())
	match := cleanMatch()
	match.Status = models.StatusManualReview

	tx, err := m.CreateFromMatch(nil, cleanFields(), match, cleanValidation())

	require.NoError(t, err)
	assert.Equal(t, models.TxPending, tx.Status)
}

func TestCreateFromMatchWarningsBlockAutoApproval(t *testing.T) {
	m := testManager(testSnapshot())
	validation := models.NewValidationResult()
	validation.AddWarning("amount deviates 10.0% from expected")

	tx, err := m.CreateFromMatch(nil, cleanFields(), cleanMatch(), *validation)

	require.NoError(t, err)
	assert.Equal(t, models.TxPending, tx.Status)
	assert.NotEmpty(t, tx.Notes)
}

func TestTransitions(t *testing.T) {
	tests := []struct {
		name    string
		from    models.TransactionStatus
		apply   func(*Manager, *models.Transaction) error
		to      models.TransactionStatus
		allowed bool
	}{
		{"Pending to approved", models.TxPending, func(m *Manager, tx *models.Transaction) error { return m.Approve(tx, "ops", "checked") }, models.TxApproved, true},
		{"Pending to rejected", models.TxPending, func(m *Manager, tx *models.Transaction) error { return m.Reject(tx, "ops", "bad data") }, models.TxRejected, true},
		{"Pending to completed", models.TxPending, func(m *Manager, tx *models.Transaction) error { return m.Complete(tx, "ops", "") }, models.TxCompleted, false},
		{"Approved to completed", models.TxApproved, func(m *Manager, tx *models.Transaction) error { return m.Complete(tx, "ops", "paid") }, models.TxCompleted, true},
		{"Approved to rejected", models.TxApproved, func(m *Manager, tx *models.Transaction) error { return m.Reject(tx, "ops", "reversed") }, models.TxRejected, true},
		{"Approved to approved", models.TxApproved, func(m *Manager, tx *models.Transaction) error { return m.Approve(tx, "ops", "") }, models.TxApproved, false},
		{"Completed is terminal", models.TxCompleted, func(m *Manager, tx *models.Transaction) error { return m.Reject(tx, "ops", "") }, models.TxRejected, false},
		{"Rejected is terminal", models.TxRejected, func(m *Manager, tx *models.Transaction) error { return m.Approve(tx, "ops", "") }, models.TxApproved, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m := testManager(testSnapshot())
			tx := &models.Transaction{ID: "tx-1", Status: tc.from}

			err := tc.apply(m, tx)

			if tc.allowed {
				require.NoError(t, err)
				assert.Equal(t, tc.to, tx.Status)
				require.NotEmpty(t, tx.AuditTrail)
				assert.Equal(t, tc.from, tx.AuditTrail[len(tx.AuditTrail)-1].From)
			} else {
				var stateErr *matcherrors.StateTransitionError
				require.ErrorAs(t, err, &stateErr)
				assert.Equal(t, tc.from, tx.Status, "a refused transition must not change state")
				assert.Empty(t, tx.AuditTrail, "a refused transition must not touch the audit trail")
			}
		})
	}
}

func TestAppendNoteOnTerminalTransaction(t *testing.T) {
	m := testManager(testSnapshot())
	tx := &models.Transaction{ID: "tx-1", Status: models.TxCompleted}

	m.AppendNote(tx, "ops", "customer confirmed receipt")

	assert.Equal(t, models.TxCompleted, tx.Status)
	assert.Equal(t, []string{"customer confirmed receipt"}, tx.Notes)
	require.Len(t, tx.AuditTrail, 1)
	assert.Equal(t, models.TxCompleted, tx.AuditTrail[0].From)
	assert.Equal(t, models.TxCompleted, tx.AuditTrail[0].To)
}

func TestAuditTrailIsAppendOnly(t *testing.T) {
	m := testManager(testSnapshot())
	tx := &models.Transaction{ID: "tx-1", Status: models.TxPending}

	require.NoError(t, m.Approve(tx, "ops", "first"))
	first := tx.AuditTrail[0]
	require.NoError(t, m.Complete(tx, "ops", "second"))

	require.Len(t, tx.AuditTrail, 2)
	assert.Equal(t, first, tx.AuditTrail[0], "earlier entries must be untouched")
}
