package pipeline

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Furkanturan8/rent-receipt-matcher/internal/matcher"
	"github.com/Furkanturan8/rent-receipt-matcher/internal/models"
	"github.com/Furkanturan8/rent-receipt-matcher/internal/similarity"
	"github.com/Furkanturan8/rent-receipt-matcher/internal/validator"
)

func pipelineSnapshot() models.Snapshot {
	return models.Snapshot{
		Owners: []models.CandidateOwner{
			{ID: 1, FullName: "Ahmet Yılmaz", IBAN: "TR330006100519786457841326"},
		},
		Customers: []models.CandidateCustomer{
			{ID: 201, FullName: "Ayşe Demir"},
		},
		Properties: []models.CandidateProperty{
			{ID: 101, OwnerID: 1, Address: "Moda Mahallesi Sair Nefi Sokak Daire:8 Kadikoy", ExpectedPrice: decimal.NewFromInt(12500)},
		},
		Contracts: []models.RentalContract{
			{
				ID: 301, PropertyID: 101, TenantID: 201,
				MonthlyRent: decimal.NewFromInt(12500), PaymentDay: 5,
				StartDate: time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC),
				Status:    models.ContractStatusActive,
			},
		},
	}
}

func newTestProcessor() *Processor {
	return NewProcessor(pipelineSnapshot(), matcher.DefaultConfig(),
		similarity.DefaultKeywordConfig(), validator.DefaultConfig(), nil)
}

func cleanReceipt() models.RawReceiptFields {
	return models.RawReceiptFields{
		models.FieldSenderName:   "Ayşe Demir",
		models.FieldReceiverName: "Ahmet Yılmaz",
		models.FieldReceiverIBAN: "TR33 0006 1005 1978 6457 8413 26",
		models.FieldAmountText:   "12.500,00 TL",
		models.FieldDescription:  "Moda Mahallesi Sair Nefi Sokak Daire:8 Kadikoy",
	}
}

func TestProcessCleanReceipt(t *testing.T) {
	p := newTestProcessor()

	result, err := p.Process(cleanReceipt())

	require.NoError(t, err)
	assert.Equal(t, models.StatusMatched, result.Match.Status)
	assert.True(t, result.Validation.IsValid)
	require.NotNil(t, result.Transaction)
	assert.Equal(t, models.TxCompleted, result.Transaction.Status)
	assert.Equal(t, "AHMET YILMAZ", result.Fields.ReceiverName)
}

func TestProcessUnmatchableReceipt(t *testing.T) {
	p := newTestProcessor()
	raw := models.RawReceiptFields{
		models.FieldSenderName:   "Hasan Çelik",
		models.FieldReceiverIBAN: "TR110001100110011001100999",
	}

	result, err := p.Process(raw)

	require.NoError(t, err)
	assert.Equal(t, models.StatusRejected, result.Match.Status)
	require.NotNil(t, result.Transaction)
	assert.Equal(t, models.TxRejected, result.Transaction.Status)
}

func TestProcessWithExpectedAmount(t *testing.T) {
	p := newTestProcessor().WithExpectedAmount(decimal.NewFromInt(13000))
	raw := cleanReceipt()
	raw[models.FieldAmountText] = "13.000,00 TL"

	result, err := p.Process(raw)

	require.NoError(t, err)
	assert.True(t, result.Validation.IsValid)
}

func TestBatchPreservesOrder(t *testing.T) {
	p := newTestProcessor()
	bp := NewBatchProcessor(p, nil)

	// Enough receipts to cross into the concurrent path, each tagged with
	// a distinct sender so the output can be traced back to its slot.
	receipts := make([]models.RawReceiptFields, 150)
	for i := range receipts {
		receipts[i] = cleanReceipt()
		receipts[i][models.FieldDescription] = fmt.Sprintf("Moda Mahallesi Daire:%d", i)
	}

	results, errs := bp.ProcessAll(context.Background(), receipts)

	require.Len(t, results, len(receipts))
	require.Len(t, errs, len(receipts))
	for i, result := range results {
		assert.NoError(t, errs[i])
		assert.Equal(t, receipts[i].Get(models.FieldDescription), result.Raw.Get(models.FieldDescription),
			"result %d must correspond to input %d", i, i)
	}
}

func TestBatchSmallRunsSequentially(t *testing.T) {
	p := newTestProcessor()
	bp := NewBatchProcessor(p, nil)

	receipts := []models.RawReceiptFields{cleanReceipt(), cleanReceipt(), cleanReceipt()}
	results, errs := bp.ProcessAll(context.Background(), receipts)

	require.Len(t, results, 3)
	for i := range results {
		assert.NoError(t, errs[i])
		assert.Equal(t, models.StatusMatched, results[i].Match.Status)
	}
}

func TestBatchCancelledContext(t *testing.T) {
	p := newTestProcessor()
	bp := NewBatchProcessor(p, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	receipts := []models.RawReceiptFields{cleanReceipt(), cleanReceipt()}
	_, errs := bp.ProcessAll(ctx, receipts)

	for _, err := range errs {
		assert.ErrorIs(t, err, context.Canceled)
	}
}

func TestBatchConcurrentCancelledContext(t *testing.T) {
	p := newTestProcessor()
	bp := NewBatchProcessor(p, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// Large enough for the worker pool; with the context already cancelled
	// most receipts are never picked up.
	receipts := make([]models.RawReceiptFields, 150)
	for i := range receipts {
		receipts[i] = cleanReceipt()
	}

	results, errs := bp.ProcessAll(ctx, receipts)

	require.Len(t, results, len(receipts))
	require.Len(t, errs, len(receipts))
	skipped := 0
	for i := range receipts {
		if errs[i] != nil {
			assert.ErrorIs(t, errs[i], context.Canceled)
			skipped++
			continue
		}
		assert.NotNil(t, results[i].Transaction,
			"a slot without an error must hold a fully processed result")
	}
	assert.Positive(t, skipped, "a cancelled batch must report unprocessed receipts")
}
