package matcher

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Furkanturan8/rent-receipt-matcher/internal/models"
	"github.com/Furkanturan8/rent-receipt-matcher/internal/similarity"
)

func testSnapshot() models.Snapshot {
	return models.Snapshot{
		Owners: []models.CandidateOwner{
			{ID: 2, FullName: "Mehmet Demir", IBAN: "TR560001000100010001000101"},
			{ID: 1, FullName: "Ahmet Yılmaz", IBAN: "TR330006100519786457841326"},
		},
		Customers: []models.CandidateCustomer{
			{ID: 202, FullName: "Fatma Kaya"},
			{ID: 201, FullName: "Ayşe Demir"},
		},
		Properties: []models.CandidateProperty{
			{ID: 101, OwnerID: 1, Address: "Moda Mahallesi Sair Nefi Sokak Daire:8 Kadikoy", ExpectedPrice: decimal.NewFromInt(12500)},
			{ID: 102, OwnerID: 2, Address: "Fenerbahce Mahallesi Sokak No:3", ExpectedPrice: decimal.NewFromInt(30000)},
		},
	}
}

func testEngine() *Engine {
	return NewEngine(DefaultConfig(), similarity.DefaultKeywordConfig(), nil)
}

func TestMatchCleanReceipt(t *testing.T) {
	engine := testEngine()
	raw := models.RawReceiptFields{
		models.FieldSenderName:   "Ayşe Demir",
		models.FieldReceiverName: "Ahmet Yılmaz",
		models.FieldReceiverIBAN: "TR33 0006 1005 1978 6457 8413 26",
		models.FieldAmountText:   "12.500,00 TL",
		models.FieldDescription:  "Moda Mahallesi Sair Nefi Sokak Daire:8 Kadikoy",
	}

	result := engine.Match(raw, testSnapshot())

	assert.Equal(t, models.StatusMatched, result.Status)
	assert.GreaterOrEqual(t, result.Confidence, 90.0)
	require.NotNil(t, result.OwnerID)
	assert.Equal(t, int64(1), *result.OwnerID)
	require.NotNil(t, result.PropertyID)
	assert.Equal(t, int64(101), *result.PropertyID)
	require.NotNil(t, result.CustomerID)
	assert.Equal(t, int64(201), *result.CustomerID)
}

func TestMatchNoisyOCRReceipt(t *testing.T) {
	engine := testEngine()
	raw := models.RawReceiptFields{
		models.FieldSenderName:   "ayse  demir",
		models.FieldReceiverName: "AHMET YILMAZ",
		models.FieldReceiverIBAN: "TR33O006100519786457841326",
		models.FieldAmountText:   "12.5OO,00 ₺",
		models.FieldDescription:  "M0DA MAHALLESI SAIR NEFI S0KAK DAIRE:8 KADIK0Y",
	}

	result := engine.Match(raw, testSnapshot())

	assert.Equal(t, models.StatusMatched, result.Status)
	require.NotNil(t, result.OwnerID)
	assert.Equal(t, int64(1), *result.OwnerID)
	assert.Equal(t, 1.0, result.Score(models.CriterionIBAN), "variant expansion should resolve the O/0 confusion")
	assert.Equal(t, 1.0, result.Score(models.CriterionAmount))
}

func TestMatchMissingAmountStillMatches(t *testing.T) {
	engine := testEngine()
	raw := models.RawReceiptFields{
		models.FieldSenderName:   "Ayşe Demir",
		models.FieldReceiverName: "Ahmet Yılmaz",
		models.FieldReceiverIBAN: "TR330006100519786457841326",
		models.FieldDescription:  "Moda Mahallesi Sair Nefi Sokak Daire:8 Kadikoy",
	}

	result := engine.Match(raw, testSnapshot())

	assert.Equal(t, models.StatusMatched, result.Status)
	assert.InDelta(t, 100.0, result.Confidence, 1e-9,
		"the absent amount criterion must not drag confidence down")

	// The excluded criterion carries zero weight in the breakdown.
	for _, cs := range result.CriterionScores {
		if cs.Criterion == models.CriterionAmount {
			assert.Zero(t, cs.Weight)
		}
	}
}

func TestMatchPartialEvidenceGoesToReview(t *testing.T) {
	engine := testEngine()
	raw := models.RawReceiptFields{
		models.FieldSenderName:   "Ayşe Demir",
		models.FieldReceiverName: "Ahmet Yılmaz",
		// Different account, same trailing four digits.
		models.FieldReceiverIBAN: "TR990009900990099009901326",
		// 10% over the expected 12500.
		models.FieldAmountText:  "13.750,00 TL",
		models.FieldDescription: "Moda Mahallesi Sair Nefi Sokak Daire:8 Kadikoy",
	}

	result := engine.Match(raw, testSnapshot())

	assert.Equal(t, models.StatusManualReview, result.Status)
	assert.GreaterOrEqual(t, result.Confidence, 70.0)
	assert.Less(t, result.Confidence, 90.0)
	assert.Equal(t, 0.5, result.Score(models.CriterionIBAN), "trailing-digit agreement earns the partial score")
	assert.InDelta(t, 0.5, result.Score(models.CriterionAmount), 1e-9, "10%% deviation sits mid-band")
}

func TestMatchIBANAndAmountOnly(t *testing.T) {
	engine := testEngine()
	raw := models.RawReceiptFields{
		models.FieldReceiverIBAN: "TR330006100519786457841326",
		models.FieldAmountText:   "12500",
	}

	result := engine.Match(raw, testSnapshot())

	assert.Equal(t, models.StatusMatched, result.Status)
	assert.InDelta(t, 100.0, result.Confidence, 1e-9)
	require.NotNil(t, result.OwnerID)
	assert.Equal(t, int64(1), *result.OwnerID)
	assert.Nil(t, result.CustomerID, "no sender field, no customer anchor")
}

func TestMatchBoilerplateDescriptionStillMatches(t *testing.T) {
	engine := testEngine()
	// "kira odeme" is wiped out entirely by the stopword list, so the
	// description carries no address evidence either way. The address
	// criterion must drop out of the denominator instead of forcing a
	// zero score against otherwise perfect evidence.
	raw := models.RawReceiptFields{
		models.FieldSenderName:   "Ayşe Demir",
		models.FieldReceiverName: "Ahmet Yılmaz",
		models.FieldReceiverIBAN: "TR330006100519786457841326",
		models.FieldAmountText:   "12.500,00 TL",
		models.FieldDescription:  "kira odeme",
	}

	result := engine.Match(raw, testSnapshot())

	assert.Equal(t, models.StatusMatched, result.Status)
	assert.InDelta(t, 100.0, result.Confidence, 1e-9)
	for _, cs := range result.CriterionScores {
		if cs.Criterion == models.CriterionAddress {
			assert.Zero(t, cs.Weight, "a keyword-free description must not count against the match")
		}
	}
}

func TestMatchUnrelatedReceiptRejected(t *testing.T) {
	engine := testEngine()
	raw := models.RawReceiptFields{
		models.FieldSenderName:   "Hasan Çelik",
		models.FieldReceiverName: "Zeynep Arslan",
		models.FieldReceiverIBAN: "TR110001100110011001100999",
		models.FieldAmountText:   "50.000,00 TL",
		models.FieldDescription:  "kira",
	}

	result := engine.Match(raw, testSnapshot())

	assert.Equal(t, models.StatusRejected, result.Status)
	assert.Less(t, result.Confidence, 70.0)
}

func TestMatchEmptySnapshot(t *testing.T) {
	engine := testEngine()
	raw := models.RawReceiptFields{
		models.FieldReceiverIBAN: "TR330006100519786457841326",
		models.FieldAmountText:   "12500",
	}

	result := engine.Match(raw, models.Snapshot{})

	assert.Equal(t, models.StatusRejected, result.Status)
	assert.Zero(t, result.Confidence)
	assert.Nil(t, result.OwnerID)
}

func TestMatchHighConfidenceWithoutOwnerIsReview(t *testing.T) {
	engine := testEngine()
	// Only the sender field is present: confidence can reach 100 on the
	// sender criterion alone, but no owner was identified.
	raw := models.RawReceiptFields{
		models.FieldSenderName: "Ayşe Demir",
	}

	result := engine.Match(raw, testSnapshot())

	assert.Nil(t, result.OwnerID)
	assert.Equal(t, models.StatusManualReview, result.Status)
}

func TestMatchTieBreaksToLowestID(t *testing.T) {
	engine := testEngine()
	snap := models.Snapshot{
		Owners: []models.CandidateOwner{
			{ID: 7, FullName: "Ali Veli", IBAN: "TR770007700770077007700777"},
			{ID: 3, FullName: "Ali Veli", IBAN: "TR330003300330033003300333"},
		},
	}
	raw := models.RawReceiptFields{
		models.FieldReceiverName: "Ali Veli",
	}

	result := engine.Match(raw, snap)

	require.NotNil(t, result.OwnerID)
	assert.Equal(t, int64(3), *result.OwnerID)
}

func TestMatchDeterministic(t *testing.T) {
	engine := testEngine()
	raw := models.RawReceiptFields{
		models.FieldSenderName:   "Ayşe Demir",
		models.FieldReceiverName: "Ahmet Yılmaz",
		models.FieldReceiverIBAN: "TR33O006100519786457841326",
		models.FieldAmountText:   "12.500,00 TL",
		models.FieldDescription:  "Moda Mah Daire:8",
	}
	snap := testSnapshot()

	first := engine.Match(raw, snap)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, engine.Match(raw, snap))
	}
}

func TestAmountScoreBand(t *testing.T) {
	engine := testEngine()
	property := models.CandidateProperty{ExpectedPrice: decimal.NewFromInt(10000)}

	tests := []struct {
		name     string
		amount   int64
		expected float64
	}{
		{"Exact", 10000, 1.0},
		{"At tolerance boundary", 10500, 1.0},
		{"Mid band", 11000, 0.5},
		{"At cutoff boundary", 11500, 0.0},
		{"Beyond cutoff", 12000, 0.0},
		{"Under by 5 percent", 9500, 1.0},
		{"Under mid band", 9000, 0.5},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			norm := models.NormalizedFields{Amount: decimal.NewFromInt(tc.amount), HasAmount: true}
			assert.InDelta(t, tc.expected, engine.amountScore(norm, property), 1e-9)
		})
	}

	t.Run("Missing amount scores 0", func(t *testing.T) {
		assert.Zero(t, engine.amountScore(models.NormalizedFields{}, property))
	})
	t.Run("Zero expected price scores 0", func(t *testing.T) {
		norm := models.NormalizedFields{Amount: decimal.NewFromInt(10000), HasAmount: true}
		assert.Zero(t, engine.amountScore(norm, models.CandidateProperty{}))
	})
}

func TestClassifyBoundaries(t *testing.T) {
	engine := testEngine()
	owner := &models.CandidateOwner{ID: 1}

	tests := []struct {
		name       string
		confidence float64
		owner      *models.CandidateOwner
		expected   models.MatchStatus
	}{
		{"Exactly matched threshold", 90.0, owner, models.StatusMatched},
		{"Just below matched threshold", 89.99, owner, models.StatusManualReview},
		{"Exactly review threshold", 70.0, owner, models.StatusManualReview},
		{"Just below review threshold", 69.99, owner, models.StatusRejected},
		{"High confidence without owner", 95.0, nil, models.StatusManualReview},
		{"Zero", 0.0, owner, models.StatusRejected},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, engine.classify(tc.confidence, tc.owner))
		})
	}
}

func TestMatchMessages(t *testing.T) {
	engine := testEngine()
	result := engine.Match(models.RawReceiptFields{
		models.FieldReceiverIBAN: "TR330006100519786457841326",
	}, testSnapshot())

	require.NotEmpty(t, result.Messages)
	assert.Contains(t, result.Messages[len(result.Messages)-1], "status")
	// Absent criteria are reported as skipped, not scored.
	skipped := 0
	for _, msg := range result.Messages {
		if strings.Contains(msg, "skipped") {
			skipped++
		}
	}
	assert.Equal(t, 4, skipped)
}
