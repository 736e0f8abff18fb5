package models

// Criterion identifies one of the five matching criteria.
type Criterion string

const (
	CriterionIBAN    Criterion = "iban"
	CriterionAmount  Criterion = "amount"
	CriterionName    Criterion = "name"
	CriterionAddress Criterion = "address"
	CriterionSender  Criterion = "sender"
)

// Criteria lists all criteria in priority order. The order is fixed so that
// criterion scores and messages come out the same on every run.
var Criteria = []Criterion{
	CriterionIBAN,
	CriterionAmount,
	CriterionName,
	CriterionAddress,
	CriterionSender,
}

// CriterionScore is the score a single criterion contributed for the chosen
// candidate set, together with the weight used in aggregation.
type CriterionScore struct {
	Criterion Criterion `json:"criterion"`
	Score     float64   `json:"score"`
	Weight    float64   `json:"weight"`
}

// MatchStatus classifies the outcome of a matching run.
type MatchStatus string

const (
	StatusMatched      MatchStatus = "matched"
	StatusManualReview MatchStatus = "manual_review"
	StatusRejected     MatchStatus = "rejected"
)

// MatchResult is the sole artifact a matching run produces. It is created
// once, never mutated, and consumed downstream without re-interpreting raw
// scores.
type MatchResult struct {
	Confidence float64     `json:"confidence"`
	Status     MatchStatus `json:"status"`

	OwnerID    *int64 `json:"owner_id,omitempty"`
	CustomerID *int64 `json:"customer_id,omitempty"`
	PropertyID *int64 `json:"property_id,omitempty"`

	CriterionScores []CriterionScore `json:"criterion_scores"`
	Messages        []string         `json:"messages"`
}

// Score returns the score recorded for a criterion, or 0 when absent.
func (m MatchResult) Score(c Criterion) float64 {
	for _, cs := range m.CriterionScores {
		if cs.Criterion == c {
			return cs.Score
		}
	}
	return 0
}
