package matcher

import (
	"fmt"
	"sort"

	"github.com/Furkanturan8/rent-receipt-matcher/internal/logging"
	"github.com/Furkanturan8/rent-receipt-matcher/internal/models"
	"github.com/Furkanturan8/rent-receipt-matcher/internal/normalize"
	"github.com/Furkanturan8/rent-receipt-matcher/internal/similarity"
)

// Engine scores a receipt against a candidate snapshot and produces a
// MatchResult. It is stateless per invocation: the same fields and the
// same snapshot always yield the same result, so receipts can be matched
// concurrently without locking.
type Engine struct {
	cfg      Config
	keywords similarity.KeywordConfig
	logger   logging.Logger
}

// NewEngine creates a matching engine with the given configuration.
func NewEngine(cfg Config, keywords similarity.KeywordConfig, logger logging.Logger) *Engine {
	if logger == nil {
		logger = &logging.MockLogger{}
	}
	return &Engine{cfg: cfg, keywords: keywords, logger: logger}
}

// Match normalizes the raw fields and scores them against the snapshot.
// It never returns an error: "no good match" is a rejected status, not an
// exceptional path.
func (e *Engine) Match(raw models.RawReceiptFields, snap models.Snapshot) models.MatchResult {
	return e.MatchFields(normalize.Fields(raw), snap)
}

// MatchFields scores already-normalized fields against the snapshot.
func (e *Engine) MatchFields(norm models.NormalizedFields, snap models.Snapshot) models.MatchResult {
	owner, ibanScore, nameScore := e.selectOwner(norm, snap)

	var property *models.CandidateProperty
	amountScore, addressScore := 0.0, 0.0
	if owner != nil {
		property, amountScore, addressScore = e.selectProperty(norm, snap.PropertiesOf(owner.ID))
	}

	customer, senderScore := e.selectCustomer(norm, snap)

	scores := map[models.Criterion]float64{
		models.CriterionIBAN:    ibanScore,
		models.CriterionAmount:  amountScore,
		models.CriterionName:    nameScore,
		models.CriterionAddress: addressScore,
		models.CriterionSender:  senderScore,
	}
	included := e.includedCriteria(norm, snap)

	var weightedSum, weightTotal float64
	criterionScores := make([]models.CriterionScore, 0, len(models.Criteria))
	for _, criterion := range models.Criteria {
		weight := 0.0
		if included[criterion] {
			weight = e.cfg.Weights.Of(criterion)
			weightedSum += scores[criterion] * weight
			weightTotal += weight
		}
		criterionScores = append(criterionScores, models.CriterionScore{
			Criterion: criterion,
			Score:     scores[criterion],
			Weight:    weight,
		})
	}

	confidence := 0.0
	if weightTotal > 0 {
		confidence = 100 * weightedSum / weightTotal
	}

	result := models.MatchResult{
		Confidence:      confidence,
		Status:          e.classify(confidence, owner),
		CriterionScores: criterionScores,
	}
	if owner != nil {
		id := owner.ID
		result.OwnerID = &id
	}
	if customer != nil {
		id := customer.ID
		result.CustomerID = &id
	}
	if property != nil {
		id := property.ID
		result.PropertyID = &id
	}
	result.Messages = e.buildMessages(result, included)

	e.logger.Debug("matching run completed",
		logging.Field{Key: logging.FieldConfidence, Value: confidence},
		logging.Field{Key: logging.FieldStatus, Value: string(result.Status)})

	return result
}

// selectOwner picks the owner with the best combined IBAN+name evidence.
// Owners are visited in ascending id order and only a strictly better
// score replaces the incumbent, so ties resolve to the lowest id.
func (e *Engine) selectOwner(norm models.NormalizedFields, snap models.Snapshot) (*models.CandidateOwner, float64, float64) {
	owners := make([]models.CandidateOwner, len(snap.Owners))
	copy(owners, snap.Owners)
	sort.Slice(owners, func(i, j int) bool { return owners[i].ID < owners[j].ID })

	var best *models.CandidateOwner
	bestKey, bestIBAN, bestName := 0.0, 0.0, 0.0

	for i := range owners {
		ibanScore := e.ibanScore(norm.ReceiverIBAN, owners[i].IBAN)
		nameScore := 0.0
		if norm.ReceiverName != "" {
			nameScore = similarity.NameSimilarity(norm.ReceiverName, normalize.Name(owners[i].FullName))
		}
		key := ibanScore*e.cfg.Weights.IBAN + nameScore*e.cfg.Weights.Name
		if key > bestKey {
			best = &owners[i]
			bestKey, bestIBAN, bestName = key, ibanScore, nameScore
		}
	}
	return best, bestIBAN, bestName
}

// selectProperty picks the property with the best combined amount+address
// evidence among the chosen owner's properties, lowest id on ties.
func (e *Engine) selectProperty(norm models.NormalizedFields, properties []models.CandidateProperty) (*models.CandidateProperty, float64, float64) {
	sorted := make([]models.CandidateProperty, len(properties))
	copy(sorted, properties)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	var best *models.CandidateProperty
	bestKey, bestAmount, bestAddress := -1.0, 0.0, 0.0

	for i := range sorted {
		amountScore := e.amountScore(norm, sorted[i])
		addressScore := 0.0
		if norm.Description != "" {
			addressScore = similarity.AddressSimilarity(norm.Description, sorted[i].Address, e.keywords)
		}
		key := amountScore*e.cfg.Weights.Amount + addressScore*e.cfg.Weights.Address
		if key > bestKey {
			best = &sorted[i]
			bestKey, bestAmount, bestAddress = key, amountScore, addressScore
		}
	}
	if best == nil {
		return nil, 0, 0
	}
	return best, bestAmount, bestAddress
}

// selectCustomer anchors the customer by sender-name similarity, lowest id
// on ties. A zero score selects nobody.
func (e *Engine) selectCustomer(norm models.NormalizedFields, snap models.Snapshot) (*models.CandidateCustomer, float64) {
	if norm.SenderName == "" {
		return nil, 0
	}
	customers := make([]models.CandidateCustomer, len(snap.Customers))
	copy(customers, snap.Customers)
	sort.Slice(customers, func(i, j int) bool { return customers[i].ID < customers[j].ID })

	var best *models.CandidateCustomer
	bestScore := 0.0
	for i := range customers {
		score := similarity.NameSimilarity(norm.SenderName, normalize.Name(customers[i].FullName))
		if score > bestScore {
			best = &customers[i]
			bestScore = score
		}
	}
	return best, bestScore
}

// ibanScore compares the receipt's receiver IBAN with an owner IBAN:
// 1.0 when any OCR-confusion variant matches exactly, a partial score
// when only the trailing four digits agree, 0 otherwise.
func (e *Engine) ibanScore(receiverIBAN, ownerIBAN string) float64 {
	if receiverIBAN == "" || ownerIBAN == "" {
		return 0
	}
	if normalize.IBANEquals(receiverIBAN, ownerIBAN) {
		return 1.0
	}
	owner := normalize.IBAN(ownerIBAN)
	if len(receiverIBAN) >= 4 && len(owner) >= 4 &&
		receiverIBAN[len(receiverIBAN)-4:] == owner[len(owner)-4:] {
		return e.cfg.PartialIBANScore
	}
	return 0
}

// amountScore applies the tolerance band against the property's expected
// price: 1.0 within AmountTolerance, decaying linearly to 0.0 at
// AmountCutoff. The band is continuous so near-threshold receipts do not
// flip between runs of slightly different inputs.
func (e *Engine) amountScore(norm models.NormalizedFields, property models.CandidateProperty) float64 {
	if !norm.HasAmount || !property.ExpectedPrice.IsPositive() {
		return 0
	}
	deviation, _ := norm.Amount.Sub(property.ExpectedPrice).Abs().
		Div(property.ExpectedPrice).Float64()
	switch {
	case deviation <= e.cfg.AmountTolerance:
		return 1.0
	case deviation >= e.cfg.AmountCutoff:
		return 0.0
	default:
		return (e.cfg.AmountCutoff - deviation) / (e.cfg.AmountCutoff - e.cfg.AmountTolerance)
	}
}

// includedCriteria determines which criteria take part in aggregation. A
// criterion only counts when its receipt-side field was extracted and the
// snapshot offers at least one candidate to compare against; otherwise it
// would drag confidence down for receipts that simply lack the field.
// The address criterion additionally requires the description to yield at
// least one address keyword: a description made of payment boilerplate
// carries no location evidence either way.
func (e *Engine) includedCriteria(norm models.NormalizedFields, snap models.Snapshot) map[models.Criterion]bool {
	hasAddressEvidence := norm.Description != "" &&
		len(similarity.ExtractAddressKeywords(norm.Description, e.keywords)) > 0
	return map[models.Criterion]bool{
		models.CriterionIBAN:    norm.ReceiverIBAN != "" && len(snap.Owners) > 0,
		models.CriterionAmount:  norm.HasAmount && len(snap.Properties) > 0,
		models.CriterionName:    norm.ReceiverName != "" && len(snap.Owners) > 0,
		models.CriterionAddress: hasAddressEvidence && len(snap.Properties) > 0,
		models.CriterionSender:  norm.SenderName != "" && len(snap.Customers) > 0,
	}
}

// classify maps confidence to a status. Both thresholds are inclusive. A
// matched status additionally requires an identified owner; without one
// the result is at best manual review.
func (e *Engine) classify(confidence float64, owner *models.CandidateOwner) models.MatchStatus {
	switch {
	case confidence >= e.cfg.MatchedThreshold:
		if owner == nil {
			return models.StatusManualReview
		}
		return models.StatusMatched
	case confidence >= e.cfg.ReviewThreshold:
		return models.StatusManualReview
	default:
		return models.StatusRejected
	}
}

// buildMessages emits one audit line per criterion plus a summary naming
// the chosen status.
func (e *Engine) buildMessages(result models.MatchResult, included map[models.Criterion]bool) []string {
	messages := make([]string, 0, len(models.Criteria)+1)
	for _, cs := range result.CriterionScores {
		if !included[cs.Criterion] {
			messages = append(messages, fmt.Sprintf("%s: skipped, no usable evidence or no candidates", cs.Criterion))
			continue
		}
		messages = append(messages, fmt.Sprintf("%s: score %.2f (weight %.0f)", cs.Criterion, cs.Score, cs.Weight))
	}
	messages = append(messages, fmt.Sprintf("status %s with confidence %.1f/100", result.Status, result.Confidence))
	return messages
}
