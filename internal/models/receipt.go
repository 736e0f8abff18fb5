// Package models defines the data structures shared by the matching engine,
// the validator and the transaction lifecycle.
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Field names produced by the upstream extraction layer. Absent fields are
// represented as missing keys, never as synthesized empty strings.
const (
	FieldSenderName      = "sender_name"
	FieldSenderIBAN      = "sender_iban"
	FieldReceiverName    = "receiver_name"
	FieldReceiverIBAN    = "receiver_iban"
	FieldAmountText      = "amount_text"
	FieldDescription     = "description"
	FieldTransactionDate = "transaction_date"
)

// RawReceiptFields is the flat field map produced by OCR/NER extraction.
// It is treated as immutable once received and carried verbatim on the
// resulting transaction for audit.
type RawReceiptFields map[string]string

// Get returns the value for a field name, or "" when the field was not
// extracted.
func (r RawReceiptFields) Get(name string) string {
	return r[name]
}

// Has reports whether the extraction layer produced the field at all.
func (r RawReceiptFields) Has(name string) bool {
	_, ok := r[name]
	return ok
}

// Clone returns an independent copy so the original map can be retained
// unmodified on the transaction audit payload.
func (r RawReceiptFields) Clone() RawReceiptFields {
	out := make(RawReceiptFields, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// NormalizedFields holds the canonical form of every receipt field after
// normalization. Amount and Date carry parse results separately because
// unparseable values degrade to zero/missing signals rather than errors.
type NormalizedFields struct {
	SenderName   string
	SenderIBAN   string
	ReceiverName string
	ReceiverIBAN string
	Description  string

	Amount    decimal.Decimal
	HasAmount bool

	Date    time.Time
	HasDate bool
}
