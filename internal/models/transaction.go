package models

import "time"

// TransactionStatus is the lifecycle state of a payment transaction.
type TransactionStatus string

const (
	TxPending   TransactionStatus = "pending"
	TxApproved  TransactionStatus = "approved"
	TxCompleted TransactionStatus = "completed"
	TxRejected  TransactionStatus = "rejected"
)

// IsTerminal reports whether no further transition is permitted from the
// status. Terminal transactions only accept appended audit notes.
func (s TransactionStatus) IsTerminal() bool {
	return s == TxCompleted || s == TxRejected
}

// AuditEntry records one status transition or note on a transaction.
// The audit trail is append-only; statuses are never overwritten silently.
type AuditEntry struct {
	From   TransactionStatus `json:"from,omitempty"`
	To     TransactionStatus `json:"to,omitempty"`
	Reason string            `json:"reason,omitempty"`
	Actor  string            `json:"actor,omitempty"`
	At     time.Time         `json:"at"`
}

// Transaction is the financial record materialized from a classified match.
type Transaction struct {
	ID              string            `json:"id"`
	Status          TransactionStatus `json:"status"`
	ContractID      *int64            `json:"contract_id,omitempty"`
	PropertyID      *int64            `json:"property_id,omitempty"`
	OwnerID         *int64            `json:"owner_id,omitempty"`
	CustomerID      *int64            `json:"customer_id,omitempty"`
	Amount          Money             `json:"amount"`
	ReferenceNumber string            `json:"reference_number"`
	PaymentDate     *time.Time        `json:"payment_date,omitempty"`
	DueDate         *time.Time        `json:"due_date,omitempty"`
	Description     string            `json:"description"`
	Notes           []string          `json:"notes,omitempty"`

	// OCRPayload carries the raw extracted fields verbatim for audit.
	OCRPayload RawReceiptFields `json:"ocr_payload"`

	AuditTrail []AuditEntry `json:"audit_trail"`
	CreatedAt  time.Time    `json:"created_at"`
}
