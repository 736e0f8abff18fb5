package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CandidateOwner is a read-only projection of a property owner record.
type CandidateOwner struct {
	ID       int64  `csv:"id" json:"id"`
	FullName string `csv:"full_name" json:"full_name"`
	IBAN     string `csv:"iban" json:"iban"`
}

// CandidateCustomer is a read-only projection of a tenant/customer record.
type CandidateCustomer struct {
	ID       int64  `csv:"id" json:"id"`
	FullName string `csv:"full_name" json:"full_name"`
}

// CandidateProperty is a read-only projection of a rented property record.
type CandidateProperty struct {
	ID            int64           `csv:"id" json:"id"`
	OwnerID       int64           `csv:"owner_id" json:"owner_id"`
	Address       string          `csv:"address" json:"address"`
	ExpectedPrice decimal.Decimal `csv:"expected_price" json:"expected_price"`
}

// Contract statuses as stored in the backend.
const (
	ContractStatusActive  = "active"
	ContractStatusExpired = "expired"
)

// RentalContract links a customer to a property for a period of time.
type RentalContract struct {
	ID          int64           `csv:"id" json:"id"`
	PropertyID  int64           `csv:"property_id" json:"property_id"`
	TenantID    int64           `csv:"tenant_id" json:"tenant_id"`
	MonthlyRent decimal.Decimal `csv:"monthly_rent" json:"monthly_rent"`
	PaymentDay  int             `csv:"payment_day" json:"payment_day"`
	StartDate   time.Time       `csv:"-" json:"start_date"`
	EndDate     time.Time       `csv:"-" json:"end_date"`
	Status      string          `csv:"status" json:"status"`
}

// IsActive reports whether the contract is usable for payment matching at
// the given instant.
func (c RentalContract) IsActive(now time.Time) bool {
	if c.Status != ContractStatusActive {
		return false
	}
	if !c.EndDate.IsZero() && c.EndDate.Before(now) {
		return false
	}
	return true
}

// Snapshot is a consistent, point-in-time copy of the backend entities a
// matching run operates on. The engine only ever reads it; pinning one
// snapshot per batch keeps scoring deterministic and reproducible.
type Snapshot struct {
	Owners     []CandidateOwner
	Customers  []CandidateCustomer
	Properties []CandidateProperty
	Contracts  []RentalContract
}

// PropertiesOf returns the properties belonging to an owner.
func (s Snapshot) PropertiesOf(ownerID int64) []CandidateProperty {
	var out []CandidateProperty
	for _, p := range s.Properties {
		if p.OwnerID == ownerID {
			out = append(out, p)
		}
	}
	return out
}

// PropertyByID looks up a property by id.
func (s Snapshot) PropertyByID(id int64) (CandidateProperty, bool) {
	for _, p := range s.Properties {
		if p.ID == id {
			return p, true
		}
	}
	return CandidateProperty{}, false
}

// OwnerByID looks up an owner by id.
func (s Snapshot) OwnerByID(id int64) (CandidateOwner, bool) {
	for _, o := range s.Owners {
		if o.ID == id {
			return o, true
		}
	}
	return CandidateOwner{}, false
}

// CustomerByID looks up a customer by id.
func (s Snapshot) CustomerByID(id int64) (CandidateCustomer, bool) {
	for _, c := range s.Customers {
		if c.ID == id {
			return c, true
		}
	}
	return CandidateCustomer{}, false
}

// ContractsFor returns the contracts attached to a property.
func (s Snapshot) ContractsFor(propertyID int64) []RentalContract {
	var out []RentalContract
	for _, c := range s.Contracts {
		if c.PropertyID == propertyID {
			out = append(out, c)
		}
	}
	return out
}
