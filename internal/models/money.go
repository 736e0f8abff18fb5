package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// DefaultCurrency is assumed when the extraction layer supplies no currency.
const DefaultCurrency = "TRY"

// Money represents a monetary value with currency.
type Money struct {
	Amount   decimal.Decimal `json:"amount" yaml:"amount"`
	Currency string          `json:"currency" yaml:"currency"`
}

// NewMoney creates a new Money instance with the given amount and currency.
// An empty currency falls back to DefaultCurrency.
func NewMoney(amount decimal.Decimal, currency string) Money {
	if currency == "" {
		currency = DefaultCurrency
	}
	return Money{
		Amount:   amount,
		Currency: currency,
	}
}

// ZeroMoney returns a Money instance with zero amount in the given currency.
func ZeroMoney(currency string) Money {
	return NewMoney(decimal.Zero, currency)
}

// IsZero returns true if the amount is zero.
func (m Money) IsZero() bool {
	return m.Amount.IsZero()
}

// IsPositive returns true if the amount is positive.
func (m Money) IsPositive() bool {
	return m.Amount.IsPositive()
}

// Equal returns true if two Money values have the same amount and currency.
func (m Money) Equal(other Money) bool {
	return m.Amount.Equal(other.Amount) && m.Currency == other.Currency
}

// String returns a string representation of the money value, e.g. "12500.00 TRY".
func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.Amount.StringFixed(2), m.Currency)
}
