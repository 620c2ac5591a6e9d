package valueobject

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Currency represents a currency code (ISO 4217)
type Currency string

const (
	USD Currency = "USD" // US Dollar (default)
	EUR Currency = "EUR" // Euro
	GBP Currency = "GBP" // British Pound
)

// DefaultCurrency is the default currency for the system.
// Billing is single-currency: every invoice is denominated in USD.
const DefaultCurrency = USD

// Money is a value object representing monetary amounts as whole cents.
// It is immutable - all operations return new Money instances.
type Money struct {
	cents    int64
	currency Currency
}

// NewMoney creates a new Money with the specified amount in cents and currency
func NewMoney(cents int64, currency Currency) (Money, error) {
	if currency == "" {
		return Money{}, errors.New("currency cannot be empty")
	}
	return Money{cents: cents, currency: currency}, nil
}

// USDFromCents creates Money in USD from an integer number of cents
func USDFromCents(cents int64) Money {
	return Money{cents: cents, currency: USD}
}

// Cents returns the amount as whole cents
func (m Money) Cents() int64 {
	return m.cents
}

// Currency returns the currency code
func (m Money) Currency() Currency {
	if m.currency == "" {
		return DefaultCurrency
	}
	return m.currency
}

// Decimal returns the amount in major units (dollars) as a decimal
func (m Money) Decimal() decimal.Decimal {
	return decimal.NewFromInt(m.cents).Shift(-2)
}

// Add returns the sum of two Money values
func (m Money) Add(other Money) (Money, error) {
	if m.Currency() != other.Currency() {
		return Money{}, fmt.Errorf("currency mismatch: %s vs %s", m.Currency(), other.Currency())
	}
	return Money{cents: m.cents + other.cents, currency: m.Currency()}, nil
}

// Sub returns the difference of two Money values
func (m Money) Sub(other Money) (Money, error) {
	if m.Currency() != other.Currency() {
		return Money{}, fmt.Errorf("currency mismatch: %s vs %s", m.Currency(), other.Currency())
	}
	return Money{cents: m.cents - other.cents, currency: m.Currency()}, nil
}

// MulQuantity returns the amount multiplied by an integer quantity
func (m Money) MulQuantity(qty int64) Money {
	return Money{cents: m.cents * qty, currency: m.Currency()}
}

// IsZero returns true if the amount is zero
func (m Money) IsZero() bool {
	return m.cents == 0
}

// IsNegative returns true if the amount is negative
func (m Money) IsNegative() bool {
	return m.cents < 0
}

// Equals returns true if both amount and currency match
func (m Money) Equals(other Money) bool {
	return m.cents == other.cents && m.Currency() == other.Currency()
}

// String returns a human-readable representation, e.g. "1065.00 USD"
func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.Decimal().StringFixed(2), m.Currency())
}
