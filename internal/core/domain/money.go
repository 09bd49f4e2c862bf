package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Scale is the number of fractional digits every stored amount carries.
// Both USD and CLP are kept at 2 digits here (domain simplification).
const Scale = 2

// Money is an immutable amount tagged with its currency.
// Every constructor and arithmetic result is quantized to Scale digits,
// rounding half-up, so two Money values of the same currency always
// compare digit for digit.
type Money struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency Currency        `json:"currency"`
}

// NewMoney quantizes amount to Scale digits (half-up) and tags it.
func NewMoney(amount decimal.Decimal, currency Currency) Money {
	return Money{
		Amount:   amount.Round(Scale),
		Currency: currency,
	}
}

// Zero returns 0.00 in the given currency.
func Zero(currency Currency) Money {
	return NewMoney(decimal.Zero, currency)
}

// Add returns m + other in the shared currency.
func (m Money) Add(other Money) (Money, error) {
	if m.Currency != other.Currency {
		return Money{}, fmt.Errorf("%w: cannot add %s to %s", ErrCurrencyMismatch, other.Currency, m.Currency)
	}
	return NewMoney(m.Amount.Add(other.Amount), m.Currency), nil
}

// Subtract returns m - other in the shared currency.
func (m Money) Subtract(other Money) (Money, error) {
	if m.Currency != other.Currency {
		return Money{}, fmt.Errorf("%w: cannot subtract %s from %s", ErrCurrencyMismatch, other.Currency, m.Currency)
	}
	return NewMoney(m.Amount.Sub(other.Amount), m.Currency), nil
}

// Equal reports value equality of (amount, currency).
func (m Money) Equal(other Money) bool {
	return m.Currency == other.Currency && m.Amount.Equal(other.Amount)
}

// IsPositive reports whether the amount is strictly greater than zero.
// Boundaries use this to validate user input before calling the service.
func (m Money) IsPositive() bool {
	return m.Amount.IsPositive()
}

func (m Money) String() string {
	return m.Amount.StringFixed(Scale) + " " + string(m.Currency)
}
