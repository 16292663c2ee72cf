package models

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrInvalidAmount is returned when a money operation is given a factor
// outside its domain (e.g. a negative scale factor).
var ErrInvalidAmount = errors.New("invalid amount")

// Money is a fixed-precision amount in a single currency. It is an
// immutable value type: every operation returns a new value, and every
// result is rounded to 2 fractional digits immediately so no drift can
// accumulate across a computation.
type Money struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

// NewMoney creates a Money value rounded to 2 fractional digits.
func NewMoney(amount decimal.Decimal, currency string) Money {
	return Money{
		Amount:   Round2(amount),
		Currency: currency,
	}
}

// Round2 rounds a decimal to 2 fractional digits.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Add returns the sum of both amounts, rounded. Mixing currencies is
// undefined at this layer; callers are responsible for sourcing both
// operands from the same currency. The pricing engine guarantees this
// by deriving every delta from a single product.
func (m Money) Add(other Money) Money {
	return Money{
		Amount:   Round2(m.Amount.Add(other.Amount)),
		Currency: m.Currency,
	}
}

// AddAmount returns the amount increased by a bare decimal delta, rounded.
func (m Money) AddAmount(delta decimal.Decimal) Money {
	return Money{
		Amount:   Round2(m.Amount.Add(delta)),
		Currency: m.Currency,
	}
}

// Scale multiplies the amount by a factor, rounded. Negative factors
// fail with ErrInvalidAmount; there is no meaningful negative scaling
// of a price in this domain.
func (m Money) Scale(factor decimal.Decimal) (Money, error) {
	if factor.IsNegative() {
		return Money{}, ErrInvalidAmount
	}
	return Money{
		Amount:   Round2(m.Amount.Mul(factor)),
		Currency: m.Currency,
	}, nil
}

// IsZero reports whether the amount is zero.
func (m Money) IsZero() bool {
	return m.Amount.IsZero()
}

// Format renders the amount with its currency code, e.g. "13.00 EUR".
// German locales ("de", "de-DE", "de-AT", ...) render a decimal comma.
func (m Money) Format(locale string) string {
	fixed := m.Amount.StringFixed(2)
	if strings.HasPrefix(strings.ToLower(locale), "de") {
		fixed = strings.Replace(fixed, ".", ",", 1)
	}
	return fixed + " " + m.Currency
}
