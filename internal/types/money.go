// README: Common money value object used across modules.
package types

import (
	"fmt"
	"math"
)

// Money is an amount in the currency's smallest unit (cents for USD).
type Money struct {
	Cents    int64
	Currency string
}

func USD(cents int64) Money {
	return Money{Cents: cents, Currency: "usd"}
}

// FromDollars converts a decimal dollar amount to Money, rounding half-up
// at the cent.
func FromDollars(v float64, currency string) Money {
	return Money{Cents: int64(math.Floor(v*100 + 0.5)), Currency: currency}
}

// Dollars returns the amount as a decimal number of whole currency units.
func (m Money) Dollars() float64 {
	return float64(m.Cents) / 100
}

func (m Money) String() string {
	return fmt.Sprintf("%.2f %s", m.Dollars(), m.Currency)
}

// Max returns the larger of two amounts. The service operates in a single
// currency, so currencies are assumed equal.
func Max(a, b Money) Money {
	if b.Cents > a.Cents {
		return b
	}
	return a
}
