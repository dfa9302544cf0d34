// Package money centralizes monetary arithmetic. Prices are fixed-point with
// two decimal places; intermediate math stays unrounded and RoundFinal is
// applied once at the end of each computation.
package money

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// Zero is the canonical zero amount.
var Zero = decimal.Zero

// FromFloat builds an amount from a float input (request DTOs, tests).
func FromFloat(value float64) decimal.Decimal {
	return decimal.NewFromFloat(value)
}

// RoundFinal applies the half-up rounding to two decimal places required at
// the end of a price computation. Amounts are never negative here, so
// decimal's round-half-away-from-zero is round-half-up.
func RoundFinal(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(2)
}

// PercentOff returns price reduced by pct percent, unrounded.
func PercentOff(price, pct decimal.Decimal) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(1).Sub(pct.Div(hundred)))
}

// ClampNonNegative floors an amount at zero.
func ClampNonNegative(amount decimal.Decimal) decimal.Decimal {
	if amount.IsNegative() {
		return decimal.Zero
	}
	return amount
}

// Min returns the smaller of two amounts.
func Min(a, b decimal.Decimal) decimal.Decimal {
	if a.LessThan(b) {
		return a
	}
	return b
}
