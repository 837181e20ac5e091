// Package money holds the fixed-point rules shared by request validation,
// the ledger engine and persistence. Amounts are NUMERIC(10,2): at most two
// fractional digits and eight integer digits.
package money

import (
	"github.com/shopspring/decimal"
)

const (
	// Scale is the number of fractional digits stored for every amount.
	Scale = 2
	// IntegerDigits is the maximum number of digits before the decimal point.
	IntegerDigits = 8
)

// Limit is the smallest value that no longer fits in NUMERIC(10,2).
var Limit = decimal.New(1, IntegerDigits)

// Fits reports whether d can be stored without rounding or overflow.
func Fits(d decimal.Decimal) bool {
	if !d.Equal(d.Round(Scale)) {
		return false
	}
	return d.Abs().LessThan(Limit)
}

// ValidAmount reports whether d is a strictly positive storable amount.
func ValidAmount(d decimal.Decimal) bool {
	return d.IsPositive() && Fits(d)
}

// ValidBalance reports whether d is a non-negative storable balance.
func ValidBalance(d decimal.Decimal) bool {
	return !d.IsNegative() && Fits(d)
}

// Parse reads a decimal string and rejects values that do not fit.
func Parse(s string) (decimal.Decimal, bool) {
	d, err := decimal.NewFromString(s)
	if err != nil || !Fits(d) {
		return decimal.Zero, false
	}
	return d, true
}
