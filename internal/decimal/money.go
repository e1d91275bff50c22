package decimal

import (
	"github.com/shopspring/decimal"
)

// Zero is decimal zero
var Zero = decimal.Zero

// centPlaces is the precision of euro amounts
const centPlaces = 2

// Round rounds to whole cents
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(centPlaces)
}

// IsZero reports whether an optional amount is present and equal to zero.
// An absent amount is not zero.
func IsZero(d *decimal.Decimal) bool {
	return d != nil && d.IsZero()
}

// CalculateVAT computes VAT amount: amount * (rate/100), rounded to cents
func CalculateVAT(amount, ratePercent decimal.Decimal) decimal.Decimal {
	if ratePercent.IsZero() {
		return Zero
	}
	hundred := decimal.NewFromInt(100)
	return amount.Mul(ratePercent).Div(hundred).Round(centPlaces)
}

// SumPresent sums the present values. ok is false when any value is absent.
func SumPresent(values []*decimal.Decimal) (sum decimal.Decimal, ok bool) {
	sum = Zero
	for _, v := range values {
		if v == nil {
			return Zero, false
		}
		sum = sum.Add(*v)
	}
	return sum, true
}

// EqualCents reports whether a and b are the same amount once rounded to cents
func EqualCents(a, b decimal.Decimal) bool {
	return Round(a).Equal(Round(b))
}
