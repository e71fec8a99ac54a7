// Package money keeps currency arithmetic in decimal. Amounts carry full
// precision through calculations and are rounded to cents only for display
// or persistence.
package money

import (
	"github.com/shopspring/decimal"
)

const Places = 2

// Round rounds half away from zero to cents.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(Places)
}

func Format(d decimal.Decimal) string {
	r := Round(d)
	if r.IsNegative() {
		return "-$" + r.Neg().StringFixed(Places)
	}
	return "$" + r.StringFixed(Places)
}

func Sum(values ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(v)
	}
	return total
}

// Ratio returns part/whole, or zero when whole is zero.
func Ratio(part, whole decimal.Decimal) decimal.Decimal {
	if whole.IsZero() {
		return decimal.Zero
	}
	return part.DivRound(whole, 16)
}

// NearlyEqual compares at cent precision.
func NearlyEqual(a, b decimal.Decimal) bool {
	return Round(a).Equal(Round(b))
}
