package valueobject

import (
	"math"

	"github.com/shopspring/decimal"
)

// MoneyDecimals is the precision of every persisted or displayed monetary figure.
const MoneyDecimals int32 = 2

var hundred = decimal.NewFromInt(100)

// RoundHalfUp rounds value to the given number of decimals.
// A value exactly on the .5 boundary is rounded away from zero.
func RoundHalfUp(value decimal.Decimal, decimals int32) decimal.Decimal {
	return value.Round(decimals)
}

// RoundMoney rounds value to two decimals using RoundHalfUp.
func RoundMoney(value decimal.Decimal) decimal.Decimal {
	return RoundHalfUp(value, MoneyDecimals)
}

// RoundHalfUpFloat is RoundHalfUp for float64 inputs.
// NaN and infinities are returned unchanged.
func RoundHalfUpFloat(value float64, decimals int32) float64 {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return value
	}
	return decimal.NewFromFloat(value).Round(decimals).InexactFloat64()
}

// Truncate drops digits beyond the given number of decimals using floor
// semantics: it never rounds up, and negative values move toward negative infinity.
func Truncate(value decimal.Decimal, decimals int32) decimal.Decimal {
	return value.Shift(decimals).Floor().Shift(-decimals)
}

// FixedString formats value with exactly the given number of decimals.
// A nil value formats as zero.
func FixedString(value *decimal.Decimal, decimals int32) string {
	if value == nil {
		return decimal.Zero.StringFixed(decimals)
	}
	return value.StringFixed(decimals)
}

// FixedStringFloat formats a float64 with exactly the given number of decimals.
// NaN and infinities format as zero.
func FixedStringFloat(value float64, decimals int32) string {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return decimal.Zero.StringFixed(decimals)
	}
	return decimal.NewFromFloat(value).StringFixed(decimals)
}

// PercentOf returns amount * percent / 100 without rounding.
func PercentOf(amount, percent decimal.Decimal) decimal.Decimal {
	return amount.Mul(percent).Div(hundred)
}
