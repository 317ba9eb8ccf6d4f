package utils

import "github.com/shopspring/decimal"

// RoundWithTwoDecimalPlace rounds half away from zero on the decimal value, so
// 2.675 becomes 2.68 rather than the binary-float 2.67.
func RoundWithTwoDecimalPlace(f float64) float64 {
	if f == 0 {
		return 0
	}

	return decimal.NewFromFloat(f).Round(2).InexactFloat64()
}

// FormatMoney renders an amount with exactly two decimals for file output.
func FormatMoney(f float64) string {
	return decimal.NewFromFloat(f).StringFixed(2)
}
