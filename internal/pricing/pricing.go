// Package pricing holds the pure monetary calculations for purchase lines.
// Per-unit and total order amounts are never derived here: callers supply
// them, and only tax and profit are computed from rates.
package pricing

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// InclusiveTax returns purchasePrice * rate / 100.
func InclusiveTax(purchasePrice, inclusiveRate decimal.Decimal) decimal.Decimal {
	return purchasePrice.Mul(inclusiveRate).Div(hundred)
}

// ExclusiveTax returns purchasePrice * rate / 100.
func ExclusiveTax(purchasePrice, exclusiveRate decimal.Decimal) decimal.Decimal {
	return purchasePrice.Mul(exclusiveRate).Div(hundred)
}

// TotalTax is the sum of the inclusive and exclusive tax amounts.
func TotalTax(purchasePrice, inclusiveRate, exclusiveRate decimal.Decimal) decimal.Decimal {
	return InclusiveTax(purchasePrice, inclusiveRate).Add(ExclusiveTax(purchasePrice, exclusiveRate))
}

// Profit returns (purchasePrice + totalTax) * margin / 100.
func Profit(purchasePrice, totalTax, profitMargin decimal.Decimal) decimal.Decimal {
	return purchasePrice.Add(totalTax).Mul(profitMargin).Div(hundred)
}

// LineAmounts bundles the derived amounts for one purchase line.
type LineAmounts struct {
	InclusiveTax decimal.Decimal
	ExclusiveTax decimal.Decimal
	TotalTax     decimal.Decimal
	Profit       decimal.Decimal
}

// Calculate derives tax and profit amounts from a line's price and rates.
func Calculate(purchasePrice, inclusiveRate, exclusiveRate, profitMargin decimal.Decimal) LineAmounts {
	incl := InclusiveTax(purchasePrice, inclusiveRate)
	excl := ExclusiveTax(purchasePrice, exclusiveRate)
	tax := incl.Add(excl)
	return LineAmounts{
		InclusiveTax: incl,
		ExclusiveTax: excl,
		TotalTax:     tax,
		Profit:       Profit(purchasePrice, tax, profitMargin),
	}
}
