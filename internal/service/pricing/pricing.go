// Package pricing computes line and order totals for sales orders.
package pricing

import (
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Line is one priced line item. Nil percentages fall back to the order-level values.
type Line struct {
	Quantity        float64
	Price           float64
	DiscountPercent *float64
	TaxPercent      *float64
}

// Input is the calculator input for a whole order.
type Input struct {
	Items           []Line
	TaxPercent      float64
	DiscountPercent float64
	DiscountAmount  float64
}

// LineResult holds the per-line breakdown.
type LineResult struct {
	LineTotal       float64
	DiscountPercent float64
	TaxPercent      float64
	LineDiscount    float64
	LineTax         float64
	FinalTotal      float64
}

// Result holds the per-line breakdown and the order aggregate.
type Result struct {
	Lines          []LineResult
	Subtotal       float64
	TaxAmount      float64
	DiscountAmount float64
	GrandTotal     float64
}

// Calculate computes totals. Values are truncated to two decimals on output;
// only the grand total is clamped at zero.
func Calculate(in Input) Result {
	res := Result{Lines: make([]LineResult, len(in.Items))}

	subtotal := decimal.Zero
	taxTotal := decimal.Zero
	discountTotal := decimal.NewFromFloat(in.DiscountAmount)

	for i, item := range in.Items {
		discountPct := in.DiscountPercent
		if item.DiscountPercent != nil {
			discountPct = *item.DiscountPercent
		}
		taxPct := in.TaxPercent
		if item.TaxPercent != nil {
			taxPct = *item.TaxPercent
		}

		lineTotal := decimal.NewFromFloat(item.Price).Mul(decimal.NewFromFloat(item.Quantity))
		lineDiscount := lineTotal.Mul(decimal.NewFromFloat(discountPct)).Div(hundred)
		lineTax := lineTotal.Sub(lineDiscount).Mul(decimal.NewFromFloat(taxPct)).Div(hundred)
		finalTotal := lineTotal.Sub(lineDiscount).Add(lineTax)

		subtotal = subtotal.Add(lineTotal)
		taxTotal = taxTotal.Add(lineTax)
		discountTotal = discountTotal.Add(lineDiscount)

		res.Lines[i] = LineResult{
			LineTotal:       money(lineTotal),
			DiscountPercent: discountPct,
			TaxPercent:      taxPct,
			LineDiscount:    money(lineDiscount),
			LineTax:         money(lineTax),
			FinalTotal:      money(finalTotal),
		}
	}

	grand := subtotal.Add(taxTotal).Sub(discountTotal)
	if grand.IsNegative() {
		grand = decimal.Zero
	}

	res.Subtotal = money(subtotal)
	res.TaxAmount = money(taxTotal)
	res.DiscountAmount = money(discountTotal)
	res.GrandTotal = money(grand)
	return res
}

// Truncate2 truncates an amount to two decimals.
func Truncate2(v float64) float64 {
	return money(decimal.NewFromFloat(v))
}

func money(d decimal.Decimal) float64 {
	return d.Truncate(2).InexactFloat64()
}
