// pkg/calc/calc.go

// Package calc derives invoice figures from line items and a tax rate.
// Every function here is total: bad input degrades to zero (or a caller
// supplied default) instead of returning an error.
package calc

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// CurrencySymbol prefixes every formatted amount.
const CurrencySymbol = "¥"

var printer = message.NewPrinter(language.Japanese)

// Line is the numeric part of a line item.
type Line struct {
	UnitPrice decimal.Decimal
	Quantity  int
}

// Totals bundles the figures derived from one snapshot of lines and rate.
type Totals struct {
	Subtotal  decimal.Decimal `json:"subtotal"`
	TaxAmount decimal.Decimal `json:"taxAmount"`
	Total     decimal.Decimal `json:"total"`

	FormattedSubtotal  string `json:"formattedSubtotal"`
	FormattedTaxAmount string `json:"formattedTaxAmount"`
	FormattedTotal     string `json:"formattedTotal"`
	FormattedTaxRate   string `json:"formattedTaxRate"`
}

// LineTotal returns unitPrice * quantity. Negative values are not rejected.
func LineTotal(unitPrice decimal.Decimal, quantity int) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(quantity)))
}

// LineTotalRaw parses raw form values and returns their line total.
// An unparsable price counts as zero, an unparsable quantity as fallback.
func LineTotalRaw(unitPrice, quantity string, fallback int) decimal.Decimal {
	return LineTotal(ParseAmount(unitPrice), ParseQuantity(quantity, fallback))
}

// Subtotal sums the line totals of all lines given. Callers drop unnamed items first.
func Subtotal(lines []Line) decimal.Decimal {
	sum := decimal.Zero
	for _, l := range lines {
		sum = sum.Add(LineTotal(l.UnitPrice, l.Quantity))
	}
	return sum
}

// TaxAmount floors subtotal * rate to a whole currency unit.
func TaxAmount(subtotal, rate decimal.Decimal) decimal.Decimal {
	return subtotal.Mul(rate).Floor()
}

// Total is subtotal plus tax with no further rounding.
func Total(subtotal, taxAmount decimal.Decimal) decimal.Decimal {
	return subtotal.Add(taxAmount)
}

// FormatCurrency renders amount with Japanese digit grouping, e.g. ¥1,234,567.
// Fraction digits are shown only when present, up to three.
// Amounts beyond float64 range print as ¥∞.
func FormatCurrency(amount decimal.Decimal) string {
	f := amount.InexactFloat64()
	return CurrencySymbol + printer.Sprint(number.Decimal(f, number.MaxFractionDigits(3)))
}

// FormatTaxRate renders rate as a whole percentage without the % sign (0.10 is "10").
// Halves round up.
func FormatTaxRate(rate decimal.Decimal) string {
	return rate.Mul(decimal.NewFromInt(100)).Add(decimal.NewFromFloat(0.5)).Floor().String()
}

// ComputeAll derives every figure from the same lines and rate.
func ComputeAll(lines []Line, rate decimal.Decimal) Totals {
	subtotal := Subtotal(lines)
	tax := TaxAmount(subtotal, rate)
	total := Total(subtotal, tax)

	return Totals{
		Subtotal:           subtotal,
		TaxAmount:          tax,
		Total:              total,
		FormattedSubtotal:  FormatCurrency(subtotal),
		FormattedTaxAmount: FormatCurrency(tax),
		FormattedTotal:     FormatCurrency(total),
		FormattedTaxRate:   FormatTaxRate(rate),
	}
}

// Calculator remembers the last Totals it produced.
// The zero value is ready to use.
type Calculator struct {
	last Totals
	ok   bool
}

// Compute runs ComputeAll and keeps the result.
func (c *Calculator) Compute(lines []Line, rate decimal.Decimal) Totals {
	c.last = ComputeAll(lines, rate)
	c.ok = true
	return c.last
}

// Last returns the most recent result, and false if Compute was never called.
func (c *Calculator) Last() (Totals, bool) {
	return c.last, c.ok
}
