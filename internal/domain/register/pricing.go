package register

import (
	"github.com/shopspring/decimal"
)

// TaxRate is the flat sales tax applied to every checkout
var TaxRate = decimal.RequireFromString("0.08")

// Subtotal sums unit price times quantity across all lines, at two
// decimal places.
func Subtotal(lines []CartLine) decimal.Decimal {
	total := decimal.Zero
	for idx := range lines {
		total = total.Add(lines[idx].LineTotal())
	}
	return total.Round(2)
}

// Tax returns the tax owed on a subtotal, rounded half away from zero
// at two decimal places.
func Tax(subtotal decimal.Decimal) decimal.Decimal {
	return subtotal.Mul(TaxRate).Round(2)
}

// Totals returns subtotal, tax and total for the given lines.
// Total is always the exact sum of the rounded subtotal and tax, so the
// stored parts of a transaction reconcile to the cent.
func Totals(lines []CartLine) (subtotal, tax, total decimal.Decimal) {
	subtotal = Subtotal(lines)
	tax = Tax(subtotal)
	total = subtotal.Add(tax)
	return subtotal, tax, total
}
