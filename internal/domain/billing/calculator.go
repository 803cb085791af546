package billing

import "github.com/shopspring/decimal"

// taxRate is the single tax policy applied to every bill (18%)
var taxRate = decimal.New(18, -2)

// TaxRate returns the fixed tax rate applied to every bill
func TaxRate() decimal.Decimal { return taxRate }

// Totals is the derived money breakdown of a list of line items
type Totals struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Tax      decimal.Decimal `json:"tax"`
	Total    decimal.Decimal `json:"total"`
}

// LineTotal returns quantity × unit price without rounding
func LineTotal(item LineItem) decimal.Decimal {
	return item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
}

// Subtotal sums the line totals of all items, including incomplete rows
func Subtotal(items []LineItem) decimal.Decimal {
	sum := decimal.Zero
	for _, item := range items {
		sum = sum.Add(LineTotal(item))
	}
	return sum
}

// Tax returns the subtotal multiplied by TaxRate
func Tax(items []LineItem) decimal.Decimal {
	return Subtotal(items).Mul(taxRate)
}

// Total returns subtotal plus tax
func Total(items []LineItem) decimal.Decimal {
	return Subtotal(items).Add(Tax(items))
}

// Compute returns the full breakdown in one pass over items.
// Values are exact; callers round only when presenting them.
func Compute(items []LineItem) Totals {
	subtotal := Subtotal(items)
	tax := subtotal.Mul(taxRate)
	return Totals{
		Subtotal: subtotal,
		Tax:      tax,
		Total:    subtotal.Add(tax),
	}
}
