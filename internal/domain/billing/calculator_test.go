package billing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func item(name string, qty int, price string) LineItem {
	return LineItem{DisplayName: name, Quantity: qty, UnitPrice: decimal.RequireFromString(price)}
}

func TestCompute_EmptyList(t *testing.T) {
	totals := Compute(nil)

	assert.True(t, totals.Subtotal.IsZero())
	assert.True(t, totals.Tax.IsZero())
	assert.True(t, totals.Total.IsZero())
}

func TestCompute_TotalIsSubtotalPlusTax(t *testing.T) {
	lists := [][]LineItem{
		{item("Pen", 2, "10")},
		{item("Pen", 3, "0.10"), item("Ink", 7, "19.99"), item("", 0, "0")},
		{item("Paper", 1, "0.01")},
		{item("A", 1000, "123456.789"), item("B", 1, "0.333")},
	}

	for _, items := range lists {
		subtotal := Subtotal(items)
		tax := Tax(items)

		assert.True(t, tax.Equal(subtotal.Mul(decimal.RequireFromString("0.18"))), "tax should be 18%% of %s", subtotal)
		assert.True(t, Total(items).Equal(subtotal.Add(tax)))

		totals := Compute(items)
		assert.True(t, totals.Subtotal.Equal(subtotal))
		assert.True(t, totals.Tax.Equal(tax))
		assert.True(t, totals.Total.Equal(Total(items)))
	}
}

func TestSubtotal_SumsQuantityTimesPrice(t *testing.T) {
	items := []LineItem{item("Pen", 2, "10"), item("Book", 3, "12.5"), item("", 0, "99")}

	assert.Equal(t, "57.5", Subtotal(items).String())
}

func TestCompute_Idempotent(t *testing.T) {
	items := []LineItem{item("Pen", 3, "0.10"), item("Ink", 7, "19.99")}

	first := Compute(items)
	second := Compute(items)

	assert.Equal(t, first, second)
}

func TestCompute_NoIntermediateRounding(t *testing.T) {
	items := []LineItem{item("Bolt", 3, "0.335")}

	totals := Compute(items)

	assert.Equal(t, "1.005", totals.Subtotal.String())
	assert.Equal(t, "0.1809", totals.Tax.String())
	assert.Equal(t, "1.1859", totals.Total.String())
}

func TestLineItem_Valid(t *testing.T) {
	assert.True(t, item("Pen", 1, "1").Valid())
	assert.False(t, item("   ", 1, "1").Valid())
	assert.False(t, item("Pen", 0, "1").Valid())
	assert.False(t, item("Pen", 1, "0").Valid())
	assert.False(t, EmptyItem().Valid())
}

func TestTaxRate_IsFixed(t *testing.T) {
	rate := TaxRate()
	assert.Equal(t, "0.18", rate.String())
	assert.True(t, TaxRate().Equal(decimal.RequireFromString("0.18")))
	assert.Equal(t, "18", Tax([]LineItem{item("Pen", 1, "100")}).String())
}
