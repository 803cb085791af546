package billing

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ManualEntry is the product reference used for free-text rows that are not
// linked to the catalog.
const ManualEntry = "manual"

// LineItem is one row of a bill draft
type LineItem struct {
	ProductRef  string          `json:"product_ref"`
	DisplayName string          `json:"display_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// EmptyItem returns the row appended by AddItem and left behind by Reset
func EmptyItem() LineItem {
	return LineItem{UnitPrice: decimal.Zero}
}

// Valid reports whether the row is complete enough to be billed.
// Preview validation and the persistence filter both use this predicate.
func (i LineItem) Valid() bool {
	return strings.TrimSpace(i.DisplayName) != "" &&
		i.Quantity > 0 &&
		i.UnitPrice.IsPositive()
}

// CatalogLinked reports whether name and price are owned by the catalog
func (i LineItem) CatalogLinked() bool {
	return i.ProductRef != "" && i.ProductRef != ManualEntry
}

// ValidItems returns the rows that pass Valid, in their original order
func ValidItems(items []LineItem) []LineItem {
	valid := make([]LineItem, 0, len(items))
	for _, item := range items {
		if item.Valid() {
			valid = append(valid, item)
		}
	}
	return valid
}
