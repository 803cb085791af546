package billing

import (
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Field identifies an editable column of a line item
type Field string

const (
	FieldQuantity   Field = "quantity"
	FieldPrice      Field = "price"
	FieldName       Field = "name"
	FieldProductRef Field = "productRef"
)

// ParseField maps user input onto a Field
func ParseField(s string) (Field, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "quantity", "qty":
		return FieldQuantity, nil
	case "price", "unit_price", "unitprice":
		return FieldPrice, nil
	case "name", "display_name", "displayname":
		return FieldName, nil
	case "productref", "product_ref", "product":
		return FieldProductRef, nil
	}
	return "", ErrUnknownField
}

// ItemStore is the ordered list of rows of a draft. It always holds at least
// one row.
type ItemStore struct {
	items []LineItem
}

// NewItemStore returns a store holding a single empty row
func NewItemStore() *ItemStore {
	s := &ItemStore{}
	s.Reset()
	return s
}

// Items returns a copy of the rows in order
func (s *ItemStore) Items() []LineItem {
	out := make([]LineItem, len(s.items))
	copy(out, s.items)
	return out
}

// Len returns the number of rows
func (s *ItemStore) Len() int {
	return len(s.items)
}

// AddItem appends an empty row and returns its index
func (s *ItemStore) AddItem() int {
	s.items = append(s.items, EmptyItem())
	return len(s.items) - 1
}

// UpdateItem sets one field of the row at index.
// Quantity and price never fail on bad input, they fall back to zero.
func (s *ItemStore) UpdateItem(index int, field Field, value string, catalog Catalog) error {
	if index < 0 || index >= len(s.items) {
		return ErrItemIndex
	}
	item := s.items[index]

	switch field {
	case FieldQuantity:
		item.Quantity = coerceQuantity(value)
	case FieldPrice:
		if item.CatalogLinked() {
			return ErrFieldLocked
		}
		item.UnitPrice = coercePrice(value)
	case FieldName:
		if item.CatalogLinked() {
			return ErrFieldLocked
		}
		item.DisplayName = value
	case FieldProductRef:
		ref := strings.TrimSpace(value)
		switch ref {
		case "":
			item.ProductRef = ""
		case ManualEntry:
			item.ProductRef = ManualEntry
			item.DisplayName = ""
		default:
			if catalog == nil {
				return &CatalogLookupMiss{ProductRef: ref}
			}
			product, ok := catalog.Lookup(ref)
			if !ok {
				return &CatalogLookupMiss{ProductRef: ref}
			}
			item.ProductRef = product.ID
			item.DisplayName = product.Name
			item.UnitPrice = product.Price.Round(PriceScale)
		}
	default:
		return ErrUnknownField
	}

	s.items[index] = item
	return nil
}

// RemoveItem deletes the row at index. The last remaining row is reset
// instead of removed.
func (s *ItemStore) RemoveItem(index int) error {
	if index < 0 || index >= len(s.items) {
		return ErrItemIndex
	}
	if len(s.items) == 1 {
		s.items[0] = EmptyItem()
		return nil
	}
	s.items = append(s.items[:index], s.items[index+1:]...)
	return nil
}

// Reset replaces all rows with a single empty row
func (s *ItemStore) Reset() {
	s.items = []LineItem{EmptyItem()}
}

func coerceQuantity(value string) int {
	v := strings.TrimSpace(value)
	if n, err := strconv.Atoi(v); err == nil {
		if n < 0 {
			return 0
		}
		return n
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) || f < 0 || f > math.MaxInt32 {
		return 0
	}
	return int(f)
}

// PriceScale is the number of decimals a unit price keeps, matching the
// numeric(20,4) price columns
const PriceScale int32 = 4

func coercePrice(value string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil || d.IsNegative() {
		return decimal.Zero
	}
	return d.Round(PriceScale)
}
