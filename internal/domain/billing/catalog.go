package billing

import "github.com/shopspring/decimal"

// CatalogProduct is the part of a product the draft needs
type CatalogProduct struct {
	ID    string
	Name  string
	Price decimal.Decimal
}

// Catalog is a read-only product lookup handed to the item store.
// Implementations must not reach out to storage on Lookup.
type Catalog interface {
	Lookup(ref string) (CatalogProduct, bool)
}

// CatalogSnapshot is an in-memory Catalog keyed by product ID
type CatalogSnapshot map[string]CatalogProduct

// NewCatalogSnapshot indexes products by ID
func NewCatalogSnapshot(products []CatalogProduct) CatalogSnapshot {
	snap := make(CatalogSnapshot, len(products))
	for _, p := range products {
		snap[p.ID] = p
	}
	return snap
}

// Lookup implements Catalog
func (s CatalogSnapshot) Lookup(ref string) (CatalogProduct, bool) {
	p, ok := s[ref]
	return p, ok
}
