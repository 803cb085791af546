package billing

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrItemIndex is returned when an item index does not address a row
	ErrItemIndex = errors.New("billing: item index out of range")
	// ErrFieldLocked is returned when editing the name or price of a catalog-linked row
	ErrFieldLocked = errors.New("billing: field is derived from the catalog")
	// ErrUnknownField is returned for an unsupported item field
	ErrUnknownField = errors.New("billing: unknown item field")
	// ErrNotEditing is returned when the draft is mutated outside the Editing state
	ErrNotEditing = errors.New("billing: draft is not being edited")
	// ErrInvalidTransition is returned when a transition is not allowed from the current state
	ErrInvalidTransition = errors.New("billing: invalid state transition")
)

// Problem names one failed validation condition
type Problem struct {
	Field   string
	Message string
}

// ValidationError is reported when a draft cannot move to preview
type ValidationError struct {
	Problems []Problem
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Problems))
	for i, p := range e.Problems {
		msgs[i] = p.Message
	}
	return "billing: " + strings.Join(msgs, "; ")
}

// Has reports whether the given field failed validation
func (e *ValidationError) Has(field string) bool {
	for _, p := range e.Problems {
		if p.Field == field {
			return true
		}
	}
	return false
}

// CatalogLookupMiss is returned when a product reference is not in the catalog
// snapshot. The item is left untouched.
type CatalogLookupMiss struct {
	ProductRef string
}

func (e *CatalogLookupMiss) Error() string {
	return fmt.Sprintf("billing: product %q not found in catalog", e.ProductRef)
}

// Persistence phases of the pay transition
const (
	PhaseBill  = "bill"
	PhaseItems = "items"
)

// StorageError wraps a failed persistence write during Pay.
// The draft stays in PreviewReady and the caller may retry.
type StorageError struct {
	Phase string
	// BillID is set when the bill row was written but its items were not
	BillID string
	// Compensated is true when the dangling bill row was removed again
	Compensated bool
	Err         error
}

func (e *StorageError) Error() string {
	msg := fmt.Sprintf("billing: persisting %s failed: %v", e.Phase, e.Err)
	if e.BillID != "" && !e.Compensated {
		msg += fmt.Sprintf(" (bill %s left without items)", e.BillID)
	}
	return msg
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// Dangling reports whether a bill row exists without its items
func (e *StorageError) Dangling() bool {
	return e.BillID != "" && !e.Compensated
}
