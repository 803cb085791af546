package service

import (
	"errors"
	"net/http"

	"github.com/sangkips/invex-billing/internal/domain/billing"
	infraRepo "github.com/sangkips/invex-billing/internal/infrastructure/repository"
	"github.com/sangkips/invex-billing/pkg/apperror"
)

// mapBillingError turns errors of the billing core into application errors.
// Anything else is passed through.
func mapBillingError(err error) error {
	var validation *billing.ValidationError
	if errors.As(err, &validation) {
		fields := make([]apperror.FieldError, 0, len(validation.Problems))
		for _, p := range validation.Problems {
			fields = append(fields, apperror.FieldError{Field: p.Field, Message: p.Message})
		}
		return apperror.NewValidationError(fields)
	}

	var miss *billing.CatalogLookupMiss
	if errors.As(err, &miss) {
		return apperror.NewAppError(http.StatusNotFound, "Product not found in catalog")
	}

	var storage *billing.StorageError
	if errors.As(err, &storage) {
		if errors.Is(storage, infraRepo.ErrDuplicateInvoiceNumber) {
			return apperror.NewConflictError("Invoice number already used, go back to editing, change it and pay again")
		}
		if storage.Dangling() {
			return apperror.NewUnavailableError("Bill " + storage.BillID + " was saved without its items, contact support before retrying")
		}
		return apperror.NewUnavailableError("Could not save the bill, please retry")
	}

	switch {
	case errors.Is(err, billing.ErrItemIndex):
		return apperror.NewNotFoundError("Item")
	case errors.Is(err, billing.ErrUnknownField):
		return apperror.NewBadRequestError("Unknown item field")
	case errors.Is(err, billing.ErrFieldLocked):
		return apperror.NewUnprocessableError("Name and price of a catalog item cannot be edited")
	case errors.Is(err, billing.ErrNotEditing):
		return apperror.NewUnprocessableError("Draft is not being edited")
	case errors.Is(err, billing.ErrInvalidTransition):
		return apperror.NewUnprocessableError("Action not allowed in the current draft state")
	}
	return err
}
