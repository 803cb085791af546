package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sangkips/invex-billing/internal/domain/billing"
	"github.com/sangkips/invex-billing/internal/domain/entity"
	domainRepo "github.com/sangkips/invex-billing/internal/domain/repository"
	"gorm.io/gorm"
)

// ErrDuplicateInvoiceNumber is returned when a bill reuses a persisted invoice number
var ErrDuplicateInvoiceNumber = errors.New("invoice number already used")

// BillGateway persists drafts of one user through the bill repositories.
// It implements billing.Gateway and billing.Compensator.
type BillGateway struct {
	bills  domainRepo.BillRepository
	items  domainRepo.BillItemRepository
	userID uuid.UUID
}

// NewBillGateway creates a gateway writing bills owned by userID
func NewBillGateway(bills domainRepo.BillRepository, items domainRepo.BillItemRepository, userID uuid.UUID) *BillGateway {
	return &BillGateway{bills: bills, items: items, userID: userID}
}

// InsertBill writes the bill header and returns its ID
func (g *BillGateway) InsertBill(ctx context.Context, rec billing.BillRecord) (string, error) {
	bill := &entity.Bill{
		UserID:             g.userID,
		InvoiceNumber:      rec.InvoiceNumber,
		CustomerIdentifier: rec.CustomerIdentifier,
		Total:              rec.Total,
	}
	if err := g.bills.Create(ctx, bill); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return "", fmt.Errorf("%w: %s", ErrDuplicateInvoiceNumber, rec.InvoiceNumber)
		}
		return "", err
	}
	return bill.ID.String(), nil
}

// InsertBillItems writes the rows of a bill in one batch
func (g *BillGateway) InsertBillItems(ctx context.Context, billID string, items []billing.LineItem) error {
	id, err := uuid.Parse(billID)
	if err != nil {
		return fmt.Errorf("invalid bill id %q: %w", billID, err)
	}

	rows := make([]entity.BillItem, 0, len(items))
	for i, item := range items {
		rows = append(rows, entity.BillItem{
			BillID:    id,
			ProductID: catalogProductID(item),
			Name:      item.DisplayName,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Position:  i,
		})
	}
	return g.items.CreateBatch(ctx, rows)
}

// DeleteBill removes a bill whose items could not be written
func (g *BillGateway) DeleteBill(ctx context.Context, billID string) error {
	id, err := uuid.Parse(billID)
	if err != nil {
		return fmt.Errorf("invalid bill id %q: %w", billID, err)
	}
	if err := g.items.DeleteByBillID(ctx, id); err != nil {
		return err
	}
	return g.bills.Delete(ctx, id)
}

func catalogProductID(item billing.LineItem) *uuid.UUID {
	if !item.CatalogLinked() {
		return nil
	}
	id, err := uuid.Parse(item.ProductRef)
	if err != nil {
		return nil
	}
	return &id
}
