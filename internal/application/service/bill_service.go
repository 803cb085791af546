package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/invex-billing/internal/domain/entity"
	"github.com/sangkips/invex-billing/internal/domain/enum"
	"github.com/sangkips/invex-billing/internal/domain/repository"
	"github.com/sangkips/invex-billing/internal/invoice/export"
	"github.com/sangkips/invex-billing/internal/invoice/render"
	"github.com/sangkips/invex-billing/pkg/apperror"
	"github.com/sangkips/invex-billing/pkg/pagination"
)

// exportLimit caps the rows of one spreadsheet export
const exportLimit = 5000

// BillService reads finalized bills and renders them
type BillService struct {
	billRepo    repository.BillRepository
	profileRepo repository.CompanyProfileRepository
	renderers   *render.Registry
}

// NewBillService creates a new bill service
func NewBillService(
	billRepo repository.BillRepository,
	profileRepo repository.CompanyProfileRepository,
	renderers *render.Registry,
) *BillService {
	return &BillService{
		billRepo:    billRepo,
		profileRepo: profileRepo,
		renderers:   renderers,
	}
}

// ListBills lists the bills visible to userID
func (s *BillService) ListBills(ctx context.Context, userID uuid.UUID, params *repository.BillFilterParams) (*pagination.PaginatedResult[entity.Bill], error) {
	if params.Pagination == nil {
		params.Pagination = pagination.DefaultPagination()
	}
	bills, total, err := s.billRepo.List(ctx, userID, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(bills, pag), nil
}

// GetBill retrieves a bill with its items. Visibility follows the owner
// scope carried by ctx.
func (s *BillService) GetBill(ctx context.Context, id uuid.UUID) (*entity.Bill, error) {
	bill, err := s.billRepo.GetWithItems(ctx, id)
	if err != nil {
		return nil, err
	}
	if bill == nil {
		return nil, apperror.NewNotFoundError("Bill")
	}
	return bill, nil
}

// Document composes the printable document of a bill with the issuer
// profile of the user who finalized it
func (s *BillService) Document(ctx context.Context, id uuid.UUID) (*render.Document, error) {
	bill, err := s.GetBill(ctx, id)
	if err != nil {
		return nil, err
	}

	profile, err := s.profileRepo.GetByUserID(ctx, bill.UserID)
	if err != nil {
		return nil, err
	}

	doc := render.Compose(bill, bill.Items, profile)
	return &doc, nil
}

// RenderedInvoice is a rendered bill ready to be served
type RenderedInvoice struct {
	Filename    string
	ContentType string
	Data        []byte
}

// RenderInvoice renders a bill in the requested format
func (s *BillService) RenderInvoice(ctx context.Context, id uuid.UUID, format enum.DocumentFormat) (*RenderedInvoice, error) {
	if !s.renderers.Supports(format) {
		return nil, apperror.NewBadRequestError("Unsupported invoice format: " + format.String())
	}

	doc, err := s.Document(ctx, id)
	if err != nil {
		return nil, err
	}

	data, err := s.renderers.Render(format, *doc)
	if err != nil {
		return nil, err
	}

	ext := format.String()
	if format == enum.DocumentFormatReceipt {
		ext = "bin"
	}
	return &RenderedInvoice{
		Filename:    doc.Invoice.Number + "." + ext,
		ContentType: format.ContentType(),
		Data:        data,
	}, nil
}

// ExportBills renders the filtered bill list as a spreadsheet, walking
// every page up to exportLimit bills. Pagination in params is ignored.
func (s *BillService) ExportBills(ctx context.Context, userID uuid.UUID, params *repository.BillFilterParams) (*RenderedInvoice, error) {
	params.WithItems = true
	params.Pagination = pagination.DefaultPagination()
	params.Pagination.PerPage = 100

	var bills []entity.Bill
	for len(bills) < exportLimit {
		page, total, err := s.billRepo.List(ctx, userID, params)
		if err != nil {
			return nil, err
		}
		bills = append(bills, page...)
		if len(page) == 0 || int64(len(bills)) >= total {
			break
		}
		params.Pagination.Page++
	}

	data, err := export.BillsWorkbook(bills)
	if err != nil {
		return nil, err
	}
	return &RenderedInvoice{
		Filename:    "bills-" + time.Now().Format("20060102-150405") + ".xlsx",
		ContentType: enum.DocumentFormatXLSX.ContentType(),
		Data:        data,
	}, nil
}
