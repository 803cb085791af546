package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/invex-billing/internal/domain/billing"
	"github.com/sangkips/invex-billing/internal/invoice/render"
	"github.com/sangkips/invex-billing/pkg/apperror"
	"github.com/sangkips/invex-billing/pkg/money"
	"github.com/sangkips/invex-billing/pkg/printer"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// PrinterService handles receipt formatting and thermal printing.
type PrinterService struct {
	printer  printer.Printer
	bills    *BillService
	receipts *render.ReceiptRenderer
	log      *zap.Logger
}

// NewPrinterService creates a new printer service. width is the paper
// width in characters.
func NewPrinterService(p printer.Printer, bills *BillService, width int, log *zap.Logger) *PrinterService {
	return &PrinterService{
		printer:  p,
		bills:    bills,
		receipts: render.NewReceiptRenderer(width),
		log:      log.Named("printer"),
	}
}

// PrinterStatus returns the current printer status information.
type PrinterStatus struct {
	Configured bool   `json:"configured"`
	Connected  bool   `json:"connected"`
	Type       string `json:"type"`
}

// GetStatus returns printer connection status.
func (s *PrinterService) GetStatus(ctx context.Context) *PrinterStatus {
	kind := s.printer.Kind()
	return &PrinterStatus{
		Configured: kind != "none",
		Connected:  s.printer.IsConnected(ctx),
		Type:       kind,
	}
}

// TestPrint sends a sample receipt to the printer and returns the document
// that was printed.
func (s *PrinterService) TestPrint(ctx context.Context) (*render.Document, error) {
	price := decimal.NewFromInt(10)
	totals := billing.Compute([]billing.LineItem{
		{DisplayName: "Test Item 1", Quantity: 1, UnitPrice: price},
		{DisplayName: "Test Item 2", Quantity: 2, UnitPrice: price},
	})
	words, _ := money.AmountInWords(totals.Total)

	doc := render.Document{
		Title:   "Printer Test",
		Issuer:  render.IssuerView{Name: "PRINTER TEST", Address: "Test Address"},
		Invoice: render.InvoiceView{Number: "TEST-001", Customer: "System", Date: time.Now().Format("02 Jan 2006")},
		Rows: []render.RowView{
			{Index: 1, Name: "Test Item 1", Quantity: 1, UnitPrice: "10.00", Amount: "10.00"},
			{Index: 2, Name: "Test Item 2", Quantity: 2, UnitPrice: "10.00", Amount: "20.00"},
		},
		Words: words,
		Summary: render.SummaryView{
			Subtotal: money.Format(totals.Subtotal),
			TaxRate:  billing.TaxRate().Shift(2).String() + "%",
			Tax:      money.Format(totals.Tax),
			Total:    money.Format(totals.Total),
			Received: money.Format(totals.Total),
			Balance:  "0.00",
		},
	}

	if err := s.send(ctx, doc); err != nil {
		return &doc, fmt.Errorf("test print failed: %w", err)
	}
	return &doc, nil
}

// PrintBill prints the receipt of a persisted bill
func (s *PrinterService) PrintBill(ctx context.Context, billID uuid.UUID) (*render.Document, error) {
	doc, err := s.bills.Document(ctx, billID)
	if err != nil {
		return nil, err
	}

	if err := s.send(ctx, *doc); err != nil {
		s.log.Error("print receipt", zap.String("bill_id", billID.String()), zap.Error(err))
		return doc, apperror.NewUnavailableError("Printer unavailable: " + err.Error())
	}
	return doc, nil
}

// PrintReceipt prints a bill and only reports failure
func (s *PrinterService) PrintReceipt(ctx context.Context, billID uuid.UUID) error {
	_, err := s.PrintBill(ctx, billID)
	return err
}

func (s *PrinterService) send(ctx context.Context, doc render.Document) error {
	data, err := s.receipts.Render(doc)
	if err != nil {
		return err
	}
	return s.printer.Print(ctx, data)
}
