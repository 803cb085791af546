package render

import (
	"fmt"

	"github.com/sangkips/invex-billing/internal/domain/enum"
	"github.com/sangkips/invex-billing/pkg/printer"
)

// ReceiptRenderer produces an ESC/POS stream for thermal receipt printers
type ReceiptRenderer struct {
	width int
}

func NewReceiptRenderer(width int) *ReceiptRenderer {
	if width <= 0 {
		width = printer.Width58mm
	}
	return &ReceiptRenderer{width: width}
}

func (r *ReceiptRenderer) Format() enum.DocumentFormat {
	return enum.DocumentFormatReceipt
}

func (r *ReceiptRenderer) Render(doc Document) ([]byte, error) {
	d := printer.NewDocument(r.width)

	if doc.Issuer.Name != "" {
		d.Title(doc.Issuer.Name)
	}
	d.Align(printer.AlignCenter)
	if doc.Issuer.Address != "" {
		d.Wrapped(doc.Issuer.Address)
	}
	if doc.Issuer.Phone != "" {
		d.Line("Tel: " + doc.Issuer.Phone)
	}
	if doc.Issuer.TaxID != "" {
		d.Line("Tax ID: " + doc.Issuer.TaxID)
	}
	d.Align(printer.AlignLeft).Rule('=')

	d.Pair("Invoice", doc.Invoice.Number)
	d.Pair("Date", doc.Invoice.Date)
	d.Pair("Customer", doc.Invoice.Customer)
	d.Rule('-')

	for _, row := range doc.Rows {
		d.Item(row.Name, fmt.Sprintf("%d x %s", row.Quantity, row.UnitPrice), row.Amount)
	}
	d.Rule('-')

	d.Pair("Subtotal", doc.Summary.Subtotal)
	d.Pair("Tax "+doc.Summary.TaxRate, doc.Summary.Tax)
	d.Bold(true).Pair("TOTAL", doc.Summary.Total).Bold(false)
	d.Pair("Received", doc.Summary.Received)
	d.Pair("Balance", doc.Summary.Balance)
	d.Rule('=')

	d.Wrapped(doc.Words)
	if doc.Terms != "" {
		d.Feed(1).Wrapped(doc.Terms)
	}
	d.Feed(1).Align(printer.AlignCenter).Line("Thank you!").Align(printer.AlignLeft)

	return d.PartialCut().Bytes(), nil
}
