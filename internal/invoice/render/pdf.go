package render

import (
	"bytes"
	"strconv"

	"github.com/jung-kurt/gofpdf"
	"github.com/sangkips/invex-billing/internal/domain/enum"
)

// PDFRenderer lays the invoice out on a single A4 page, continuing onto
// more pages when the item table overflows.
type PDFRenderer struct {
	font string
}

func NewPDFRenderer() *PDFRenderer {
	return &PDFRenderer{font: "Arial"}
}

func (r *PDFRenderer) Format() enum.DocumentFormat {
	return enum.DocumentFormatPDF
}

// column widths in mm, 190 in total
var pdfColumns = []float64{12, 88, 20, 35, 35}

func (r *PDFRenderer) Render(doc Document) ([]byte, error) {
	if doc.Title == "" {
		doc.Title = DefaultTitle
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 12, 10)
	pdf.SetAutoPageBreak(true, 15)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	// issuer and meta
	pdf.SetFont(r.font, "B", 14)
	pdf.CellFormat(120, 7, tr(doc.Issuer.Name), "", 0, "L", false, 0, "")
	pdf.SetFont(r.font, "", 10)
	pdf.CellFormat(70, 7, tr("Invoice No: "+doc.Invoice.Number), "", 1, "R", false, 0, "")
	pdf.CellFormat(120, 5, tr(doc.Issuer.Address), "", 0, "L", false, 0, "")
	pdf.CellFormat(70, 5, tr("Date: "+doc.Invoice.Date), "", 1, "R", false, 0, "")
	contact := doc.Issuer.Phone
	if doc.Issuer.Email != "" {
		if contact != "" {
			contact += "  "
		}
		contact += doc.Issuer.Email
	}
	pdf.CellFormat(120, 5, tr(contact), "", 0, "L", false, 0, "")
	pdf.CellFormat(70, 5, tr("Bill To: "+doc.Invoice.Customer), "", 1, "R", false, 0, "")
	if doc.Issuer.TaxID != "" {
		pdf.CellFormat(120, 5, tr("Tax ID: "+doc.Issuer.TaxID), "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	pdf.SetFont(r.font, "B", 16)
	pdf.CellFormat(190, 10, tr(doc.Title), "TB", 1, "C", false, 0, "")
	pdf.Ln(3)

	// items
	pdf.SetFont(r.font, "B", 10)
	pdf.SetFillColor(240, 240, 240)
	headers := []string{"#", "Item", "Qty", "Unit Price", "Amount"}
	for i, h := range headers {
		align := "R"
		if i < 2 {
			align = "L"
		}
		pdf.CellFormat(pdfColumns[i], 7, h, "1", 0, align, true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont(r.font, "", 10)
	for _, row := range doc.Rows {
		pdf.CellFormat(pdfColumns[0], 6, strconv.Itoa(row.Index), "1", 0, "L", false, 0, "")
		pdf.CellFormat(pdfColumns[1], 6, tr(row.Name), "1", 0, "L", false, 0, "")
		pdf.CellFormat(pdfColumns[2], 6, strconv.Itoa(row.Quantity), "1", 0, "R", false, 0, "")
		pdf.CellFormat(pdfColumns[3], 6, row.UnitPrice, "1", 0, "R", false, 0, "")
		pdf.CellFormat(pdfColumns[4], 6, row.Amount, "1", 1, "R", false, 0, "")
	}
	pdf.Ln(4)

	// words on the left, summary on the right
	top := pdf.GetY()
	pdf.SetFont(r.font, "B", 9)
	pdf.CellFormat(110, 5, "Amount in words", "", 2, "L", false, 0, "")
	pdf.SetFont(r.font, "", 10)
	pdf.MultiCell(110, 5, tr(doc.Words), "", "L", false)
	wordsBottom := pdf.GetY()

	summary := [][2]string{
		{"Subtotal", doc.Summary.Subtotal},
		{"Tax (" + doc.Summary.TaxRate + ")", doc.Summary.Tax},
		{"Total", doc.Summary.Total},
		{"Received", doc.Summary.Received},
		{"Balance", doc.Summary.Balance},
	}
	pdf.SetY(top)
	for _, line := range summary {
		style, border := "", ""
		if line[0] == "Total" {
			style, border = "B", "T"
		}
		pdf.SetX(130)
		pdf.SetFont(r.font, style, 10)
		pdf.CellFormat(35, 6, line[0], border, 0, "L", false, 0, "")
		pdf.CellFormat(35, 6, line[1], border, 1, "R", false, 0, "")
	}
	if wordsBottom > pdf.GetY() {
		pdf.SetY(wordsBottom)
	}
	pdf.Ln(8)

	// terms, bank and signatory
	if doc.Terms != "" {
		pdf.SetFont(r.font, "B", 9)
		pdf.CellFormat(190, 5, "Terms", "", 1, "L", false, 0, "")
		pdf.SetFont(r.font, "", 9)
		pdf.MultiCell(190, 5, tr(doc.Terms), "", "L", false)
		pdf.Ln(2)
	}
	if !doc.Bank.Empty() {
		pdf.SetFont(r.font, "B", 9)
		pdf.CellFormat(190, 5, "Bank Details", "", 1, "L", false, 0, "")
		pdf.SetFont(r.font, "", 9)
		for _, line := range [][2]string{
			{"Bank", doc.Bank.BankName},
			{"Account Name", doc.Bank.AccountName},
			{"Account No.", doc.Bank.AccountNumber},
			{"Branch", doc.Bank.BranchCode},
		} {
			if line[1] == "" {
				continue
			}
			pdf.CellFormat(190, 5, tr(line[0]+": "+line[1]), "", 1, "L", false, 0, "")
		}
	}

	signatory := doc.Signatory
	if signatory == "" {
		signatory = "Authorised Signatory"
	}
	pdf.Ln(6)
	pdf.SetFont(r.font, "", 10)
	pdf.CellFormat(190, 5, tr("For "+doc.Issuer.Name), "", 1, "R", false, 0, "")
	pdf.Ln(12)
	pdf.CellFormat(190, 5, tr(signatory), "", 1, "R", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
