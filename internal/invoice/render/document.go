package render

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sangkips/invex-billing/internal/domain/billing"
	"github.com/sangkips/invex-billing/internal/domain/entity"
	"github.com/sangkips/invex-billing/pkg/money"
)

// DefaultTitle heads every invoice
const DefaultTitle = "Tax Invoice"

// Document is the printable form of a bill. Money values are already
// rounded to two decimals.
type Document struct {
	Title     string
	Issuer    IssuerView
	Invoice   InvoiceView
	Rows      []RowView
	Words     string
	Summary   SummaryView
	Terms     string
	Bank      BankView
	Signatory string
}

type IssuerView struct {
	Name    string
	Address string
	Phone   string
	Email   string
	TaxID   string
	LogoURL string
}

type InvoiceView struct {
	ID       string
	Number   string
	Customer string
	Date     string
}

type RowView struct {
	Index     int
	Name      string
	Quantity  int
	UnitPrice string
	Amount    string
}

type SummaryView struct {
	Subtotal string
	TaxRate  string
	Tax      string
	Total    string
	Received string
	Balance  string
}

type BankView struct {
	BankName      string
	AccountName   string
	AccountNumber string
	BranchCode    string
}

// Empty reports whether no bank detail is set
func (b BankView) Empty() bool {
	return b.BankName == "" && b.AccountName == "" && b.AccountNumber == "" && b.BranchCode == ""
}

// Compose builds the document of a persisted bill. The result depends only
// on its arguments. A nil profile leaves the issuer blocks empty.
func Compose(bill *entity.Bill, items []entity.BillItem, profile *entity.CompanyProfile) Document {
	lines := make([]billing.LineItem, 0, len(items))
	rows := make([]RowView, 0, len(items))
	for i, item := range items {
		lines = append(lines, billing.LineItem{
			DisplayName: item.Name,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
		})
		rows = append(rows, RowView{
			Index:     i + 1,
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: money.Format(item.UnitPrice),
			Amount:    money.Format(item.Amount()),
		})
	}
	totals := billing.Compute(lines)

	doc := Document{
		Title: DefaultTitle,
		Invoice: InvoiceView{
			ID:       idString(bill.ID),
			Number:   bill.InvoiceNumber,
			Customer: bill.CustomerIdentifier,
			Date:     formatDate(bill.CreatedAt),
		},
		Rows:  rows,
		Words: amountWords(bill.Total),
		Summary: SummaryView{
			Subtotal: money.Format(totals.Subtotal),
			TaxRate:  billing.TaxRate().Shift(2).String() + "%",
			Tax:      money.Format(totals.Tax),
			Total:    money.Format(bill.Total),
			Received: money.Format(bill.Total),
			Balance:  money.Format(decimal.Zero),
		},
	}

	if profile != nil {
		doc.Issuer = IssuerView{
			Name:    profile.CompanyName,
			Address: profile.Address,
			Phone:   profile.Phone,
			Email:   profile.Email,
			TaxID:   profile.TaxID,
			LogoURL: profile.LogoURL,
		}
		doc.Bank = BankView{
			BankName:      profile.BankName,
			AccountName:   profile.AccountName,
			AccountNumber: profile.AccountNumber,
			BranchCode:    profile.BranchCode,
		}
		doc.Terms = profile.Terms
		doc.Signatory = profile.SignatoryName
	}
	return doc
}

func amountWords(total decimal.Decimal) string {
	words, err := money.AmountInWords(total)
	if errors.Is(err, money.ErrOutOfRange) {
		return total.Floor().String()
	}
	return words
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("02 Jan 2006")
}

func idString(id uuid.UUID) string {
	if id == uuid.Nil {
		return ""
	}
	return id.String()
}
