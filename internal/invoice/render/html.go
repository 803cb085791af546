package render

import (
	"bytes"
	"html/template"

	"github.com/sangkips/invex-billing/internal/domain/enum"
)

const invoiceHTMLTemplate = `<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8" />
  <title>{{.Title}} {{.Invoice.Number}}</title>
  <style>
    * { box-sizing: border-box; }
    body { margin: 0; padding: 32px; font-family: "Helvetica Neue", Arial, sans-serif; color: #111827; }
    .invoice { max-width: 820px; margin: 0 auto; }
    .header { display: flex; justify-content: space-between; align-items: flex-start; border-bottom: 2px solid #111827; padding-bottom: 16px; margin-bottom: 24px; }
    .brand img { max-height: 56px; }
    .meta { text-align: right; font-size: 14px; }
    .label { color: #6b7280; text-transform: uppercase; letter-spacing: 0.04em; font-size: 11px; }
    h1 { text-align: center; font-size: 20px; letter-spacing: 0.08em; text-transform: uppercase; }
    table { width: 100%; border-collapse: collapse; font-size: 14px; }
    th, td { padding: 8px 10px; border-bottom: 1px solid #e5e7eb; text-align: left; }
    th { text-transform: uppercase; font-size: 11px; color: #6b7280; }
    td.num, th.num { text-align: right; }
    .bottom { display: flex; justify-content: space-between; gap: 24px; margin-top: 16px; }
    .words { flex: 1; font-size: 14px; }
    .summary td { border: none; padding: 4px 10px; }
    .summary tr.total td { font-weight: 700; border-top: 1px solid #111827; }
    .footer { display: flex; justify-content: space-between; margin-top: 32px; font-size: 13px; }
    .signatory { text-align: right; }
  </style>
</head>
<body>
  <div class="invoice">
    <div class="header">
      <div class="brand">
        {{if .Issuer.LogoURL}}<img src="{{.Issuer.LogoURL}}" alt="logo" />{{end}}
        <div><strong>{{.Issuer.Name}}</strong></div>
        {{if .Issuer.Address}}<div>{{.Issuer.Address}}</div>{{end}}
        {{if .Issuer.Phone}}<div>Phone: {{.Issuer.Phone}}</div>{{end}}
        {{if .Issuer.Email}}<div>Email: {{.Issuer.Email}}</div>{{end}}
        {{if .Issuer.TaxID}}<div>Tax ID: {{.Issuer.TaxID}}</div>{{end}}
      </div>
      <div class="meta">
        <div class="label">Invoice No.</div>
        <div><strong>{{.Invoice.Number}}</strong></div>
        <div class="label">Date</div>
        <div>{{.Invoice.Date}}</div>
        <div class="label">Bill To</div>
        <div>{{.Invoice.Customer}}</div>
      </div>
    </div>

    <h1>{{.Title}}</h1>

    <table>
      <thead>
        <tr>
          <th>#</th>
          <th>Item</th>
          <th class="num">Qty</th>
          <th class="num">Unit Price</th>
          <th class="num">Amount</th>
        </tr>
      </thead>
      <tbody>
        {{range .Rows}}
        <tr>
          <td>{{.Index}}</td>
          <td>{{.Name}}</td>
          <td class="num">{{.Quantity}}</td>
          <td class="num">{{.UnitPrice}}</td>
          <td class="num">{{.Amount}}</td>
        </tr>
        {{end}}
      </tbody>
    </table>

    <div class="bottom">
      <div class="words">
        <div class="label">Amount in words</div>
        <div>{{.Words}}</div>
      </div>
      <table class="summary" style="width: 320px">
        <tr><td>Subtotal</td><td class="num">{{.Summary.Subtotal}}</td></tr>
        <tr><td>Tax ({{.Summary.TaxRate}})</td><td class="num">{{.Summary.Tax}}</td></tr>
        <tr class="total"><td>Total</td><td class="num">{{.Summary.Total}}</td></tr>
        <tr><td>Received</td><td class="num">{{.Summary.Received}}</td></tr>
        <tr><td>Balance</td><td class="num">{{.Summary.Balance}}</td></tr>
      </table>
    </div>

    <div class="footer">
      <div>
        {{if .Terms}}<div class="label">Terms</div><div>{{.Terms}}</div>{{end}}
        {{if not .Bank.Empty}}
        <div class="label">Bank Details</div>
        {{if .Bank.BankName}}<div>Bank: {{.Bank.BankName}}</div>{{end}}
        {{if .Bank.AccountName}}<div>Account Name: {{.Bank.AccountName}}</div>{{end}}
        {{if .Bank.AccountNumber}}<div>Account No.: {{.Bank.AccountNumber}}</div>{{end}}
        {{if .Bank.BranchCode}}<div>Branch: {{.Bank.BranchCode}}</div>{{end}}
        {{end}}
      </div>
      <div class="signatory">
        <div>For {{.Issuer.Name}}</div>
        <br /><br />
        <div>{{if .Signatory}}{{.Signatory}}{{else}}Authorised Signatory{{end}}</div>
      </div>
    </div>
  </div>
</body>
</html>
`

// HTMLRenderer renders the printable invoice page
type HTMLRenderer struct {
	tpl *template.Template
}

func NewHTMLRenderer() *HTMLRenderer {
	return &HTMLRenderer{
		tpl: template.Must(template.New("invoice").Parse(invoiceHTMLTemplate)),
	}
}

func (r *HTMLRenderer) Format() enum.DocumentFormat {
	return enum.DocumentFormatHTML
}

func (r *HTMLRenderer) Render(doc Document) ([]byte, error) {
	if doc.Title == "" {
		doc.Title = DefaultTitle
	}
	var buf bytes.Buffer
	if err := r.tpl.Execute(&buf, doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
