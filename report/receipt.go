package report

import (
	"bytes"
	"html/template"
	"time"

	"github.com/bookpost-erp/bookpost/internal/money"
)

// ReceiptLine is one billed line on a sale receipt.
type ReceiptLine struct {
	Title     string
	Qty       int
	UnitPrice float64
	LineTotal float64
}

// ReceiptData carries everything the receipt document prints. The POS
// module assembles it from the sale, the school and the default company
// profile.
type ReceiptData struct {
	SaleID       int64
	CompanyName  string
	CompanyPhone string
	CompanyAddr  string
	SchoolName   string
	ClassName    string
	Session      string
	CustomerName string
	SoldAt       time.Time
	Lines        []ReceiptLine
	Subtotal     float64
	Total        float64
	Paid         float64
	Balance      float64
	PaymentMode  string
}

var receiptTmpl = template.Must(template.New("receipt").Funcs(template.FuncMap{
	"inc": func(i int) int { return i + 1 },
	"amt": money.Format,
}).Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
  body { font-family: Helvetica, Arial, sans-serif; font-size: 11px; color: #111; }
  h1 { font-size: 15px; margin: 0; text-align: center; }
  .center { text-align: center; }
  .muted { color: #555; }
  table { width: 100%; border-collapse: collapse; margin-top: 8px; }
  th, td { padding: 3px 4px; text-align: left; border-bottom: 1px dashed #bbb; }
  td.num, th.num { text-align: right; }
  .totals td { border: none; padding: 2px 4px; }
  .totals .grand { font-weight: bold; border-top: 1px solid #111; }
</style>
</head>
<body>
<h1>{{.CompanyName}}</h1>
{{if .CompanyAddr}}<p class="center muted">{{.CompanyAddr}}{{if .CompanyPhone}} &middot; {{.CompanyPhone}}{{end}}</p>{{end}}
<p class="center">Receipt #{{.SaleID}} &nbsp; {{.SoldAt.Format "02 Jan 2006 15:04"}}</p>
<p>{{if .CustomerName}}Customer: {{.CustomerName}}<br>{{end}}School: {{.SchoolName}}{{if .ClassName}} &middot; Class {{.ClassName}}{{end}}{{if .Session}} &middot; {{.Session}}{{end}}</p>
<table>
<tr><th>#</th><th>Item</th><th class="num">Qty</th><th class="num">Rate</th><th class="num">Amount</th></tr>
{{range $i, $l := .Lines}}<tr><td>{{inc $i}}</td><td>{{$l.Title}}</td><td class="num">{{$l.Qty}}</td><td class="num">{{amt $l.UnitPrice}}</td><td class="num">{{amt $l.LineTotal}}</td></tr>
{{end}}
</table>
<table class="totals">
<tr><td>Subtotal</td><td class="num">{{amt .Subtotal}}</td></tr>
<tr class="grand"><td class="grand">Total</td><td class="num grand">{{amt .Total}}</td></tr>
<tr><td>Paid{{if .PaymentMode}} ({{.PaymentMode}}){{end}}</td><td class="num">{{amt .Paid}}</td></tr>
<tr><td>Balance</td><td class="num">{{amt .Balance}}</td></tr>
</table>
<p class="center muted">Thank you!</p>
</body>
</html>`))

// ReceiptHTML renders the sale receipt document.
func ReceiptHTML(data ReceiptData) (string, error) {
	var buf bytes.Buffer
	if err := receiptTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
