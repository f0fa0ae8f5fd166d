package report

import (
	"bytes"
	"html/template"

	"github.com/bookpost-erp/bookpost/internal/bundles/dispatches"
)

var challanTmpl = template.Must(template.New("challan").Funcs(template.FuncMap{
	"inc": func(i int) int { return i + 1 },
}).Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
  body { font-family: Helvetica, Arial, sans-serif; font-size: 12px; color: #222; }
  h1 { font-size: 18px; margin-bottom: 2px; }
  .muted { color: #666; }
  table { width: 100%; border-collapse: collapse; margin-top: 12px; }
  th, td { border: 1px solid #999; padding: 4px 6px; text-align: left; }
  th { background: #f0f0f0; }
  .meta td { border: none; padding: 2px 0; }
  .sign { margin-top: 48px; display: flex; justify-content: space-between; }
</style>
</head>
<body>
<h1>Delivery Challan</h1>
<p class="muted">Challan No: {{.Dispatch.ChallanNo}} &nbsp; Date: {{.Dispatch.DispatchedAt.Format "02 Jan 2006"}}</p>
<table class="meta">
<tr><td>School</td><td>{{.SchoolName}}{{if .SchoolAddress}}, {{.SchoolAddress}}{{end}}</td></tr>
<tr><td>Class / Session</td><td>{{.BundleClass}} / {{.BundleSession}}</td></tr>
{{if .DistributorName}}<tr><td>Distributor</td><td>{{.DistributorName}}</td></tr>{{end}}
{{if .TransportName}}<tr><td>Transport</td><td>{{.TransportName}}{{if .Dispatch.VehicleNo}} ({{.Dispatch.VehicleNo}}){{end}}</td></tr>{{end}}
<tr><td>Sets dispatched</td><td>{{.Dispatch.Qty}}</td></tr>
</table>
<table>
<tr><th>#</th><th>Item</th><th>Qty per set</th></tr>
{{range $i, $it := .Items}}<tr><td>{{inc $i}}</td><td>{{$it.Title}}</td><td>{{$it.Qty}}</td></tr>
{{end}}
</table>
{{if .Dispatch.Notes}}<p>Notes: {{.Dispatch.Notes}}</p>{{end}}
<div class="sign"><span>Prepared by</span><span>Received by</span></div>
</body>
</html>`))

// ChallanHTML renders the challan document for a dispatch.
func ChallanHTML(data dispatches.ChallanData) (string, error) {
	var buf bytes.Buffer
	if err := challanTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
