package report

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/velora-beauty/velora/internal/reporting"
)

var pdfPrinter = message.NewPrinter(language.English)

var profitabilityTmpl = template.Must(template.New("profitability").Funcs(template.FuncMap{
	"money": func(v decimal.Decimal) string {
		return pdfPrinter.Sprintf("%.2f", v.InexactFloat64())
	},
}).Parse(strings.TrimSpace(`
<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
body { font-family: "Helvetica Neue", Arial, sans-serif; color: #1f2430; margin: 40px; }
h1 { font-size: 22px; margin-bottom: 0; }
.range { color: #6b7280; margin-top: 4px; }
table { border-collapse: collapse; width: 100%; margin-top: 24px; }
th, td { border-bottom: 1px solid #e5e7eb; padding: 6px 10px; text-align: left; font-size: 12px; }
th { background: #f9fafb; text-transform: uppercase; letter-spacing: 0.04em; font-size: 10px; }
td.amount, th.amount { text-align: right; }
.totals td { font-weight: 600; }
</style>
</head>
<body>
<h1>Velora Profitability Report</h1>
<p class="range">{{ .Window.From.Format "2006-01-02" }} — {{ .Window.To.Format "2006-01-02" }}</p>

<table class="totals">
<tr><td>Total Revenue</td><td class="amount">{{ money .TotalRevenue }}</td></tr>
<tr><td>Gross Profit</td><td class="amount">{{ money .GrossProfit }}</td></tr>
<tr><td>Total Expenses</td><td class="amount">{{ money .TotalExpenses }}</td></tr>
<tr><td>Net Profit</td><td class="amount">{{ money .NetProfit }}</td></tr>
<tr><td>Orders</td><td class="amount">{{ .TotalOrders }}</td></tr>
<tr><td>Distinct Buyers</td><td class="amount">{{ .DistinctBuyers }}</td></tr>
</table>

<table>
<tr><th>Top Products</th><th class="amount">Revenue</th></tr>
{{ range .TopProducts }}<tr><td>{{ .Label }}</td><td class="amount">{{ money .Amount }}</td></tr>
{{ end }}
</table>

<table>
<tr><th>Top Customers</th><th class="amount">Revenue</th></tr>
{{ range .TopCustomers }}<tr><td>{{ .Label }}</td><td class="amount">{{ money .Amount }}</td></tr>
{{ end }}
</table>

<table>
<tr><th>Revenue by Group</th><th class="amount">Revenue</th></tr>
{{ range .RevenueByGroup }}<tr><td>{{ .Label }}</td><td class="amount">{{ money .Amount }}</td></tr>
{{ end }}
</table>

<table>
<tr><th>Expense</th><th>Date</th><th class="amount">Amount</th></tr>
{{ range .Expenses }}<tr><td>{{ .Name }}</td><td>{{ .SpentAt.Format "2006-01-02" }}</td><td class="amount">{{ money .Amount }}</td></tr>
{{ end }}
</table>
</body>
</html>
`)))

// RenderProfitabilityHTML renders the report into the HTML document handed
// to Gotenberg for PDF conversion.
func RenderProfitabilityHTML(r *reporting.Report) (string, error) {
	var sb strings.Builder
	if err := profitabilityTmpl.Execute(&sb, r); err != nil {
		return "", fmt.Errorf("report: render profitability: %w", err)
	}
	return sb.String(), nil
}
