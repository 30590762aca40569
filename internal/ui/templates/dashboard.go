package templates

import (
	"context"
	"io"
	"slices"
	"strconv"

	"github.com/a-h/templ"
	"github.com/shopspring/decimal"

	"nightsales-dashboard/internal/models"
)

const maxTableRows = 500

const pageHead = `<!DOCTYPE html>
<html lang="pt-BR">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Faturamento Madrugada</title>
<script type="module" src="https://cdn.jsdelivr.net/gh/starfederation/datastar@1.0.0/bundles/datastar.js"></script>
<style>
body{background:#181A23;color:#FAFAFA;font-family:'Segoe UI',Roboto,Arial,sans-serif;margin:0;display:flex}
aside{width:260px;padding:1.5em;background:#23263A;min-height:100vh}
main{flex:1;padding:1.5em 2em}
.kpis{display:flex;gap:1.5em}
.kpi{flex:1;background:#23263A;border-radius:18px;padding:1.5em;text-align:center;border:1px solid #FF4B4B33}
.kpi .value{font-size:2.4em;font-weight:900;color:#FF4B4B}
.notice{background:#FFB34722;border-radius:10px;padding:1em;margin:1.5em 0}
.bars div{display:flex;align-items:center;gap:.6em;margin:.2em 0}
.bars span.bar{background:#FF4B4B;height:.9em;border-radius:4px}
table{width:100%;border-collapse:collapse;margin-top:1em}
td,th{padding:.4em;border-bottom:1px solid #333;text-align:left}
</style>
</head>
<body>
`

// writer sequences raw markup, escaped text and child components, keeping
// the first error.
type writer struct {
	ctx context.Context
	w   io.Writer
	err error
}

func (h *writer) raw(s string) {
	if h.err == nil {
		_, h.err = io.WriteString(h.w, s)
	}
}

func (h *writer) text(s string) {
	h.raw(templ.EscapeString(s))
}

func (h *writer) render(c templ.Component) {
	if h.err == nil {
		h.err = c.Render(h.ctx, h.w)
	}
}

type bar struct {
	Label string
	Value string
	Count string
	Pct   int
}

type row struct {
	Date    string
	Time    string
	Payment string
	Amount  string
}

type panelData struct {
	TotalRevenue string
	TotalOrders  string
	Empty        bool
	Daily        []bar
	Payments     []bar
	Hourly       []bar
	Rows         []row
	RowCount     int
	Truncated    bool
}

type methodOption struct {
	Name    string
	Checked bool
}

// DashboardView is the input of the full page.
type DashboardView struct {
	Report *models.Report
	Window models.Window
}

func Dashboard(view DashboardView) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		r := view.Report
		selected := r.SelectedPayments
		if selected == nil {
			selected = []string{}
		}
		signals, err := templ.JSONString(map[string]any{
			"startDate": r.StartDate,
			"endDate":   r.EndDate,
			"payments":  selected,
		})
		if err != nil {
			return err
		}

		h := &writer{ctx: ctx, w: w}
		h.raw(pageHead)
		h.raw("<aside>\n<h2>Filtros</h2>\n<form method=\"get\" action=\"/\" data-signals=\"")
		h.text(signals)
		h.raw("\" data-on:change=\"@get('/sse/dashboard')\">\n")
		h.raw("<label>Início <input type=\"date\" name=\"start\" value=\"")
		h.text(r.StartDate)
		h.raw("\" data-bind:start-date></label>\n")
		h.raw("<label>Fim <input type=\"date\" name=\"end\" value=\"")
		h.text(r.EndDate)
		h.raw("\" data-bind:end-date></label>\n")
		h.render(PaymentOptions(r.PaymentMethods, r.SelectedPayments))
		h.raw("\n<noscript><button type=\"submit\">Aplicar</button></noscript>\n</form>\n</aside>\n")
		h.raw("<main>\n<h1>Dashboard Faturamento Madrugada</h1>\n<p>Vendas entre <b>")
		h.text(FormatClock(view.Window.Start) + " - " + FormatClock(view.Window.End))
		h.raw("</b></p>\n")
		h.render(ReportPanel(r))
		h.raw("\n</main>\n</body>\n</html>\n")
		return h.err
	})
}

// ReportPanel renders only the KPI, aggregate and table section. It is the
// fragment patched over SSE when filters change.
func ReportPanel(report *models.Report) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		data := newPanelData(report)

		h := &writer{ctx: ctx, w: w}
		h.raw("<div id=\"report-panel\">\n<div class=\"kpis\">\n")
		h.raw("<div class=\"kpi\"><div>Faturamento Total</div><div class=\"value\">")
		h.text(data.TotalRevenue)
		h.raw("</div></div>\n<div class=\"kpi\"><div>Total de Pedidos</div><div class=\"value\">")
		h.text(data.TotalOrders)
		h.raw("</div></div>\n</div>\n")

		if data.Empty {
			h.raw("<div class=\"notice\">Nenhum dado encontrado para os filtros selecionados. Tente ajustar os filtros.</div>\n")
			h.raw("</div>")
			return h.err
		}

		h.raw("<h3>Faturamento diário</h3>\n")
		h.render(bars(data.Daily))
		h.raw("<h3>Faturamento por forma de pagamento</h3>\n")
		h.render(bars(data.Payments))
		h.raw("<h3>Pedidos por hora</h3>\n")
		h.render(bars(data.Hourly))

		h.raw("<h3>Dados detalhados</h3>\n")
		if data.Truncated {
			h.raw("<p>Mostrando ")
			h.text(FormatCount(len(data.Rows)))
			h.raw(" de ")
			h.text(FormatCount(data.RowCount))
			h.raw(" pedidos.</p>\n")
		}
		h.render(detailTable(data.Rows))
		h.raw("</div>")
		return h.err
	})
}

func bars(items []bar) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &writer{ctx: ctx, w: w}
		h.raw("<div class=\"bars\">")
		for _, b := range items {
			h.raw("<div><span>")
			h.text(b.Label)
			h.raw("</span><span class=\"bar\" style=\"width:")
			h.raw(strconv.Itoa(b.Pct))
			h.raw("%\"></span><span>")
			if b.Count != "" {
				h.text(b.Count)
				h.raw(" pedidos · ")
			}
			h.text(b.Value)
			h.raw("</span></div>")
		}
		h.raw("</div>\n")
		return h.err
	})
}

func detailTable(rows []row) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &writer{ctx: ctx, w: w}
		h.raw("<table>\n<thead><tr><th>Data</th><th>Hora</th><th>Forma de Pagamento</th><th>Valor Total</th></tr></thead>\n<tbody>\n")
		for _, r := range rows {
			h.raw("<tr><td>")
			h.text(r.Date)
			h.raw("</td><td>")
			h.text(r.Time)
			h.raw("</td><td>")
			h.text(r.Payment)
			h.raw("</td><td>")
			h.text(r.Amount)
			h.raw("</td></tr>\n")
		}
		h.raw("</tbody>\n</table>\n")
		return h.err
	})
}

// PaymentOptions renders the payment method checkboxes for the methods
// available in the current date range.
func PaymentOptions(methods, selected []string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		options := methodOptions(methods, selected)

		h := &writer{ctx: ctx, w: w}
		h.raw("<fieldset id=\"payment-options\">\n<legend>Formas de pagamento</legend>\n")
		if len(options) == 0 {
			h.raw("<p>Nenhuma forma de pagamento no período.</p>\n")
		}
		for _, o := range options {
			h.raw("<label><input type=\"checkbox\" name=\"payment\" value=\"")
			h.text(o.Name)
			h.raw("\"")
			if o.Checked {
				h.raw(" checked")
			}
			h.raw(" data-bind:payments> ")
			h.text(o.Name)
			h.raw("</label><br>\n")
		}
		h.raw("</fieldset>")
		return h.err
	})
}

// Notice replaces the report panel with a message.
func Notice(message string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &writer{ctx: ctx, w: w}
		h.raw("<div id=\"report-panel\"><div class=\"notice\">")
		h.text(message)
		h.raw("</div></div>")
		return h.err
	})
}

func methodOptions(methods, selected []string) []methodOption {
	options := make([]methodOption, 0, len(methods))
	for _, m := range methods {
		options = append(options, methodOption{Name: m, Checked: slices.Contains(selected, m)})
	}
	return options
}

func newPanelData(r *models.Report) panelData {
	data := panelData{
		TotalRevenue: FormatBRL(r.TotalRevenue),
		TotalOrders:  FormatCount(r.TotalOrders),
		Empty:        r.Empty,
		RowCount:     len(r.Records),
	}

	daily := make([]decimal.Decimal, len(r.DailyRevenue))
	for i, d := range r.DailyRevenue {
		daily[i] = d.Revenue
	}
	for i, d := range r.DailyRevenue {
		data.Daily = append(data.Daily, bar{Label: FormatDate(d.Date), Value: FormatBRL(d.Revenue), Pct: percentOfMax(daily[i], daily)})
	}

	payments := make([]decimal.Decimal, len(r.PaymentRevenue))
	for i, p := range r.PaymentRevenue {
		payments[i] = p.Revenue
	}
	for i, p := range r.PaymentRevenue {
		data.Payments = append(data.Payments, bar{Label: p.PaymentMethod, Value: FormatBRL(p.Revenue), Pct: percentOfMax(payments[i], payments)})
	}

	orders := make([]decimal.Decimal, len(r.HourlySummary))
	for i, h := range r.HourlySummary {
		orders[i] = decimal.NewFromInt(int64(h.Orders))
	}
	for i, h := range r.HourlySummary {
		data.Hourly = append(data.Hourly, bar{
			Label: h.Hour,
			Value: FormatBRL(h.Revenue),
			Count: FormatCount(h.Orders),
			Pct:   percentOfMax(orders[i], orders),
		})
	}

	records := r.Records
	if len(records) > maxTableRows {
		records = records[:maxTableRows]
		data.Truncated = true
	}
	for _, rec := range records {
		data.Rows = append(data.Rows, row{
			Date:    FormatDate(rec.Date),
			Time:    FormatClock(rec.TimeOfDay),
			Payment: rec.PaymentMethod,
			Amount:  FormatBRL(rec.Amount),
		})
	}
	return data
}

func percentOfMax(v decimal.Decimal, all []decimal.Decimal) int {
	top := decimal.Zero
	for _, x := range all {
		if x.GreaterThan(top) {
			top = x
		}
	}
	if !top.IsPositive() || !v.IsPositive() {
		return 0
	}
	return int(v.Mul(decimal.NewFromInt(100)).Div(top).Round(0).IntPart())
}
