package templates

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/a-h/templ"
	"github.com/shopspring/decimal"

	"nightsales-dashboard/internal/models"
)

func testReport() *models.Report {
	day, _ := models.ParseDate("2024-01-05")
	next := day.AddDate(0, 0, 1)
	return &models.Report{
		StartDate:    "2024-01-05",
		EndDate:      "2024-01-06",
		TotalRevenue: decimal.RequireFromString("1100.00"),
		TotalOrders:  3,
		DailyRevenue: []models.DailyRevenue{
			{Date: day, Revenue: decimal.RequireFromString("1080.00")},
			{Date: next, Revenue: decimal.RequireFromString("20.00")},
		},
		PaymentRevenue: []models.PaymentRevenue{
			{PaymentMethod: "Cash", Revenue: decimal.RequireFromString("1070.00")},
			{PaymentMethod: "Card <b>", Revenue: decimal.RequireFromString("30.00")},
		},
		HourlySummary: []models.HourlyBucket{
			{Hour: "00:00", Orders: 1, Revenue: decimal.RequireFromString("1050.00")},
			{Hour: "01:00", Orders: 1, Revenue: decimal.RequireFromString("20.00")},
			{Hour: "04:00", Orders: 1, Revenue: decimal.RequireFromString("30.00")},
		},
		PaymentMethods:   []string{"Cash", "Card <b>"},
		SelectedPayments: []string{"Cash"},
		Records: []models.Record{
			{Date: day, TimeOfDay: models.NewTimeOfDay(0, 30, 0), PaymentMethod: "Cash", Amount: decimal.RequireFromString("1050.00")},
		},
	}
}

func renderString(t *testing.T, c templ.Component) string {
	t.Helper()
	var b strings.Builder
	if err := c.Render(context.Background(), &b); err != nil {
		t.Fatalf("render failed: %v", err)
	}
	return b.String()
}

func TestDashboard(t *testing.T) {
	html := renderString(t, Dashboard(DashboardView{Report: testReport(), Window: models.DefaultWindow}))

	for _, want := range []string{
		"<!DOCTYPE html>",
		"00:00 - 05:00",
		`value="2024-01-05"`,
		`value="2024-01-06"`,
		`value="Cash" checked`,
		`id="report-panel"`,
		`id="payment-options"`,
		"R$ 1.100,00",
		"05/01/2024",
		"data-signals=",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("page should contain %q", want)
		}
	}
	if strings.Contains(html, "Card <b>") {
		t.Error("payment names must be escaped")
	}
	if strings.Contains(html, "Nenhum dado encontrado") {
		t.Error("a non-empty report should not show the notice")
	}
}

func TestDashboard_ComposesFragments(t *testing.T) {
	report := testReport()
	page := renderString(t, Dashboard(DashboardView{Report: report, Window: models.DefaultWindow}))

	for name, c := range map[string]templ.Component{
		"panel":   ReportPanel(report),
		"options": PaymentOptions(report.PaymentMethods, report.SelectedPayments),
	} {
		if fragment := renderString(t, c); !strings.Contains(page, fragment) {
			t.Errorf("page should embed the %s fragment unchanged", name)
		}
	}
	if !strings.Contains(page, `data-signals="{&#34;endDate&#34;:&#34;2024-01-06&#34;`) {
		t.Error("signals should be attribute-escaped JSON")
	}
	if !strings.Contains(page, "Card &lt;b&gt;") {
		t.Error("payment names should be html-escaped")
	}
}

type failingWriter struct{ after int }

func (f *failingWriter) Write(p []byte) (int, error) {
	if f.after <= 0 {
		return 0, errors.New("connection reset")
	}
	f.after--
	return len(p), nil
}

func TestDashboard_StopsOnWriteError(t *testing.T) {
	w := &failingWriter{after: 3}
	err := Dashboard(DashboardView{Report: testReport(), Window: models.DefaultWindow}).Render(context.Background(), w)
	if err == nil || err.Error() != "connection reset" {
		t.Errorf("Render() error = %v, want connection reset", err)
	}
}

func TestReportPanel(t *testing.T) {
	html := renderString(t, ReportPanel(testReport()))

	if !strings.HasPrefix(html, `<div id="report-panel">`) {
		t.Errorf("panel should start with its id, got %.40q", html)
	}
	if strings.Contains(html, "<!DOCTYPE") {
		t.Error("panel must be a fragment")
	}
	for _, want := range []string{"R$ 1.070,00", "1 pedidos", "width:100%", "00:30"} {
		if !strings.Contains(html, want) {
			t.Errorf("panel should contain %q", want)
		}
	}
}

func TestReportPanel_Empty(t *testing.T) {
	report := &models.Report{TotalRevenue: decimal.Zero, Empty: true}
	html := renderString(t, ReportPanel(report))

	if !strings.Contains(html, "Nenhum dado encontrado") {
		t.Error("empty report should show the notice")
	}
	if !strings.Contains(html, "R$ 0,00") {
		t.Error("empty report should show zero revenue")
	}
	if strings.Contains(html, "<table") {
		t.Error("empty report should not render the detail table")
	}
}

func TestReportPanel_TruncatesRows(t *testing.T) {
	report := testReport()
	report.Records = make([]models.Record, maxTableRows+5)
	for i := range report.Records {
		report.Records[i] = models.Record{Amount: decimal.NewFromInt(1)}
	}

	html := renderString(t, ReportPanel(report))
	if got := strings.Count(html, "<tr><td>"); got != maxTableRows {
		t.Errorf("rows = %d, want %d", got, maxTableRows)
	}
	if !strings.Contains(html, "Mostrando 500 de 505 pedidos.") {
		t.Error("truncation note missing")
	}
}

func TestPaymentOptions(t *testing.T) {
	html := renderString(t, PaymentOptions([]string{"Pix", "Cash"}, []string{"Cash"}))

	if !strings.Contains(html, `value="Pix" data-bind:payments`) {
		t.Error("Pix should be unchecked")
	}
	if !strings.Contains(html, `value="Cash" checked`) {
		t.Error("Cash should be checked")
	}

	empty := renderString(t, PaymentOptions(nil, nil))
	if !strings.Contains(empty, "Nenhuma forma de pagamento") {
		t.Error("no methods should render a hint")
	}
}

func TestNotice(t *testing.T) {
	html := renderString(t, Notice("start date must not be after end date"))
	if !strings.Contains(html, `id="report-panel"`) || !strings.Contains(html, "start date must not be after end date") {
		t.Errorf("unexpected notice %q", html)
	}
}

func TestPercentOfMax(t *testing.T) {
	all := []decimal.Decimal{decimal.NewFromInt(50), decimal.NewFromInt(200), decimal.Zero}
	if got := percentOfMax(all[0], all); got != 25 {
		t.Errorf("percentOfMax = %d, want 25", got)
	}
	if got := percentOfMax(all[1], all); got != 100 {
		t.Errorf("percentOfMax = %d, want 100", got)
	}
	if got := percentOfMax(all[2], all); got != 0 {
		t.Errorf("percentOfMax = %d, want 0", got)
	}
}
