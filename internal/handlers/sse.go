package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/a-h/templ"
	"github.com/starfederation/datastar-go/datastar"

	"nightsales-dashboard/internal/errors"
	"nightsales-dashboard/internal/models"
	"nightsales-dashboard/internal/observability"
	"nightsales-dashboard/internal/services"
	"nightsales-dashboard/internal/ui/templates"
)

// dashboardSignals mirrors the filter signals bound in the page.
type dashboardSignals struct {
	StartDate string   `json:"startDate"`
	EndDate   string   `json:"endDate"`
	Payments  []string `json:"payments"`
}

func (s dashboardSignals) selection() (models.Selection, error) {
	var sel models.Selection

	start, err := parseDateParam(s.StartDate)
	if err != nil {
		return sel, errors.BadRequestWrap(err, "startDate must be a date in YYYY-MM-DD format")
	}
	end, err := parseDateParam(s.EndDate)
	if err != nil {
		return sel, errors.BadRequestWrap(err, "endDate must be a date in YYYY-MM-DD format")
	}
	sel.DateRange = models.DateRange{Start: start, End: end}

	if s.Payments != nil {
		sel.PaymentMethods = collectMethods(s.Payments)
	}
	return sel, nil
}

type SSEHandlers struct {
	analytics *services.Analytics
	logger    *slog.Logger
}

func NewSSEHandlers(analytics *services.Analytics, logger *slog.Logger) *SSEHandlers {
	return &SSEHandlers{
		analytics: analytics,
		logger:    logger,
	}
}

func render(c templ.Component, r *http.Request) (string, error) {
	var buf strings.Builder
	if err := c.Render(r.Context(), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// HandleDashboard recomputes the report for the filter signals sent by the
// page and patches the report panel, the payment options and the chart
// signals.
func (h *SSEHandlers) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	requestID := observability.GetRequestID(r.Context())

	var signals dashboardSignals
	if err := datastar.ReadSignals(r, &signals); err != nil {
		errors.WriteError(w, h.logger, errors.BadRequestWrap(err, "invalid dashboard signals"), requestID)
		return
	}

	sse := datastar.NewSSE(w, r)

	sel, err := signals.selection()
	if err == nil {
		err = h.patchReport(sse, r, sel)
	}
	if err != nil {
		appErr := pipelineError(err)
		h.logger.Warn("dashboard update failed",
			"error", err,
			"error_code", appErr.Code,
			"request_id", requestID,
		)
		html, renderErr := render(templates.Notice(appErr.Message), r)
		if renderErr != nil {
			h.logger.Error("render notice", "error", renderErr, "request_id", requestID)
			return
		}
		if err := sse.PatchElements(html); err != nil {
			h.logger.Debug("patch notice", "error", err, "request_id", requestID)
		}
	}

	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}

func (h *SSEHandlers) patchReport(sse *datastar.ServerSentEventGenerator, r *http.Request, sel models.Selection) error {
	start := time.Now()

	report, err := h.analytics.Report(r.Context(), sel)
	if err != nil {
		return err
	}

	panel, err := render(templates.ReportPanel(report), r)
	if err != nil {
		return errors.InternalWrap(err, "failed to render report")
	}
	options, err := render(templates.PaymentOptions(report.PaymentMethods, report.SelectedPayments), r)
	if err != nil {
		return errors.InternalWrap(err, "failed to render payment options")
	}

	chartSignals, err := json.Marshal(map[string]any{
		"dailyData":      report.DailyRevenue,
		"paymentData":    report.PaymentRevenue,
		"hourlyData":     report.HourlySummary,
		"paymentOptions": report.PaymentMethods,
	})
	if err != nil {
		return errors.InternalWrap(err, "failed to encode chart data")
	}

	// Write failures mean the client went away.
	if err := sse.PatchElements(panel); err != nil {
		h.logger.Debug("patch report panel", "error", err)
		return nil
	}
	if err := sse.PatchElements(options); err != nil {
		h.logger.Debug("patch payment options", "error", err)
		return nil
	}
	if err := sse.PatchSignals(chartSignals); err != nil {
		h.logger.Debug("patch chart signals", "error", err)
		return nil
	}

	h.logger.Debug("dashboard patched",
		"orders", report.TotalOrders,
		"start_date", report.StartDate,
		"end_date", report.EndDate,
		"duration", time.Since(start),
		"request_id", observability.GetRequestID(r.Context()),
	)
	return nil
}
