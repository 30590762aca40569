package handlers

import (
	"log/slog"
	"net/http"

	"nightsales-dashboard/internal/errors"
	"nightsales-dashboard/internal/observability"
	"nightsales-dashboard/internal/services"
	"nightsales-dashboard/internal/ui/templates"
)

type PageHandlers struct {
	analytics *services.Analytics
	logger    *slog.Logger
}

func NewPageHandlers(analytics *services.Analytics, logger *slog.Logger) *PageHandlers {
	return &PageHandlers{
		analytics: analytics,
		logger:    logger,
	}
}

// HandleDashboard renders the full page. The query string accepts the same
// filters as the report API so the page works without scripts.
func (h *PageHandlers) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	requestID := observability.GetRequestID(r.Context())

	sel, err := parseSelection(r.URL.Query())
	if err != nil {
		errors.WriteError(w, h.logger, err, requestID)
		return
	}

	report, err := h.analytics.Report(r.Context(), sel)
	if err != nil {
		errors.WriteError(w, h.logger, pipelineError(err), requestID)
		return
	}

	view := templates.DashboardView{Report: report, Window: h.analytics.Window()}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := templates.Dashboard(view).Render(r.Context(), w); err != nil {
		h.logger.Error("render dashboard", "error", err, "request_id", requestID)
	}
}
