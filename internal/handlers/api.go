package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"nightsales-dashboard/internal/errors"
	"nightsales-dashboard/internal/models"
	"nightsales-dashboard/internal/observability"
	"nightsales-dashboard/internal/services"
)

// Reports are recomputed whenever the source file changes, so clients may
// only hold them briefly.
var reportHeaders = map[string]string{
	"Cache-Control": "private, max-age=30",
}

type APIHandlers struct {
	analytics *services.Analytics
	logger    *slog.Logger
}

func NewAPIHandlers(analytics *services.Analytics, logger *slog.Logger) *APIHandlers {
	return &APIHandlers{
		analytics: analytics,
		logger:    logger,
	}
}

// report parses the selection and builds the report. On failure the error
// has already been written.
func (h *APIHandlers) report(w http.ResponseWriter, r *http.Request) (*models.Report, bool) {
	requestID := observability.GetRequestID(r.Context())

	sel, err := parseSelection(r.URL.Query())
	if err != nil {
		errors.WriteError(w, h.logger, err, requestID)
		return nil, false
	}

	report, err := h.analytics.Report(r.Context(), sel)
	if err != nil {
		errors.WriteError(w, h.logger, pipelineError(err), requestID)
		return nil, false
	}
	return report, true
}

func (h *APIHandlers) HandleReport(w http.ResponseWriter, r *http.Request) {
	report, ok := h.report(w, r)
	if !ok {
		return
	}
	errors.WriteSuccessWithHeaders(w, report, reportHeaders)
}

func (h *APIHandlers) HandleDailyRevenue(w http.ResponseWriter, r *http.Request) {
	report, ok := h.report(w, r)
	if !ok {
		return
	}
	errors.WriteSuccessWithHeaders(w, report.DailyRevenue, reportHeaders)
}

func (h *APIHandlers) HandlePaymentRevenue(w http.ResponseWriter, r *http.Request) {
	report, ok := h.report(w, r)
	if !ok {
		return
	}
	errors.WriteSuccessWithHeaders(w, report.PaymentRevenue, reportHeaders)
}

func (h *APIHandlers) HandleHourlySummary(w http.ResponseWriter, r *http.Request) {
	report, ok := h.report(w, r)
	if !ok {
		return
	}
	errors.WriteSuccessWithHeaders(w, report.HourlySummary, reportHeaders)
}

// HandlePaymentMethods lists the methods present in the requested date
// range. Payment parameters are ignored.
func (h *APIHandlers) HandlePaymentMethods(w http.ResponseWriter, r *http.Request) {
	requestID := observability.GetRequestID(r.Context())

	sel, err := parseSelection(r.URL.Query())
	if err != nil {
		errors.WriteError(w, h.logger, err, requestID)
		return
	}

	methods, err := h.analytics.PaymentMethods(r.Context(), sel.DateRange)
	if err != nil {
		errors.WriteError(w, h.logger, pipelineError(err), requestID)
		return
	}
	errors.WriteSuccessWithHeaders(w, methods, reportHeaders)
}

func (h *APIHandlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	healthData := map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"version":   "1.0.0",
	}

	errors.WriteSuccess(w, healthData)
}

func (h *APIHandlers) HandleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.analytics.Stats(r.Context())
	if err != nil {
		errors.WriteError(w, h.logger, pipelineError(err), observability.GetRequestID(r.Context()))
		return
	}

	errors.WriteSuccess(w, stats)
}
