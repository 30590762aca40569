package handlers

import (
	stderrors "errors"
	"net/url"
	"strings"
	"time"

	"nightsales-dashboard/internal/errors"
	"nightsales-dashboard/internal/models"
	"nightsales-dashboard/internal/services"
)

// parseSelection reads start, end and payment from the query string.
// Missing dates mean the full data span. A payment parameter that is
// present but empty selects no method; no payment parameter selects all.
func parseSelection(q url.Values) (models.Selection, error) {
	var sel models.Selection

	start, err := parseDateParam(q.Get("start"))
	if err != nil {
		return sel, errors.BadRequestWrap(err, "start must be a date in YYYY-MM-DD format")
	}
	end, err := parseDateParam(q.Get("end"))
	if err != nil {
		return sel, errors.BadRequestWrap(err, "end must be a date in YYYY-MM-DD format")
	}
	sel.DateRange = models.DateRange{Start: start, End: end}

	if values, ok := q["payment"]; ok {
		sel.PaymentMethods = collectMethods(values)
	}
	return sel, nil
}

func parseDateParam(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	return models.ParseDate(s)
}

// collectMethods keeps non-blank names. The result is never nil.
func collectMethods(values []string) []string {
	methods := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			methods = append(methods, v)
		}
	}
	return methods
}

// pipelineError maps service failures onto API errors.
func pipelineError(err error) *errors.AppError {
	var appErr *errors.AppError
	switch {
	case stderrors.As(err, &appErr):
		return appErr
	case stderrors.Is(err, services.ErrInvalidDateRange):
		return errors.ValidationWrap(err, "start date must not be after end date")
	case stderrors.Is(err, services.ErrSourceUnavailable):
		return errors.SourceUnavailable(err, "sales source is unavailable")
	case stderrors.Is(err, services.ErrSchemaMismatch):
		return errors.SchemaMismatch(err, "sales source is missing required columns")
	default:
		return errors.InternalWrap(err, "failed to build sales report")
	}
}
