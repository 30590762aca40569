package services

import (
	"fmt"

	"nightsales-dashboard/internal/models"
)

// ClampRange normalises dr and clamps it to the span of dates present in
// records. ok is false when records is empty.
func ClampRange(records []models.Record, dr models.DateRange) (models.DateRange, bool) {
	dr = dr.Normalize()
	minDate, maxDate, ok := dateSpan(records)
	if !ok {
		return dr, false
	}
	if dr.Start.IsZero() || dr.Start.Before(minDate) {
		dr.Start = minDate
	}
	if dr.End.IsZero() || dr.End.After(maxDate) {
		dr.End = maxDate
	}
	return dr, true
}

func validateRange(dr models.DateRange) error {
	dr = dr.Normalize()
	if dr.Start.After(dr.End) {
		return fmt.Errorf("%w: start %s is after end %s", ErrInvalidDateRange,
			dr.Start.Format(models.DateLayout), dr.End.Format(models.DateLayout))
	}
	return nil
}

// Filter returns the records whose date falls inside the selection's range
// and whose payment method is selected, in their original order.
func Filter(records []models.Record, sel models.Selection) ([]models.Record, error) {
	if err := validateRange(sel.DateRange); err != nil {
		return nil, err
	}

	out := []models.Record{}
	if sel.PaymentMethods != nil && len(sel.PaymentMethods) == 0 {
		return out, nil
	}

	dr, ok := ClampRange(records, sel.DateRange)
	if !ok {
		return out, nil
	}

	var allowed map[string]struct{}
	if sel.PaymentMethods != nil {
		allowed = make(map[string]struct{}, len(sel.PaymentMethods))
		for _, m := range sel.PaymentMethods {
			allowed[m] = struct{}{}
		}
	}

	for _, r := range records {
		if !dr.Contains(r.Date) {
			continue
		}
		if allowed != nil {
			if _, ok := allowed[r.PaymentMethod]; !ok {
				continue
			}
		}
		out = append(out, r)
	}
	return out, nil
}

// PaymentMethods lists the distinct payment methods seen inside dr, in
// order of first appearance.
func PaymentMethods(records []models.Record, dr models.DateRange) []string {
	methods := []string{}
	dr, ok := ClampRange(records, dr)
	if !ok {
		return methods
	}

	seen := make(map[string]struct{})
	for _, r := range records {
		if !dr.Contains(r.Date) {
			continue
		}
		if _, dup := seen[r.PaymentMethod]; dup {
			continue
		}
		seen[r.PaymentMethod] = struct{}{}
		methods = append(methods, r.PaymentMethod)
	}
	return methods
}
