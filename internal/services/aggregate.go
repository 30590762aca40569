package services

import (
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"nightsales-dashboard/internal/models"
)

// Totals returns the headline KPIs: revenue and order count.
func Totals(records []models.Record) (decimal.Decimal, int) {
	total := decimal.Zero
	for _, r := range records {
		total = total.Add(r.Amount)
	}
	return total, len(records)
}

// DailyRevenue sums amounts per calendar date, ascending by date.
func DailyRevenue(records []models.Record) []models.DailyRevenue {
	groups := make(map[int64]*models.DailyRevenue)
	for _, r := range records {
		key := r.Date.Unix()
		if groups[key] == nil {
			groups[key] = &models.DailyRevenue{Date: r.Date, Revenue: decimal.Zero}
		}
		groups[key].Revenue = groups[key].Revenue.Add(r.Amount)
	}

	result := make([]models.DailyRevenue, 0, len(groups))
	for _, d := range groups {
		result = append(result, *d)
	}
	slices.SortFunc(result, func(a, b models.DailyRevenue) int {
		return a.Date.Compare(b.Date)
	})
	return result
}

// RevenueByPayment sums amounts per payment method. Each method appears
// once, largest revenue first, ties broken by name.
func RevenueByPayment(records []models.Record) []models.PaymentRevenue {
	groups := make(map[string]*models.PaymentRevenue)
	for _, r := range records {
		if groups[r.PaymentMethod] == nil {
			groups[r.PaymentMethod] = &models.PaymentRevenue{PaymentMethod: r.PaymentMethod, Revenue: decimal.Zero}
		}
		groups[r.PaymentMethod].Revenue = groups[r.PaymentMethod].Revenue.Add(r.Amount)
	}

	result := make([]models.PaymentRevenue, 0, len(groups))
	for _, p := range groups {
		result = append(result, *p)
	}
	slices.SortFunc(result, func(a, b models.PaymentRevenue) int {
		if c := b.Revenue.Cmp(a.Revenue); c != 0 {
			return c
		}
		return strings.Compare(a.PaymentMethod, b.PaymentMethod)
	})
	return result
}

// HourlySummary counts orders and sums revenue per hour of the window.
// Every hour the window touches gets a bucket, including empty ones.
func HourlySummary(records []models.Record, window models.Window) []models.HourlyBucket {
	hours := window.Hours()
	buckets := make([]models.HourlyBucket, len(hours))
	index := make(map[int]int, len(hours))
	for i, h := range hours {
		buckets[i] = models.HourlyBucket{Hour: models.HourLabel(h), Revenue: decimal.Zero}
		index[h] = i
	}

	for _, r := range records {
		i, ok := index[r.TimeOfDay.Hour()]
		if !ok {
			continue
		}
		buckets[i].Orders++
		buckets[i].Revenue = buckets[i].Revenue.Add(r.Amount)
	}
	return buckets
}

// BuildReport filters records by sel and computes every KPI and aggregate
// the dashboard shows.
func BuildReport(records []models.Record, sel models.Selection, window models.Window) (*models.Report, error) {
	filtered, err := Filter(records, sel)
	if err != nil {
		return nil, err
	}

	dr, ok := ClampRange(records, sel.DateRange)
	available := PaymentMethods(records, sel.DateRange)
	selected := sel.PaymentMethods
	if selected == nil {
		selected = available
	}

	total, orders := Totals(filtered)
	report := &models.Report{
		TotalRevenue:     total,
		TotalOrders:      orders,
		DailyRevenue:     DailyRevenue(filtered),
		PaymentRevenue:   RevenueByPayment(filtered),
		HourlySummary:    HourlySummary(filtered, window),
		PaymentMethods:   available,
		SelectedPayments: selected,
		Records:          filtered,
		Empty:            len(filtered) == 0,
	}
	if ok {
		report.StartDate = dr.Start.Format(models.DateLayout)
		report.EndDate = dr.End.Format(models.DateLayout)
	}
	return report, nil
}
