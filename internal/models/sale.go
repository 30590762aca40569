package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

const DateLayout = "2006-01-02"

// Record is one cleaned point-of-sale transaction.
type Record struct {
	Date          time.Time
	TimeOfDay     TimeOfDay
	PaymentMethod string
	Amount        decimal.Decimal
}

func (r Record) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Date          string          `json:"date"`
		TimeOfDay     TimeOfDay       `json:"time_of_day"`
		PaymentMethod string          `json:"payment_method"`
		Amount        decimal.Decimal `json:"amount"`
	}{
		Date:          r.Date.Format(DateLayout),
		TimeOfDay:     r.TimeOfDay,
		PaymentMethod: r.PaymentMethod,
		Amount:        r.Amount,
	})
}

// DateOf returns the calendar date of t as midnight UTC.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD calendar date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return t, nil
}

// DateRange is an inclusive range of calendar dates. A zero End collapses
// to Start.
type DateRange struct {
	Start time.Time
	End   time.Time
}

func (dr DateRange) Normalize() DateRange {
	out := DateRange{Start: DateOf(dr.Start), End: DateOf(dr.End)}
	if dr.End.IsZero() {
		out.End = out.Start
	}
	return out
}

func (dr DateRange) Contains(d time.Time) bool {
	return !d.Before(dr.Start) && !d.After(dr.End)
}

// Selection is the per-render filter. A nil PaymentMethods selects every
// method present in the date range; an empty non-nil slice selects none.
type Selection struct {
	DateRange      DateRange
	PaymentMethods []string
}

type DailyRevenue struct {
	Date    time.Time
	Revenue decimal.Decimal
}

func (d DailyRevenue) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Date    string          `json:"date"`
		Revenue decimal.Decimal `json:"revenue"`
	}{
		Date:    d.Date.Format(DateLayout),
		Revenue: d.Revenue,
	})
}

type PaymentRevenue struct {
	PaymentMethod string          `json:"payment_method"`
	Revenue       decimal.Decimal `json:"revenue"`
}

type HourlyBucket struct {
	Hour    string          `json:"hour"`
	Orders  int             `json:"orders"`
	Revenue decimal.Decimal `json:"revenue"`
}

// Report is everything the dashboard renders for one selection.
type Report struct {
	StartDate        string           `json:"start_date"`
	EndDate          string           `json:"end_date"`
	TotalRevenue     decimal.Decimal  `json:"total_revenue"`
	TotalOrders      int              `json:"total_orders"`
	DailyRevenue     []DailyRevenue   `json:"daily_revenue"`
	PaymentRevenue   []PaymentRevenue `json:"payment_revenue"`
	HourlySummary    []HourlyBucket   `json:"hourly_summary"`
	PaymentMethods   []string         `json:"payment_methods"`
	SelectedPayments []string         `json:"selected_payments"`
	Records          []Record         `json:"records"`
	Empty            bool             `json:"empty"`
}
