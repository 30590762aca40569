package services

import (
	"errors"
	"log/slog"
	"time"

	"nightsales-dashboard/internal/models"
)

var (
	ErrSourceUnavailable = errors.New("sales source unavailable")
	ErrSchemaMismatch    = errors.New("sales source schema mismatch")
	ErrInvalidDateRange  = errors.New("invalid date range")
)

// Columns names the header cells holding the fields the pipeline needs.
// Every other column in the sheet is ignored.
type Columns struct {
	Timestamp string
	Payment   string
	Amount    string
}

var DefaultColumns = Columns{
	Timestamp: "Data da venda",
	Payment:   "Pagamento",
	Amount:    "Total",
}

type LoadOptions struct {
	// Sheet defaults to the first sheet of the workbook.
	Sheet string
	// Window is used as given. Its zero value keeps only sales at exactly
	// midnight; start from DefaultLoadOptions for the overnight window.
	Window  models.Window
	Columns Columns
	Logger  *slog.Logger
}

func DefaultLoadOptions() LoadOptions {
	return LoadOptions{
		Window:  models.DefaultWindow,
		Columns: DefaultColumns,
		Logger:  slog.Default(),
	}
}

func (o LoadOptions) withDefaults() LoadOptions {
	if o.Columns.Timestamp == "" {
		o.Columns.Timestamp = DefaultColumns.Timestamp
	}
	if o.Columns.Payment == "" {
		o.Columns.Payment = DefaultColumns.Payment
	}
	if o.Columns.Amount == "" {
		o.Columns.Amount = DefaultColumns.Amount
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}

// Rejections counts rows dropped during cleaning, by reason.
type Rejections struct {
	Timestamp int `json:"timestamp"`
	Window    int `json:"window"`
	Amount    int `json:"amount"`
}

func (r Rejections) Total() int {
	return r.Timestamp + r.Window + r.Amount
}

// Dataset is the immutable result of loading and cleaning one source file.
// Callers own it; nothing in this package keeps a process-wide copy.
type Dataset struct {
	Source   string
	ModTime  time.Time
	LoadedAt time.Time
	Window   models.Window
	Records  []models.Record
	Rejected Rejections
	RowCount int
}

// Span returns the earliest and latest record dates. ok is false when the
// dataset holds no records.
func (d *Dataset) Span() (minDate, maxDate time.Time, ok bool) {
	return dateSpan(d.Records)
}

func dateSpan(records []models.Record) (minDate, maxDate time.Time, ok bool) {
	if len(records) == 0 {
		return time.Time{}, time.Time{}, false
	}
	minDate, maxDate = records[0].Date, records[0].Date
	for _, r := range records[1:] {
		if r.Date.Before(minDate) {
			minDate = r.Date
		}
		if r.Date.After(maxDate) {
			maxDate = r.Date
		}
	}
	return minDate, maxDate, true
}
