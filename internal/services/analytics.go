package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"nightsales-dashboard/internal/models"
)

// Analytics serves dashboard queries over one sales source. The cleaned
// dataset is cached and refreshed when the source file changes.
type Analytics struct {
	mu     sync.RWMutex
	cache  *Cache
	source string
	window models.Window
	pinned *Dataset
	logger *slog.Logger
}

func NewAnalytics(opts LoadOptions) *Analytics {
	opts = opts.withDefaults()
	return &Analytics{
		cache:  NewCache(opts),
		window: opts.Window,
		logger: opts.Logger,
	}
}

// SetData pins an in-memory record set in place of a source file.
func (a *Analytics) SetData(records []models.Record) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.pinned = &Dataset{
		Source:   "memory",
		LoadedAt: time.Now(),
		Window:   a.window,
		Records:  records,
		RowCount: len(records),
	}
}

// LoadFromFile binds the service to path and loads it eagerly so schema
// and access problems surface at startup.
func (a *Analytics) LoadFromFile(ctx context.Context, path string) error {
	ds, err := a.cache.Load(ctx, path)
	if err != nil {
		return fmt.Errorf("load sales source: %w", err)
	}

	a.mu.Lock()
	a.source = path
	a.pinned = nil
	a.mu.Unlock()

	if len(ds.Records) == 0 {
		a.logger.Warn("sales source has no records inside the window",
			"source", path,
			"window", a.window.String(),
		)
	}
	return nil
}

// Dataset returns the current cleaned dataset.
func (a *Analytics) Dataset(ctx context.Context) (*Dataset, error) {
	a.mu.RLock()
	pinned, source := a.pinned, a.source
	a.mu.RUnlock()

	if pinned != nil {
		return pinned, nil
	}
	if source == "" {
		return &Dataset{Window: a.window, Records: []models.Record{}}, nil
	}
	return a.cache.Load(ctx, source)
}

func (a *Analytics) Window() models.Window {
	return a.window
}

func (a *Analytics) Report(ctx context.Context, sel models.Selection) (*models.Report, error) {
	ds, err := a.Dataset(ctx)
	if err != nil {
		return nil, err
	}
	return BuildReport(ds.Records, sel, a.window)
}

func (a *Analytics) PaymentMethods(ctx context.Context, dr models.DateRange) ([]string, error) {
	ds, err := a.Dataset(ctx)
	if err != nil {
		return nil, err
	}
	return PaymentMethods(ds.Records, dr), nil
}

// Stats is used by the admin endpoint.
func (a *Analytics) Stats(ctx context.Context) (map[string]any, error) {
	ds, err := a.Dataset(ctx)
	if err != nil {
		return nil, err
	}

	stats := map[string]any{
		"source":       ds.Source,
		"loaded_at":    ds.LoadedAt,
		"rows":         ds.RowCount,
		"record_count": len(ds.Records),
		"rejected":     ds.Rejected,
		"window":       a.window.String(),
	}
	if minDate, maxDate, ok := ds.Span(); ok {
		stats["first_date"] = minDate.Format(models.DateLayout)
		stats["last_date"] = maxDate.Format(models.DateLayout)
	}
	return stats, nil
}

// Close releases cached datasets. Later queries reload from the source.
func (a *Analytics) Close(ctx context.Context) error {
	a.cache.Clear()
	a.logger.Debug("sales cache released")
	return ctx.Err()
}
