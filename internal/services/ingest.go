package services

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"nightsales-dashboard/internal/models"
	"nightsales-dashboard/internal/observability"
)

const ctxCheckEvery = 1000

// LoadRecords reads the source spreadsheet once, cleans every row and
// returns the records that fall inside opts.Window. Rows with a bad
// timestamp, a bad amount or a time outside the window are dropped and
// counted in Dataset.Rejected.
func LoadRecords(ctx context.Context, path string, opts LoadOptions) (*Dataset, error) {
	opts = opts.withDefaults()

	ctx, span := observability.StartSpan(ctx, "sales.load")
	defer func() {
		span.Finish()
		opts.Logger.Debug("span finished", "span", span)
	}()
	span.SetTag("source", path)

	info, err := os.Stat(path)
	if err != nil {
		span.SetError(err)
		return nil, fmt.Errorf("%w: %s: %w", ErrSourceUnavailable, path, err)
	}

	start := time.Now()
	rows, err := readRows(path, opts.Sheet)
	if err != nil {
		span.SetError(err)
		return nil, err
	}

	records, rejected, err := cleanRows(ctx, path, rows, opts)
	if err != nil {
		span.SetError(err)
		return nil, err
	}

	ds := &Dataset{
		Source:   path,
		ModTime:  info.ModTime(),
		LoadedAt: time.Now(),
		Window:   opts.Window,
		Records:  records,
		Rejected: rejected,
		RowCount: max(len(rows)-1, 0),
	}

	opts.Logger.Info("sales source loaded",
		"source", path,
		"rows", ds.RowCount,
		"records", len(records),
		"rejected_timestamp", rejected.Timestamp,
		"rejected_window", rejected.Window,
		"rejected_amount", rejected.Amount,
		"window", opts.Window.String(),
		"duration", time.Since(start),
	)
	return ds, nil
}

func readRows(path, sheet string) ([][]string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return readCSV(path)
	default:
		return readWorkbook(path, sheet)
	}
}

func readWorkbook(path, sheet string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open workbook %s: %w", ErrSourceUnavailable, path, err)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("%w: %s has no sheets", ErrSchemaMismatch, path)
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("%w: read sheet %q of %s: %w", ErrSourceUnavailable, sheet, path, err)
	}
	return rows, nil
}

func readCSV(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", ErrSourceUnavailable, path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", ErrSourceUnavailable, path, err)
	}
	if len(rows) > 0 && len(rows[0]) > 0 {
		rows[0][0] = strings.TrimPrefix(rows[0][0], "\ufeff")
	}
	return rows, nil
}

type columnIndex struct {
	timestamp int
	payment   int
	amount    int
}

func resolveColumns(path string, header []string, cols Columns) (columnIndex, error) {
	positions := make(map[string]int, len(header))
	for i, name := range header {
		key := strings.ToLower(strings.TrimSpace(name))
		if _, seen := positions[key]; !seen {
			positions[key] = i
		}
	}

	var missing []string
	lookup := func(name string) int {
		i, ok := positions[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			missing = append(missing, name)
			return -1
		}
		return i
	}

	idx := columnIndex{
		timestamp: lookup(cols.Timestamp),
		payment:   lookup(cols.Payment),
		amount:    lookup(cols.Amount),
	}
	if len(missing) > 0 {
		return columnIndex{}, fmt.Errorf("%w: %s is missing required column(s) %q", ErrSchemaMismatch, path, missing)
	}
	return idx, nil
}

func cleanRows(ctx context.Context, path string, rows [][]string, opts LoadOptions) ([]models.Record, Rejections, error) {
	var rejected Rejections
	if len(rows) == 0 {
		return nil, rejected, fmt.Errorf("%w: %s has no header row", ErrSchemaMismatch, path)
	}

	idx, err := resolveColumns(path, rows[0], opts.Columns)
	if err != nil {
		return nil, rejected, err
	}

	records := make([]models.Record, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if i%ctxCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, rejected, err
			}
		}
		if isBlank(row) {
			continue
		}

		ts, err := parseTimestamp(cell(row, idx.timestamp))
		if err != nil {
			rejected.Timestamp++
			continue
		}

		tod := models.TimeOfDayOf(ts)
		if !opts.Window.Contains(tod) {
			rejected.Window++
			continue
		}

		amount, err := parseAmount(cell(row, idx.amount))
		if err != nil {
			rejected.Amount++
			continue
		}

		records = append(records, models.Record{
			Date:          models.DateOf(ts),
			TimeOfDay:     tod,
			PaymentMethod: strings.TrimSpace(cell(row, idx.payment)),
			Amount:        amount,
		})
	}
	return records, rejected, nil
}

// cell tolerates short rows; trailing empty cells are not stored.
func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

func isBlank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
