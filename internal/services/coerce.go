package services

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// Serial day numbers past 9999-12-31 are not dates.
const maxExcelSerial = 2958465

var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"02/01/2006 15:04:05",
	"02/01/2006 15:04",
	"2006-01-02",
	"02/01/2006",
}

// parseTimestamp reads a sale timestamp from either an Excel serial number
// (raw workbook cells) or one of the text layouts above.
func parseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}

	if serial, err := strconv.ParseFloat(s, 64); err == nil {
		if serial <= 0 || serial > maxExcelSerial {
			return time.Time{}, fmt.Errorf("serial %q out of range", s)
		}
		// ExcelDateToTime rounds to the nearest second, so only the day comes
		// from it and the time of day is truncated here.
		whole := math.Floor(serial)
		day, err := excelize.ExcelDateToTime(whole, false)
		if err != nil {
			return time.Time{}, err
		}
		offset := time.Duration((serial - whole) * float64(24*time.Hour))
		return day.Add(offset + time.Millisecond).Truncate(time.Second), nil
	}

	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp %q", s)
}

// parseAmount coerces a currency cell to cents. It accepts plain numbers,
// an optional currency prefix and both 1.234,56 and 1,234.56 grouping.
func parseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "R$")
	s = strings.TrimPrefix(s, "$")
	s = strings.Map(func(r rune) rune {
		if r == ' ' || r == '\u00a0' {
			return -1
		}
		return r
	}, s)
	if s == "" {
		return decimal.Zero, fmt.Errorf("empty amount")
	}

	lastComma := strings.LastIndex(s, ",")
	lastDot := strings.LastIndex(s, ".")
	switch {
	case lastComma >= 0 && lastDot >= 0:
		if lastComma > lastDot {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case lastComma >= 0:
		if strings.Count(s, ",") == 1 && len(s)-lastComma-1 <= 2 {
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case strings.Count(s, ".") > 1:
		s = strings.ReplaceAll(s, ".", "")
	default:
		// A lone dot is a decimal point: "R$ 1.234" is 1.23, not 1234.
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("amount %q: %w", s, err)
	}
	return d.Round(2), nil
}
