package templates

import (
	"testing"

	"github.com/shopspring/decimal"

	"nightsales-dashboard/internal/models"
)

func TestFormatBRL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "R$ 0,00"},
		{"5.5", "R$ 5,50"},
		{"999.99", "R$ 999,99"},
		{"1000", "R$ 1.000,00"},
		{"1234567.891", "R$ 1.234.567,89"},
		{"-42.1", "-R$ 42,10"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := FormatBRL(decimal.RequireFromString(tt.in)); got != tt.want {
				t.Errorf("FormatBRL(%s) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestFormatCount(t *testing.T) {
	tests := map[int]string{
		0:       "0",
		999:     "999",
		1000:    "1.000",
		1234567: "1.234.567",
		-2500:   "-2.500",
	}
	for in, want := range tests {
		if got := FormatCount(in); got != want {
			t.Errorf("FormatCount(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestFormatDateAndClock(t *testing.T) {
	d, err := models.ParseDate("2024-01-05")
	if err != nil {
		t.Fatal(err)
	}
	if got := FormatDate(d); got != "05/01/2024" {
		t.Errorf("FormatDate = %q", got)
	}
	if got := FormatClock(models.NewTimeOfDay(4, 7, 59)); got != "04:07" {
		t.Errorf("FormatClock = %q", got)
	}
}
