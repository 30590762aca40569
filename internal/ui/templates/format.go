package templates

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"nightsales-dashboard/internal/models"
)

// FormatBRL renders an amount the way the store reads it: R$ 1.234,56.
func FormatBRL(d decimal.Decimal) string {
	fixed := d.StringFixed(2)
	sign := ""
	if strings.HasPrefix(fixed, "-") {
		sign = "-"
		fixed = fixed[1:]
	}
	whole, frac, _ := strings.Cut(fixed, ".")
	return sign + "R$ " + groupThousands(whole) + "," + frac
}

// FormatCount renders an integer with dot thousands separators.
func FormatCount(n int) string {
	if n < 0 {
		return "-" + groupThousands(strconv.Itoa(-n))
	}
	return groupThousands(strconv.Itoa(n))
}

func FormatDate(t time.Time) string {
	return t.Format("02/01/2006")
}

func FormatClock(t models.TimeOfDay) string {
	return t.String()[:5]
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	head := len(digits) % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
