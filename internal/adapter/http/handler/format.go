package handler

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/porket/internal/domain"
)

const (
	currencySymbol  = "$"
	shortDateLayout = "Jan 2"
	longDateLayout  = "Jan 2, 2006"
)

// formatMoney renders the absolute value of d as "$1,234.50".
func formatMoney(d decimal.Decimal) string {
	s := d.Abs().StringFixed(domain.AmountScale)
	whole, frac, _ := strings.Cut(s, ".")
	return currencySymbol + groupThousands(whole) + "." + frac
}

// formatSignedAmount renders a transaction amount with its kind's sign,
// e.g. "-$12.50" or "+$100.00".
func formatSignedAmount(kind domain.Kind, d decimal.Decimal) string {
	return kind.Sign() + formatMoney(d)
}

// formatBalance renders d with a leading "-" only when negative.
func formatBalance(d decimal.Decimal) string {
	if d.IsNegative() {
		return "-" + formatMoney(d)
	}
	return formatMoney(d)
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
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// formatDateLabel renders a civil date relative to today: "Today",
// "Yesterday", "Jan 2" within the current year, "Jan 2, 2024" otherwise.
func formatDateLabel(date, now time.Time) string {
	today := domain.CivilDate(now)
	date = domain.CivilDate(date)

	switch {
	case date.Equal(today):
		return "Today"
	case date.Equal(today.AddDate(0, 0, -1)):
		return "Yesterday"
	case date.Year() == today.Year():
		return date.Format(shortDateLayout)
	default:
		return date.Format(longDateLayout)
	}
}

// formatPercent renders p with one decimal, e.g. "37.5%".
func formatPercent(p float64) string {
	return fmt.Sprintf("%.1f%%", p)
}

// pluralize returns "1 transaction" or "N transactions".
func pluralize(n int, singular, plural string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, singular)
	}
	return fmt.Sprintf("%d %s", n, plural)
}
