package domain

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Palette is the fixed slice palette, assigned by rank and cycled.
var Palette = []string{
	"#ef4444", // red
	"#f97316", // orange
	"#eab308", // yellow
	"#22c55e", // green
	"#06b6d4", // cyan
	"#3b82f6", // blue
	"#8b5cf6", // violet
	"#ec4899", // pink
	"#64748b", // slate
	"#78716c", // stone
}

// PaletteColor returns the colour for rank i.
func PaletteColor(i int) string {
	return Palette[i%len(Palette)]
}

// CategorySlice is one category's share of the month's expenses.
type CategorySlice struct {
	Category   string
	Color      string
	Amount     decimal.Decimal
	Percentage float64
}

// CategoryBreakdown is the expense distribution of one month.
type CategoryBreakdown struct {
	Month  time.Time
	Total  decimal.Decimal
	Slices []CategorySlice
}

// BuildBreakdown groups expense transactions by category, sorts the groups
// by amount descending (ties by name) and colours them by rank.
// Non-expense rows are ignored.
func BuildBreakdown(month time.Time, txs []*Transaction) *CategoryBreakdown {
	sums := make(map[string]decimal.Decimal)
	total := decimal.Zero

	for _, tx := range txs {
		if tx.Kind != KindExpense {
			continue
		}
		label := tx.CategoryLabel()
		sums[label] = sums[label].Add(tx.Amount)
		total = total.Add(tx.Amount)
	}

	slices := make([]CategorySlice, 0, len(sums))
	for category, amount := range sums {
		slices = append(slices, CategorySlice{Category: category, Amount: amount})
	}

	sort.Slice(slices, func(i, j int) bool {
		if c := slices[i].Amount.Cmp(slices[j].Amount); c != 0 {
			return c > 0
		}
		return slices[i].Category < slices[j].Category
	})

	hundred := decimal.NewFromInt(100)
	for i := range slices {
		slices[i].Color = PaletteColor(i)
		if total.IsPositive() {
			slices[i].Percentage = slices[i].Amount.Mul(hundred).Div(total).InexactFloat64()
		}
	}

	return &CategoryBreakdown{
		Month:  month,
		Total:  total,
		Slices: slices,
	}
}

// Empty reports whether there is nothing to chart.
func (b *CategoryBreakdown) Empty() bool {
	return len(b.Slices) == 0
}

// MonthLabel returns the month as "October 2026".
func (b *CategoryBreakdown) MonthLabel() string {
	return b.Month.Format(MonthLabelLayout)
}
