package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// MonthLabelLayout renders a month as "October 2026".
const MonthLabelLayout = "January 2006"

// MonthRange returns the first and last calendar day of the month
// containing now, evaluated in now's location, as OccurredAt values.
func MonthRange(now time.Time) (from, to time.Time) {
	y, m, _ := now.Date()
	from = time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
	to = from.AddDate(0, 1, -1)
	return from, to
}

// MonthlySummary aggregates one calendar month.
type MonthlySummary struct {
	Month            time.Time
	TotalIncome      decimal.Decimal
	TotalExpense     decimal.Decimal
	NetBalance       decimal.Decimal
	TransactionCount int
}

// Summarize reduces txs into a MonthlySummary for month.
func Summarize(month time.Time, txs []*Transaction) *MonthlySummary {
	s := &MonthlySummary{
		Month:        month,
		TotalIncome:  decimal.Zero,
		TotalExpense: decimal.Zero,
	}

	for _, tx := range txs {
		switch tx.Kind {
		case KindIncome:
			s.TotalIncome = s.TotalIncome.Add(tx.Amount)
		case KindExpense:
			s.TotalExpense = s.TotalExpense.Add(tx.Amount)
		}
	}

	s.NetBalance = s.TotalIncome.Sub(s.TotalExpense)
	s.TransactionCount = len(txs)

	return s
}

// MonthLabel returns the month as "October 2026".
func (s *MonthlySummary) MonthLabel() string {
	return s.Month.Format(MonthLabelLayout)
}
