package usecase

import (
	"context"
	"fmt"

	"github.com/iho/porket/internal/domain"
)

// ReportUseCase computes the current-month summary and expense breakdown.
type ReportUseCase struct {
	repo  TransactionRepository
	clock Clock
}

// NewReportUseCase creates a new ReportUseCase.
func NewReportUseCase(repo TransactionRepository, clock Clock) *ReportUseCase {
	return &ReportUseCase{
		repo:  repo,
		clock: clock,
	}
}

// MonthlySummary sums income and expense of the current calendar month.
func (uc *ReportUseCase) MonthlySummary(ctx context.Context) (*domain.MonthlySummary, error) {
	from, to := domain.MonthRange(uc.clock.Now())

	txs, err := uc.selectMonth(ctx, domain.TransactionFilter{From: &from, To: &to})
	if err != nil {
		return nil, err
	}

	return domain.Summarize(from, txs), nil
}

// CategoryBreakdown groups the current month's expenses by category.
func (uc *ReportUseCase) CategoryBreakdown(ctx context.Context) (*domain.CategoryBreakdown, error) {
	from, to := domain.MonthRange(uc.clock.Now())
	expense := domain.KindExpense

	txs, err := uc.selectMonth(ctx, domain.TransactionFilter{Kind: &expense, From: &from, To: &to})
	if err != nil {
		return nil, err
	}

	return domain.BuildBreakdown(from, txs), nil
}

func (uc *ReportUseCase) selectMonth(ctx context.Context, filter domain.TransactionFilter) ([]*domain.Transaction, error) {
	queryCtx, cancel := context.WithTimeout(ctx, DefaultQueryTimeout)
	defer cancel()

	txs, err := uc.repo.Select(queryCtx, filter)
	if err != nil {
		return nil, fmt.Errorf("select month %s: %w", filter.From.Format("2006-01"), err)
	}

	return txs, nil
}
