package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/iho/porket/internal/domain"
	"github.com/iho/porket/internal/usecase"
)

type transactionServiceStub struct {
	createFn func(ctx context.Context, input usecase.CreateTransactionInput) (*usecase.CreateTransactionOutput, error)
	listFn   func(ctx context.Context, input usecase.ListTransactionsInput) (*domain.TransactionPage, error)
	deleteFn func(ctx context.Context, id string) (domain.ChangeEvent, error)
}

func (s *transactionServiceStub) CreateTransaction(ctx context.Context, input usecase.CreateTransactionInput) (*usecase.CreateTransactionOutput, error) {
	return s.createFn(ctx, input)
}

func (s *transactionServiceStub) ListTransactions(ctx context.Context, input usecase.ListTransactionsInput) (*domain.TransactionPage, error) {
	return s.listFn(ctx, input)
}

func (s *transactionServiceStub) DeleteTransaction(ctx context.Context, id string) (domain.ChangeEvent, error) {
	return s.deleteFn(ctx, id)
}

type reportServiceStub struct {
	summaryFn   func(ctx context.Context) (*domain.MonthlySummary, error)
	breakdownFn func(ctx context.Context) (*domain.CategoryBreakdown, error)
}

func (s *reportServiceStub) MonthlySummary(ctx context.Context) (*domain.MonthlySummary, error) {
	return s.summaryFn(ctx)
}

func (s *reportServiceStub) CategoryBreakdown(ctx context.Context) (*domain.CategoryBreakdown, error) {
	return s.breakdownFn(ctx)
}

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type staticIDGen struct{ id string }

func (g staticIDGen) Generate() string { return g.id }

var handlerNow = time.Date(2026, 10, 18, 14, 0, 0, 0, time.UTC)

func strPtr(s string) *string { return &s }

func sampleTransaction(id string, kind domain.Kind, amount string, occurredAt time.Time) *domain.Transaction {
	return &domain.Transaction{
		ID:         id,
		Kind:       kind,
		Amount:     decimal.RequireFromString(amount),
		OccurredAt: occurredAt,
		CreatedAt:  handlerNow,
	}
}

func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}
