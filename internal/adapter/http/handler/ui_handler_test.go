package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/porket/internal/domain"
	"github.com/iho/porket/internal/usecase"
	"github.com/iho/porket/web"
)

func emptyTransactions() *transactionServiceStub {
	return &transactionServiceStub{
		listFn: func(ctx context.Context, input usecase.ListTransactionsInput) (*domain.TransactionPage, error) {
			return domain.Paginate(nil, input.Page), nil
		},
	}
}

func emptyReports() *reportServiceStub {
	return &reportServiceStub{
		summaryFn: func(ctx context.Context) (*domain.MonthlySummary, error) {
			return domain.Summarize(october, nil), nil
		},
		breakdownFn: func(ctx context.Context) (*domain.CategoryBreakdown, error) {
			return domain.BuildBreakdown(october, nil), nil
		},
	}
}

func newTestUIHandler(t *testing.T, txs *transactionServiceStub, reports *reportServiceStub) *UIHandler {
	t.Helper()
	h, err := NewUIHandler(UIConfig{
		Transactions: txs,
		Reports:      reports,
		Clock:        fixedClock{now: handlerNow},
		IDGen:        staticIDGen{id: "01IDEMPOTENCYKEY"},
		Formats:      []domain.ExportFormat{domain.ExportCSV, domain.ExportJSON},
		Templates:    web.TemplatesFS,
	})
	require.NoError(t, err)
	return h
}

func decodeTriggers(t *testing.T, rec *httptest.ResponseRecorder) map[string]map[string]any {
	t.Helper()
	raw := rec.Header().Get("HX-Trigger")
	require.NotEmpty(t, raw, "expected HX-Trigger header")

	var triggers map[string]map[string]any
	require.NoError(t, json.Unmarshal([]byte(raw), &triggers))
	return triggers
}

func postForm(target string, values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func fourTransactions() []*domain.Transaction {
	today := domain.CivilDate(handlerNow)
	food := "Food"
	first := sampleTransaction("01D", domain.KindExpense, "12.5", today)
	first.Category = &food
	return []*domain.Transaction{
		first,
		sampleTransaction("01C", domain.KindIncome, "1000", today.AddDate(0, 0, -1)),
		sampleTransaction("01B", domain.KindExpense, "40", today.AddDate(0, 0, -5)),
		sampleTransaction("01A", domain.KindExpense, "5", time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC)),
	}
}

func TestUIHandler_Index(t *testing.T) {
	h := newTestUIHandler(t, emptyTransactions(), emptyReports())

	rec := httptest.NewRecorder()
	h.Index(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))

	body := rec.Body.String()
	assert.Contains(t, body, "<title>Porket</title>")
	assert.Contains(t, body, `id="transaction-form"`)
	assert.Contains(t, body, "No transactions yet")
	assert.Contains(t, body, "October 2026")
	assert.Contains(t, body, "No expense data for October 2026")
	assert.Contains(t, body, `data-export-format="csv"`)
	assert.Contains(t, body, "Export JSON")
	assert.NotContains(t, body, `data-export-format="xlsx"`)
}

func TestUIHandler_Index_PartialFailures(t *testing.T) {
	txs := &transactionServiceStub{
		listFn: func(ctx context.Context, input usecase.ListTransactionsInput) (*domain.TransactionPage, error) {
			return nil, errors.New("db down")
		},
	}
	reports := &reportServiceStub{
		summaryFn: func(ctx context.Context) (*domain.MonthlySummary, error) {
			return nil, errors.New("db down")
		},
		breakdownFn: func(ctx context.Context) (*domain.CategoryBreakdown, error) {
			return nil, errors.New("db down")
		},
	}
	h := newTestUIHandler(t, txs, reports)

	rec := httptest.NewRecorder()
	h.Index(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Could not load transactions.")
	assert.Contains(t, body, "Could not load the monthly summary.")
	assert.Contains(t, body, "Could not load the expense chart.")
	assert.Contains(t, body, `id="transaction-form"`)
}

func TestUIHandler_Form(t *testing.T) {
	h := newTestUIHandler(t, emptyTransactions(), emptyReports())

	rec := httptest.NewRecorder()
	h.Form(rec, httptest.NewRequest(http.MethodGet, "/ui/form", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `value="2026-10-18"`)
	assert.Contains(t, body, "01IDEMPOTENCYKEY")
	assert.Contains(t, body, `value="expense" checked`)
}

func TestUIHandler_CreateTransaction(t *testing.T) {
	var captured usecase.CreateTransactionInput
	txs := emptyTransactions()
	txs.createFn = func(ctx context.Context, input usecase.CreateTransactionInput) (*usecase.CreateTransactionOutput, error) {
		captured = input
		return &usecase.CreateTransactionOutput{
			Transaction: sampleTransaction("01NEW", domain.KindIncome, "100", domain.CivilDate(handlerNow)),
			Event:       domain.ChangeEvent{Type: domain.EventTypeTransactionCreated, Sequence: 5},
		}, nil
	}
	h := newTestUIHandler(t, txs, emptyReports())

	rec := httptest.NewRecorder()
	h.CreateTransaction(rec, postForm("/ui/transactions", url.Values{
		"kind":        {"income"},
		"amount":      {"100"},
		"category":    {"Salary"},
		"note":        {"October"},
		"occurred_at": {"2026-10-18"},
	}))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, usecase.CreateTransactionInput{
		Kind: "income", Amount: "100", Category: "Salary", Note: "October", OccurredAt: "2026-10-18",
	}, captured)

	triggers := decodeTriggers(t, rec)
	assert.Equal(t, float64(5), triggers[EventTransactionsCreated]["sequence"])
	assert.Equal(t, "5", rec.Header().Get(ChangeSequenceHeader))
	assert.Empty(t, rec.Header().Get("HX-Reswap"))
	assert.Contains(t, rec.Body.String(), `id="transaction-form"`)
}

func TestUIHandler_CreateTransaction_Failure(t *testing.T) {
	txs := emptyTransactions()
	txs.createFn = func(ctx context.Context, input usecase.CreateTransactionInput) (*usecase.CreateTransactionOutput, error) {
		return nil, domain.ErrInvalidAmount
	}
	h := newTestUIHandler(t, txs, emptyReports())

	rec := httptest.NewRecorder()
	h.CreateTransaction(rec, postForm("/ui/transactions", url.Values{"kind": {"expense"}, "amount": {"-1"}}))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "none", rec.Header().Get("HX-Reswap"))
	assert.Empty(t, rec.Header().Get(ChangeSequenceHeader))

	triggers := decodeTriggers(t, rec)
	assert.Equal(t, AlertCreateFailed, triggers[EventAlert]["message"])
	assert.NotContains(t, triggers, EventTransactionsCreated)
	assert.Empty(t, rec.Body.String())
}

func TestUIHandler_List(t *testing.T) {
	all := fourTransactions()
	var requested int
	txs := &transactionServiceStub{
		listFn: func(ctx context.Context, input usecase.ListTransactionsInput) (*domain.TransactionPage, error) {
			requested = input.Page
			return domain.Paginate(all, input.Page), nil
		},
	}
	h := newTestUIHandler(t, txs, emptyReports())

	rec := httptest.NewRecorder()
	h.List(rec, httptest.NewRequest(http.MethodGet, "/ui/transactions", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, requested)

	body := rec.Body.String()
	assert.Contains(t, body, "Today")
	assert.Contains(t, body, "Yesterday")
	assert.Contains(t, body, "Oct 13")
	assert.Contains(t, body, "-$12.50")
	assert.Contains(t, body, "+$1,000.00")
	assert.Contains(t, body, "Food")
	assert.Contains(t, body, "Showing 1 - 3 of 4 transactions")
	assert.Contains(t, body, `hx-delete="/ui/transactions/01D?page=1"`)
	assert.NotContains(t, body, "01A")
}

func TestUIHandler_List_SecondPage(t *testing.T) {
	all := fourTransactions()
	txs := &transactionServiceStub{
		listFn: func(ctx context.Context, input usecase.ListTransactionsInput) (*domain.TransactionPage, error) {
			return domain.Paginate(all, input.Page), nil
		},
	}
	h := newTestUIHandler(t, txs, emptyReports())

	rec := httptest.NewRecorder()
	h.List(rec, httptest.NewRequest(http.MethodGet, "/ui/transactions?page=2", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Dec 31, 2025")
	assert.Contains(t, body, "Showing 4 - 4 of 4 transactions")
	assert.Contains(t, body, `hx-delete="/ui/transactions/01A?page=2"`)

	// A new transaction sorts first, so the refresh always reloads page 1.
	assert.Equal(t, "/ui/transactions?page=1", listRefreshURL(t, body))
}

// listRefreshURL returns the hx-get of the list container element.
func listRefreshURL(t *testing.T, body string) string {
	t.Helper()

	start := strings.Index(body, `id="transaction-list"`)
	require.GreaterOrEqual(t, start, 0, "list container not rendered")
	tag, _, _ := strings.Cut(body[start:], ">")

	_, rest, found := strings.Cut(tag, `hx-get="`)
	require.True(t, found, "list container has no hx-get")
	target, _, _ := strings.Cut(rest, `"`)
	return target
}

func TestUIHandler_DeleteTransaction(t *testing.T) {
	all := fourTransactions()
	var deleted string
	var requested int
	txs := &transactionServiceStub{
		listFn: func(ctx context.Context, input usecase.ListTransactionsInput) (*domain.TransactionPage, error) {
			requested = input.Page
			return domain.Paginate(all[:3], input.Page), nil
		},
		deleteFn: func(ctx context.Context, id string) (domain.ChangeEvent, error) {
			deleted = id
			return domain.ChangeEvent{Type: domain.EventTypeTransactionDeleted, TransactionID: id, Sequence: 9}, nil
		},
	}
	h := newTestUIHandler(t, txs, emptyReports())

	req := withURLParam(httptest.NewRequest(http.MethodDelete, "/ui/transactions/01A?page=2", nil), "id", "01A")
	rec := httptest.NewRecorder()
	h.DeleteTransaction(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "01A", deleted)
	assert.Equal(t, 2, requested)

	triggers := decodeTriggers(t, rec)
	assert.Equal(t, float64(9), triggers[EventTransactionsDeleted]["sequence"])
	assert.Equal(t, "9", rec.Header().Get(ChangeSequenceHeader))

	// Page 2 no longer exists, so the list falls back to page 1.
	body := rec.Body.String()
	assert.Contains(t, body, `id="transaction-list"`)
	assert.Contains(t, body, `hx-delete="/ui/transactions/01B?page=1"`)
	assert.NotContains(t, body, "Showing")
}

func TestUIHandler_DeleteTransaction_Failure(t *testing.T) {
	txs := emptyTransactions()
	txs.deleteFn = func(ctx context.Context, id string) (domain.ChangeEvent, error) {
		return domain.ChangeEvent{}, errors.New("timeout")
	}
	h := newTestUIHandler(t, txs, emptyReports())

	req := withURLParam(httptest.NewRequest(http.MethodDelete, "/ui/transactions/01A", nil), "id", "01A")
	rec := httptest.NewRecorder()
	h.DeleteTransaction(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "none", rec.Header().Get("HX-Reswap"))

	triggers := decodeTriggers(t, rec)
	assert.Equal(t, AlertDeleteFailed, triggers[EventAlert]["message"])
	assert.Empty(t, rec.Body.String())
}

func TestUIHandler_Summary(t *testing.T) {
	reports := emptyReports()
	reports.summaryFn = func(ctx context.Context) (*domain.MonthlySummary, error) {
		return &domain.MonthlySummary{
			Month:            october,
			TotalIncome:      decimal.NewFromInt(100),
			TotalExpense:     decimal.RequireFromString("250.75"),
			NetBalance:       decimal.RequireFromString("-150.75"),
			TransactionCount: 1,
		}, nil
	}
	h := newTestUIHandler(t, emptyTransactions(), reports)

	rec := httptest.NewRecorder()
	h.Summary(rec, httptest.NewRequest(http.MethodGet, "/ui/summary", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "$100.00")
	assert.Contains(t, body, "$250.75")
	assert.Contains(t, body, "-$150.75")
	assert.Contains(t, body, "card-net negative")
	assert.Contains(t, body, "1 transaction this month")
	assert.Contains(t, body, "transactions:created from:body, transactions:deleted from:body")
}

func TestUIHandler_Chart(t *testing.T) {
	food := "Food"
	reports := emptyReports()
	reports.breakdownFn = func(ctx context.Context) (*domain.CategoryBreakdown, error) {
		return domain.BuildBreakdown(october, []*domain.Transaction{
			{Kind: domain.KindExpense, Amount: decimal.NewFromInt(30), Category: &food},
			{Kind: domain.KindExpense, Amount: decimal.NewFromInt(10)},
		}), nil
	}
	h := newTestUIHandler(t, emptyTransactions(), reports)

	rec := httptest.NewRecorder()
	h.Chart(rec, httptest.NewRequest(http.MethodGet, "/ui/chart", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Equal(t, 2, strings.Count(body, "<path "))
	assert.Contains(t, body, "Food")
	assert.Contains(t, body, domain.UncategorizedLabel)
	assert.Contains(t, body, "75.0%")
	assert.Contains(t, body, "$40.00")
	assert.Contains(t, body, domain.Palette[0])
}

func TestNewUIHandler_BadTemplates(t *testing.T) {
	_, err := NewUIHandler(UIConfig{
		Clock:     fixedClock{now: handlerNow},
		IDGen:     staticIDGen{id: "x"},
		Templates: fstest.MapFS{},
	})
	assert.Error(t, err)
}
