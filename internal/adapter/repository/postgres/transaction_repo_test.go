package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/porket/internal/domain"
)

type fixedIDGen struct{ id string }

func (g fixedIDGen) Generate() string { return g.id }

var transactionColumns = []string{"id", "kind", "amount", "category", "note", "occurred_at", "created_at"}

func TestTransactionRepository_Insert(t *testing.T) {
	mockPool := newMockPool(t)
	createdAt := time.Date(2026, 10, 18, 9, 30, 0, 0, time.UTC)

	mockPool.ExpectQuery("INSERT INTO transactions").
		WithArgs("01JTEST", "expense", pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows(transactionColumns).
			AddRow("01JTEST", "expense", "12.50", "Food", nil, "2026-10-18", createdAt))

	repo := newTransactionRepository(mockPool, fixedIDGen{id: "01JTEST"})
	food := "Food"
	tx := &domain.Transaction{
		Kind:       domain.KindExpense,
		Amount:     decimal.RequireFromString("12.50"),
		Category:   &food,
		OccurredAt: time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC),
	}

	require.NoError(t, repo.Insert(context.Background(), tx))

	assert.Equal(t, "01JTEST", tx.ID)
	assert.True(t, tx.Amount.Equal(decimal.RequireFromString("12.5")))
	assert.Equal(t, "Food", tx.CategoryValue())
	assert.Nil(t, tx.Note)
	assert.Equal(t, createdAt, tx.CreatedAt)
	assert.Equal(t, "2026-10-18", tx.OccurredAt.Format(domain.DateLayout))

	assertExpectations(t, mockPool)
}

func TestTransactionRepository_InsertError(t *testing.T) {
	mockPool := newMockPool(t)
	dbErr := errors.New("connection reset")

	mockPool.ExpectQuery("INSERT INTO transactions").WillReturnError(dbErr)

	repo := newTransactionRepository(mockPool, fixedIDGen{id: "01JTEST"})
	err := repo.Insert(context.Background(), &domain.Transaction{Kind: domain.KindIncome})

	assert.ErrorIs(t, err, dbErr)
	assertExpectations(t, mockPool)
}

func TestTransactionRepository_SelectWithFilter(t *testing.T) {
	mockPool := newMockPool(t)
	from := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 10, 31, 0, 0, 0, 0, time.UTC)
	kind := domain.KindExpense

	mockPool.ExpectQuery("SELECT (.+) FROM transactions").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows(transactionColumns).
			AddRow("01B", "expense", "40", "Rent", "october", "2026-10-18", time.Date(2026, 10, 18, 10, 0, 0, 0, time.UTC)).
			AddRow("01A", "expense", "3.75", nil, nil, "2026-10-02", time.Date(2026, 10, 2, 8, 0, 0, 0, time.UTC)))

	repo := newTransactionRepository(mockPool, fixedIDGen{})
	txs, err := repo.Select(context.Background(), domain.TransactionFilter{Kind: &kind, From: &from, To: &to})
	require.NoError(t, err)
	require.Len(t, txs, 2)

	assert.Equal(t, "01B", txs[0].ID)
	assert.Equal(t, "october", txs[0].NoteValue())
	assert.Equal(t, domain.UncategorizedLabel, txs[1].CategoryLabel())
	assert.True(t, txs[1].Amount.Equal(decimal.RequireFromString("3.75")))

	assertExpectations(t, mockPool)
}

func TestTransactionRepository_SelectRejectsUnknownKind(t *testing.T) {
	mockPool := newMockPool(t)

	mockPool.ExpectQuery("SELECT (.+) FROM transactions").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows(transactionColumns).
			AddRow("01X", "transfer", "1", nil, nil, "2026-10-18", time.Now()))

	repo := newTransactionRepository(mockPool, fixedIDGen{})
	_, err := repo.Select(context.Background(), domain.TransactionFilter{})

	assert.ErrorIs(t, err, domain.ErrInvalidKind)
}

func TestTransactionRepository_Delete(t *testing.T) {
	mockPool := newMockPool(t)

	mockPool.ExpectExec("DELETE FROM transactions").
		WithArgs("01A").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	repo := newTransactionRepository(mockPool, fixedIDGen{})
	require.NoError(t, repo.Delete(context.Background(), "01A"))

	assertExpectations(t, mockPool)
}

func TestTransactionRepository_DeleteNotFound(t *testing.T) {
	mockPool := newMockPool(t)

	mockPool.ExpectExec("DELETE FROM transactions").
		WithArgs("missing").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	repo := newTransactionRepository(mockPool, fixedIDGen{})
	err := repo.Delete(context.Background(), "missing")

	assert.ErrorIs(t, err, domain.ErrTransactionNotFound)
	assertExpectations(t, mockPool)
}

func TestNumericConversionRoundTrip(t *testing.T) {
	for _, s := range []string{"0", "0.01", "12.5", "1000000000000"} {
		d := decimal.RequireFromString(s)
		got := numericToDecimal(decimalToNumeric(d))
		assert.True(t, d.Equal(got), "round trip of %s gave %s", s, got)
	}
}

func newMockPool(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	pool, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create pgxmock pool: %v", err)
	}
	t.Cleanup(pool.Close)
	return pool
}

func assertExpectations(t *testing.T, pool pgxmock.PgxPoolIface) {
	t.Helper()
	if err := pool.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations were not met: %v", err)
	}
}
