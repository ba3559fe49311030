package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/porket/internal/domain"
	"github.com/iho/porket/internal/usecase"
)

// createdAtLayout is fixed width so text order matches time order.
const createdAtLayout = "2006-01-02T15:04:05.000000Z"

const insertTransaction = `
INSERT INTO transactions (id, kind, amount, category, note, occurred_at, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?)`

const selectTransactions = `
SELECT id, kind, amount, category, note, occurred_at, created_at FROM transactions
WHERE (?1 IS NULL OR kind = ?1)
  AND (?2 IS NULL OR occurred_at >= ?2)
  AND (?3 IS NULL OR occurred_at <= ?3)
ORDER BY occurred_at DESC, created_at DESC`

const deleteTransaction = `DELETE FROM transactions WHERE id = ?`

// TransactionRepository implements usecase.TransactionRepository on SQLite.
type TransactionRepository struct {
	db    *sql.DB
	idGen usecase.IDGenerator
	now   func() time.Time
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(db *sql.DB, idGen usecase.IDGenerator) *TransactionRepository {
	return &TransactionRepository{
		db:    db,
		idGen: idGen,
		now:   time.Now,
	}
}

// Insert stores tx and assigns its ID and CreatedAt.
func (r *TransactionRepository) Insert(ctx context.Context, tx *domain.Transaction) error {
	id := r.idGen.Generate()
	createdAt := r.now().UTC().Truncate(time.Microsecond)

	_, err := r.db.ExecContext(ctx, insertTransaction,
		id,
		string(tx.Kind),
		tx.Amount.String(),
		nullString(tx.Category),
		nullString(tx.Note),
		tx.OccurredAt.Format(domain.DateLayout),
		createdAt.Format(createdAtLayout),
	)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}

	tx.ID = id
	tx.CreatedAt = createdAt

	return nil
}

// Select returns the transactions matching filter, newest first.
func (r *TransactionRepository) Select(ctx context.Context, filter domain.TransactionFilter) ([]*domain.Transaction, error) {
	var kind, from, to sql.NullString
	if filter.Kind != nil {
		kind = sql.NullString{String: string(*filter.Kind), Valid: true}
	}
	if filter.From != nil {
		from = sql.NullString{String: filter.From.Format(domain.DateLayout), Valid: true}
	}
	if filter.To != nil {
		to = sql.NullString{String: filter.To.Format(domain.DateLayout), Valid: true}
	}

	rows, err := r.db.QueryContext(ctx, selectTransactions, kind, from, to)
	if err != nil {
		return nil, fmt.Errorf("select transactions: %w", err)
	}
	defer rows.Close()

	var txs []*domain.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txs = append(txs, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}

	return txs, nil
}

// Delete removes the transaction with id.
func (r *TransactionRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, deleteTransaction, id)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	if n == 0 {
		return domain.ErrTransactionNotFound
	}

	return nil
}

// Ping reports whether the database is reachable.
func (r *TransactionRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func scanTransaction(rows *sql.Rows) (*domain.Transaction, error) {
	var (
		id, kind, amount, occurredAt, createdAt string
		category, note                          sql.NullString
	)
	if err := rows.Scan(&id, &kind, &amount, &category, &note, &occurredAt, &createdAt); err != nil {
		return nil, fmt.Errorf("scan transaction: %w", err)
	}

	k, err := domain.ParseKind(kind)
	if err != nil {
		return nil, fmt.Errorf("row %s: %w", id, err)
	}
	amt, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("row %s: amount %q: %w", id, amount, err)
	}
	occurred, err := domain.ParseDate(occurredAt)
	if err != nil {
		return nil, fmt.Errorf("row %s: %w", id, err)
	}
	created, err := time.Parse(createdAtLayout, createdAt)
	if err != nil {
		return nil, fmt.Errorf("row %s: created_at %q: %w", id, createdAt, err)
	}

	return &domain.Transaction{
		ID:         id,
		Kind:       k,
		Amount:     amt,
		Category:   stringPtr(category),
		Note:       stringPtr(note),
		OccurredAt: occurred,
		CreatedAt:  created,
	}, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}
