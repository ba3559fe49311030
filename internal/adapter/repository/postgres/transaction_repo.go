package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/iho/porket/internal/domain"
	"github.com/iho/porket/internal/infrastructure/postgres/generated"
	"github.com/iho/porket/internal/usecase"
)

// TransactionRepository implements usecase.TransactionRepository.
type TransactionRepository struct {
	queries *generated.Queries
	idGen   usecase.IDGenerator
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(pool *pgxpool.Pool, idGen usecase.IDGenerator) *TransactionRepository {
	return newTransactionRepository(pool, idGen)
}

func newTransactionRepository(db generated.DBTX, idGen usecase.IDGenerator) *TransactionRepository {
	return &TransactionRepository{
		queries: generated.New(db),
		idGen:   idGen,
	}
}

// Insert stores tx. The database assigns created_at.
func (r *TransactionRepository) Insert(ctx context.Context, tx *domain.Transaction) error {
	row, err := r.queries.InsertTransaction(ctx, generated.InsertTransactionParams{
		ID:         r.idGen.Generate(),
		Kind:       string(tx.Kind),
		Amount:     decimalToNumeric(tx.Amount),
		Category:   textFromPtr(tx.Category),
		Note:       textFromPtr(tx.Note),
		OccurredAt: pgtype.Date{Time: tx.OccurredAt, Valid: true},
	})
	if err != nil {
		return err
	}

	stored, err := rowToTransaction(row)
	if err != nil {
		return err
	}
	*tx = *stored

	return nil
}

// Select returns the transactions matching filter, newest first.
func (r *TransactionRepository) Select(ctx context.Context, filter domain.TransactionFilter) ([]*domain.Transaction, error) {
	params := generated.SelectTransactionsParams{}
	if filter.Kind != nil {
		params.Kind = pgtype.Text{String: string(*filter.Kind), Valid: true}
	}
	if filter.From != nil {
		params.FromDate = pgtype.Date{Time: *filter.From, Valid: true}
	}
	if filter.To != nil {
		params.ToDate = pgtype.Date{Time: *filter.To, Valid: true}
	}

	rows, err := r.queries.SelectTransactions(ctx, params)
	if err != nil {
		return nil, err
	}

	txs := make([]*domain.Transaction, 0, len(rows))
	for _, row := range rows {
		tx, err := rowToTransaction(row)
		if err != nil {
			return nil, err
		}
		txs = append(txs, tx)
	}

	return txs, nil
}

// Delete removes the transaction with id.
func (r *TransactionRepository) Delete(ctx context.Context, id string) error {
	n, err := r.queries.DeleteTransaction(ctx, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrTransactionNotFound
	}

	return nil
}

func rowToTransaction(row generated.Transaction) (*domain.Transaction, error) {
	kind, err := domain.ParseKind(row.Kind)
	if err != nil {
		return nil, fmt.Errorf("row %s: %w", row.ID, err)
	}

	return &domain.Transaction{
		ID:         row.ID,
		Kind:       kind,
		Amount:     numericToDecimal(row.Amount),
		Category:   ptrFromText(row.Category),
		Note:       ptrFromText(row.Note),
		OccurredAt: domain.CivilDate(row.OccurredAt.Time),
		CreatedAt:  row.CreatedAt.Time.UTC(),
	}, nil
}

func decimalToNumeric(d decimal.Decimal) pgtype.Numeric {
	var n pgtype.Numeric

	_ = n.Scan(d.String())

	return n
}

func numericToDecimal(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid || n.Int == nil {
		return decimal.Zero
	}

	return decimal.NewFromBigInt(n.Int, n.Exp)
}

func textFromPtr(s *string) pgtype.Text {
	if s == nil {
		return pgtype.Text{}
	}
	return pgtype.Text{String: *s, Valid: true}
}

func ptrFromText(t pgtype.Text) *string {
	if !t.Valid {
		return nil
	}
	s := t.String
	return &s
}
