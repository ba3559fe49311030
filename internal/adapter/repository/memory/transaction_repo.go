// Package memory provides an in-process TransactionRepository for local
// runs and tests. Data does not survive a restart.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/iho/porket/internal/domain"
	"github.com/iho/porket/internal/usecase"
)

// TransactionRepository implements usecase.TransactionRepository in memory.
type TransactionRepository struct {
	mu    sync.RWMutex
	rows  map[string]domain.Transaction
	idGen usecase.IDGenerator
	now   func() time.Time
}

// NewTransactionRepository creates an empty TransactionRepository.
func NewTransactionRepository(idGen usecase.IDGenerator) *TransactionRepository {
	return &TransactionRepository{
		rows:  make(map[string]domain.Transaction),
		idGen: idGen,
		now:   time.Now,
	}
}

// Insert stores a copy of tx and assigns its ID and CreatedAt.
func (r *TransactionRepository) Insert(ctx context.Context, tx *domain.Transaction) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	tx.ID = r.idGen.Generate()
	tx.CreatedAt = r.now().UTC()
	r.rows[tx.ID] = cloneTransaction(*tx)

	return nil
}

// Select returns copies of the matching transactions, newest first.
func (r *TransactionRepository) Select(ctx context.Context, filter domain.TransactionFilter) ([]*domain.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var txs []*domain.Transaction
	for _, row := range r.rows {
		if !filter.Matches(&row) {
			continue
		}
		tx := cloneTransaction(row)
		txs = append(txs, &tx)
	}

	sort.Slice(txs, func(i, j int) bool {
		a, b := txs[i], txs[j]
		if a.OccurredAt.Equal(b.OccurredAt) && a.CreatedAt.Equal(b.CreatedAt) {
			return a.ID > b.ID
		}
		return domain.Less(a, b)
	})

	return txs, nil
}

// Delete removes the transaction with id.
func (r *TransactionRepository) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rows[id]; !ok {
		return domain.ErrTransactionNotFound
	}
	delete(r.rows, id)

	return nil
}

func cloneTransaction(tx domain.Transaction) domain.Transaction {
	if tx.Category != nil {
		c := *tx.Category
		tx.Category = &c
	}
	if tx.Note != nil {
		n := *tx.Note
		tx.Note = &n
	}
	return tx
}
