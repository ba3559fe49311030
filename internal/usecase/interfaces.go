package usecase

import (
	"context"
	"time"

	"github.com/iho/porket/internal/domain"
)

// TransactionRepository is the data service over the transactions table.
type TransactionRepository interface {
	// Insert stores tx and assigns its ID and CreatedAt.
	Insert(ctx context.Context, tx *domain.Transaction) error
	// Select returns the rows matching filter ordered by
	// occurred_at DESC, created_at DESC.
	Select(ctx context.Context, filter domain.TransactionFilter) ([]*domain.Transaction, error)
	// Delete removes the row with id or returns domain.ErrTransactionNotFound.
	Delete(ctx context.Context, id string) error
}

// ChangeNotifier broadcasts that the transaction set changed.
// Notify stamps the event with the next sequence number and returns it.
type ChangeNotifier interface {
	Notify(ctx context.Context, event domain.ChangeEvent) domain.ChangeEvent
}

// ExportEncoder renders transactions into one export format.
type ExportEncoder interface {
	Format() domain.ExportFormat
	ContentType() string
	Encode(txs []*domain.Transaction, exportedAt time.Time) ([]byte, error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Clock returns the current time in the user's calendar location.
type Clock interface {
	Now() time.Time
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
	// Release removes the key so a failed request can be retried.
	Release(ctx context.Context, key string) error
}
