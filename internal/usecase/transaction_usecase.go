package usecase

import (
	"context"
	"fmt"

	"github.com/iho/porket/internal/domain"
)

// TransactionUseCase handles recording, listing and deleting transactions.
type TransactionUseCase struct {
	repo     TransactionRepository
	notifier ChangeNotifier
	clock    Clock
}

// NewTransactionUseCase creates a new TransactionUseCase.
func NewTransactionUseCase(repo TransactionRepository, notifier ChangeNotifier, clock Clock) *TransactionUseCase {
	return &TransactionUseCase{
		repo:     repo,
		notifier: notifier,
		clock:    clock,
	}
}

// CreateTransactionInput is the raw form input of a new transaction.
type CreateTransactionInput struct {
	Kind       string
	Amount     string
	Category   string
	Note       string
	OccurredAt string
}

// CreateTransactionOutput carries the stored row and the change it caused.
type CreateTransactionOutput struct {
	Transaction *domain.Transaction
	Event       domain.ChangeEvent
}

// ListTransactionsInput selects one page of the full list.
type ListTransactionsInput struct {
	Page int
}

// CreateTransaction validates the input and issues exactly one insert.
func (uc *TransactionUseCase) CreateTransaction(ctx context.Context, input CreateTransactionInput) (*CreateTransactionOutput, error) {
	tx, err := domain.NewTransaction(domain.NewTransactionInput{
		Kind:       input.Kind,
		Amount:     input.Amount,
		Category:   input.Category,
		Note:       input.Note,
		OccurredAt: input.OccurredAt,
	})
	if err != nil {
		return nil, err
	}

	queryCtx, cancel := context.WithTimeout(ctx, DefaultQueryTimeout)
	defer cancel()

	if err := uc.repo.Insert(queryCtx, tx); err != nil {
		return nil, fmt.Errorf("insert transaction: %w", err)
	}

	event := uc.notify(ctx, domain.EventTypeTransactionCreated, tx.ID)

	return &CreateTransactionOutput{Transaction: tx, Event: event}, nil
}

// ListTransactions fetches the whole ordered set and slices out one page.
// Out-of-range pages are clamped.
func (uc *TransactionUseCase) ListTransactions(ctx context.Context, input ListTransactionsInput) (*domain.TransactionPage, error) {
	all, err := uc.All(ctx)
	if err != nil {
		return nil, err
	}

	return domain.Paginate(all, input.Page), nil
}

// All returns every transaction in list order.
func (uc *TransactionUseCase) All(ctx context.Context) ([]*domain.Transaction, error) {
	queryCtx, cancel := context.WithTimeout(ctx, DefaultQueryTimeout)
	defer cancel()

	all, err := uc.repo.Select(queryCtx, domain.TransactionFilter{})
	if err != nil {
		return nil, fmt.Errorf("select transactions: %w", err)
	}

	return all, nil
}

// DeleteTransaction deletes one transaction by id.
func (uc *TransactionUseCase) DeleteTransaction(ctx context.Context, id string) (domain.ChangeEvent, error) {
	if err := domain.ValidateID(id); err != nil {
		return domain.ChangeEvent{}, err
	}

	queryCtx, cancel := context.WithTimeout(ctx, DefaultQueryTimeout)
	defer cancel()

	if err := uc.repo.Delete(queryCtx, id); err != nil {
		return domain.ChangeEvent{}, fmt.Errorf("delete transaction %s: %w", id, err)
	}

	return uc.notify(ctx, domain.EventTypeTransactionDeleted, id), nil
}

func (uc *TransactionUseCase) notify(ctx context.Context, eventType, id string) domain.ChangeEvent {
	event := domain.ChangeEvent{
		Type:          eventType,
		TransactionID: id,
		At:            uc.clock.Now(),
	}

	if uc.notifier == nil {
		return event
	}

	return uc.notifier.Notify(ctx, event)
}
