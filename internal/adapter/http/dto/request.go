package dto

import (
	"encoding/json"

	"github.com/iho/porket/internal/usecase"
)

// CreateTransactionRequest represents a request to record a transaction.
// Amount accepts a JSON number or a numeric string.
type CreateTransactionRequest struct {
	Kind       string      `json:"kind"`
	Amount     json.Number `json:"amount"`
	Category   string      `json:"category,omitempty"`
	Note       string      `json:"note,omitempty"`
	OccurredAt string      `json:"occurred_at"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateTransactionRequest) ToUseCaseInput() usecase.CreateTransactionInput {
	return usecase.CreateTransactionInput{
		Kind:       r.Kind,
		Amount:     r.Amount.String(),
		Category:   r.Category,
		Note:       r.Note,
		OccurredAt: r.OccurredAt,
	}
}
