package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/iho/porket/internal/adapter/http/dto"
	"github.com/iho/porket/internal/domain"
	"github.com/iho/porket/internal/usecase"
)

// ChangeSequenceHeader carries the sequence number of the change a
// mutating request caused.
const ChangeSequenceHeader = "X-Change-Sequence"

// TransactionService defines the behavior needed by TransactionHandler.
type TransactionService interface {
	CreateTransaction(ctx context.Context, input usecase.CreateTransactionInput) (*usecase.CreateTransactionOutput, error)
	ListTransactions(ctx context.Context, input usecase.ListTransactionsInput) (*domain.TransactionPage, error)
	DeleteTransaction(ctx context.Context, id string) (domain.ChangeEvent, error)
}

// TransactionHandler handles the transaction JSON API.
type TransactionHandler struct {
	transactionUC TransactionService
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(transactionUC TransactionService) *TransactionHandler {
	return &TransactionHandler{transactionUC: transactionUC}
}

// Create records a new transaction.
func (h *TransactionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	out, err := h.transactionUC.CreateTransaction(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, r, "failed to create transaction", err)
		return
	}

	w.Header().Set(ChangeSequenceHeader, strconv.FormatUint(out.Event.Sequence, 10))
	writeJSON(w, http.StatusCreated, dto.TransactionFromDomain(out.Transaction))
}

// List returns one page of transactions.
func (h *TransactionHandler) List(w http.ResponseWriter, r *http.Request) {
	page, err := h.transactionUC.ListTransactions(r.Context(), usecase.ListTransactionsInput{
		Page: parseIntQuery(r, "page", 1),
	})
	if err != nil {
		writeDomainError(w, r, "failed to list transactions", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionPageFromDomain(page))
}

// Delete removes a transaction by ID.
func (h *TransactionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing transaction ID", "")
		return
	}

	event, err := h.transactionUC.DeleteTransaction(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, "failed to delete transaction", err)
		return
	}

	w.Header().Set(ChangeSequenceHeader, strconv.FormatUint(event.Sequence, 10))
	w.WriteHeader(http.StatusNoContent)
}
