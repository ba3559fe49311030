package dto

import (
	"time"

	"github.com/iho/porket/internal/domain"
)

// TransactionResponse represents a transaction in API responses.
type TransactionResponse struct {
	ID         string    `json:"id"`
	Kind       string    `json:"kind"`
	Amount     string    `json:"amount"`
	Category   *string   `json:"category"`
	Note       *string   `json:"note"`
	OccurredAt string    `json:"occurred_at"`
	CreatedAt  time.Time `json:"created_at"`
}

// TransactionFromDomain converts a domain transaction to a response.
func TransactionFromDomain(tx *domain.Transaction) *TransactionResponse {
	return &TransactionResponse{
		ID:         tx.ID,
		Kind:       string(tx.Kind),
		Amount:     tx.Amount.StringFixed(domain.AmountScale),
		Category:   tx.Category,
		Note:       tx.Note,
		OccurredAt: tx.OccurredAt.Format(domain.DateLayout),
		CreatedAt:  tx.CreatedAt,
	}
}

// TransactionsFromDomain converts domain transactions to responses.
func TransactionsFromDomain(txs []*domain.Transaction) []*TransactionResponse {
	result := make([]*TransactionResponse, len(txs))
	for i, tx := range txs {
		result[i] = TransactionFromDomain(tx)
	}
	return result
}

// TransactionListResponse is one page of the transaction list.
type TransactionListResponse struct {
	Transactions []*TransactionResponse `json:"transactions"`
	Page         int                    `json:"page"`
	PerPage      int                    `json:"per_page"`
	Total        int                    `json:"total"`
	TotalPages   int                    `json:"total_pages"`
}

// TransactionPageFromDomain converts a page to a response.
func TransactionPageFromDomain(p *domain.TransactionPage) *TransactionListResponse {
	return &TransactionListResponse{
		Transactions: TransactionsFromDomain(p.Items),
		Page:         p.Number,
		PerPage:      domain.PageSize,
		Total:        p.Total,
		TotalPages:   p.TotalPages,
	}
}

// MonthlySummaryResponse represents the current month's totals.
type MonthlySummaryResponse struct {
	Month            string `json:"month"`
	MonthLabel       string `json:"month_label"`
	TotalIncome      string `json:"total_income"`
	TotalExpense     string `json:"total_expense"`
	NetBalance       string `json:"net_balance"`
	TransactionCount int    `json:"transaction_count"`
}

// MonthlySummaryFromDomain converts a summary to a response.
func MonthlySummaryFromDomain(s *domain.MonthlySummary) *MonthlySummaryResponse {
	return &MonthlySummaryResponse{
		Month:            s.Month.Format("2006-01"),
		MonthLabel:       s.MonthLabel(),
		TotalIncome:      s.TotalIncome.StringFixed(domain.AmountScale),
		TotalExpense:     s.TotalExpense.StringFixed(domain.AmountScale),
		NetBalance:       s.NetBalance.StringFixed(domain.AmountScale),
		TransactionCount: s.TransactionCount,
	}
}

// CategorySliceResponse is one category of the expense breakdown.
type CategorySliceResponse struct {
	Category   string  `json:"category"`
	Color      string  `json:"color"`
	Amount     string  `json:"amount"`
	Percentage float64 `json:"percentage"`
}

// CategoryBreakdownResponse represents the current month's expense breakdown.
type CategoryBreakdownResponse struct {
	Month      string                   `json:"month"`
	MonthLabel string                   `json:"month_label"`
	Total      string                   `json:"total"`
	Categories []*CategorySliceResponse `json:"categories"`
}

// CategoryBreakdownFromDomain converts a breakdown to a response.
func CategoryBreakdownFromDomain(b *domain.CategoryBreakdown) *CategoryBreakdownResponse {
	categories := make([]*CategorySliceResponse, len(b.Slices))
	for i, s := range b.Slices {
		categories[i] = &CategorySliceResponse{
			Category:   s.Category,
			Color:      s.Color,
			Amount:     s.Amount.StringFixed(domain.AmountScale),
			Percentage: s.Percentage,
		}
	}

	return &CategoryBreakdownResponse{
		Month:      b.Month.Format("2006-01"),
		MonthLabel: b.MonthLabel(),
		Total:      b.Total.StringFixed(domain.AmountScale),
		Categories: categories,
	}
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
