package domain

import "errors"

var (
	// Transaction errors
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrInvalidKind         = errors.New("kind must be income or expense")
	ErrInvalidAmount       = errors.New("amount must be a non-negative number")
	ErrInvalidDate         = errors.New("date must be formatted as YYYY-MM-DD")

	// Export errors
	ErrNoTransactions    = errors.New("no transactions to export")
	ErrUnsupportedFormat = errors.New("unsupported export format")
)
