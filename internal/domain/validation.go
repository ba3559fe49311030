package domain

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// Validation errors
var (
	ErrAmountTooLarge  = errors.New("amount exceeds maximum allowed")
	ErrAmountPrecision = errors.New("amount has more than two decimal places")
	ErrTextTooLong     = errors.New("text exceeds maximum length")
	ErrInvalidIDFormat = errors.New("invalid ID format")
)

// Validation constants
const (
	MaxAmount         = "1000000000000" // 1 trillion
	AmountScale       = 2               // cents, the form's step=0.01
	MaxCategoryLength = 100
	MaxNoteLength     = 500
	MaxIDLength       = 64
)

var maxAmount = decimal.RequireFromString(MaxAmount)

// ParseAmount parses the decimal string submitted by the form.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, fmt.Errorf("%w: amount is required", ErrInvalidAmount)
	}

	amount, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}

	if err := ValidateAmount(amount); err != nil {
		return decimal.Zero, err
	}

	return amount, nil
}

// ValidateAmount validates a transaction amount. Zero is allowed.
func ValidateAmount(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return ErrInvalidAmount
	}

	if !amount.Equal(amount.Truncate(AmountScale)) {
		return ErrAmountPrecision
	}

	if amount.GreaterThan(maxAmount) {
		return fmt.Errorf("%w: maximum amount is %s", ErrAmountTooLarge, MaxAmount)
	}

	return nil
}

// ValidateText validates an optional free-text field.
func ValidateText(field string, value *string, maxLen int) error {
	if value == nil {
		return nil
	}

	if n := utf8.RuneCountInString(*value); n > maxLen {
		return fmt.Errorf("%w: %s has %d characters, limit is %d", ErrTextTooLong, field, n, maxLen)
	}

	return nil
}

// ValidateID validates a transaction ID taken from a URL.
func ValidateID(id string) error {
	id = strings.TrimSpace(id)
	if id == "" || len(id) > MaxIDLength {
		return ErrInvalidIDFormat
	}

	if strings.ContainsAny(id, " /?#") {
		return ErrInvalidIDFormat
	}

	return nil
}
