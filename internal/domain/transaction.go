package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the wire and storage layout of OccurredAt.
const DateLayout = "2006-01-02"

// UncategorizedLabel is shown for transactions without a category.
const UncategorizedLabel = "Uncategorized"

// Kind distinguishes money coming in from money going out.
type Kind string

const (
	KindIncome  Kind = "income"
	KindExpense Kind = "expense"
)

// ParseKind parses a transaction kind.
func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case KindIncome:
		return KindIncome, nil
	case KindExpense:
		return KindExpense, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidKind, s)
	}
}

// Sign returns the display sign of the kind.
func (k Kind) Sign() string {
	if k == KindExpense {
		return "-"
	}
	return "+"
}

func (k Kind) String() string { return string(k) }

// Transaction is a single income or expense record.
type Transaction struct {
	OccurredAt time.Time
	CreatedAt  time.Time
	Category   *string
	Note       *string
	ID         string
	Kind       Kind
	Amount     decimal.Decimal
}

// CategoryLabel returns the category or UncategorizedLabel when absent.
func (t *Transaction) CategoryLabel() string {
	if t.Category == nil || *t.Category == "" {
		return UncategorizedLabel
	}
	return *t.Category
}

// CategoryValue returns the category or an empty string.
func (t *Transaction) CategoryValue() string {
	if t.Category == nil {
		return ""
	}
	return *t.Category
}

// NoteValue returns the note or an empty string.
func (t *Transaction) NoteValue() string {
	if t.Note == nil {
		return ""
	}
	return *t.Note
}

// Validate validates a transaction before it is stored.
func (t *Transaction) Validate() error {
	if t.Kind != KindIncome && t.Kind != KindExpense {
		return fmt.Errorf("%w: %q", ErrInvalidKind, t.Kind)
	}

	if err := ValidateAmount(t.Amount); err != nil {
		return err
	}

	if t.OccurredAt.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidDate)
	}

	if err := ValidateText("category", t.Category, MaxCategoryLength); err != nil {
		return err
	}

	return ValidateText("note", t.Note, MaxNoteLength)
}

// NewTransactionInput is the raw user input of a transaction.
type NewTransactionInput struct {
	Kind       string
	Amount     string
	Category   string
	Note       string
	OccurredAt string
}

// NewTransaction parses and validates raw input.
// ID and CreatedAt are left empty for the store to assign.
func NewTransaction(in NewTransactionInput) (*Transaction, error) {
	kind, err := ParseKind(in.Kind)
	if err != nil {
		return nil, err
	}

	amount, err := ParseAmount(in.Amount)
	if err != nil {
		return nil, err
	}

	occurredAt, err := ParseDate(in.OccurredAt)
	if err != nil {
		return nil, err
	}

	tx := &Transaction{
		Kind:       kind,
		Amount:     amount,
		Category:   OptionalText(in.Category),
		Note:       OptionalText(in.Note),
		OccurredAt: occurredAt,
	}
	if err := tx.Validate(); err != nil {
		return nil, err
	}

	return tx, nil
}

// ParseDate parses a YYYY-MM-DD civil date as midnight UTC.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return d, nil
}

// CivilDate truncates t to its calendar date in t's location and
// returns it as midnight UTC, the representation used for OccurredAt.
func CivilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// OptionalText trims s and returns nil for an empty result.
func OptionalText(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// TransactionFilter narrows a select. Nil fields do not filter.
// From and To are inclusive bounds on OccurredAt.
type TransactionFilter struct {
	Kind *Kind
	From *time.Time
	To   *time.Time
}

// Matches reports whether tx satisfies the filter.
func (f TransactionFilter) Matches(tx *Transaction) bool {
	if f.Kind != nil && tx.Kind != *f.Kind {
		return false
	}
	if f.From != nil && tx.OccurredAt.Before(*f.From) {
		return false
	}
	if f.To != nil && tx.OccurredAt.After(*f.To) {
		return false
	}
	return true
}

// Less reports whether a sorts before b in list order:
// OccurredAt descending, then CreatedAt descending.
func Less(a, b *Transaction) bool {
	if !a.OccurredAt.Equal(b.OccurredAt) {
		return a.OccurredAt.After(b.OccurredAt)
	}
	return a.CreatedAt.After(b.CreatedAt)
}
