package domain

import "time"

// Event types
const (
	EventTypeTransactionCreated = "transaction.created"
	EventTypeTransactionDeleted = "transaction.deleted"
)

// ChangeEvent tells observers that the transaction set changed and every
// derived view must be reloaded. Sequence increases monotonically per
// process so observers can drop stale refreshes.
type ChangeEvent struct {
	At            time.Time `json:"at"`
	Type          string    `json:"type"`
	TransactionID string    `json:"transaction_id"`
	Sequence      uint64    `json:"sequence"`
}

// TransactionChangedPayload is the message body published for a change.
type TransactionChangedPayload struct {
	Sequence      uint64 `json:"sequence"`
	Type          string `json:"type"`
	TransactionID string `json:"transaction_id"`
	EventAt       string `json:"event_at"`
}

// Payload builds the published message body.
func (e ChangeEvent) Payload() TransactionChangedPayload {
	return TransactionChangedPayload{
		Sequence:      e.Sequence,
		Type:          e.Type,
		TransactionID: e.TransactionID,
		EventAt:       e.At.UTC().Format(time.RFC3339),
	}
}
