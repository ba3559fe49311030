package export

import (
	"encoding/json"
	"time"

	"github.com/iho/porket/internal/domain"
)

// JSONDocument is the top-level object of a JSON export.
type JSONDocument struct {
	ExportedAt        string            `json:"exported_at"`
	TotalTransactions int               `json:"total_transactions"`
	Transactions      []JSONTransaction `json:"transactions"`
}

// JSONTransaction mirrors a stored row. Amount is a JSON number.
type JSONTransaction struct {
	ID         string      `json:"id"`
	Kind       string      `json:"kind"`
	Amount     json.Number `json:"amount"`
	Category   *string     `json:"category"`
	Note       *string     `json:"note"`
	OccurredAt string      `json:"occurred_at"`
	CreatedAt  string      `json:"created_at"`
}

// JSONEncoder writes a pretty-printed JSONDocument.
type JSONEncoder struct{}

// NewJSONEncoder creates a new JSONEncoder.
func NewJSONEncoder() *JSONEncoder {
	return &JSONEncoder{}
}

func (e *JSONEncoder) Format() domain.ExportFormat { return domain.ExportJSON }

func (e *JSONEncoder) ContentType() string { return "application/json" }

// Encode renders txs with exportedAt as an ISO timestamp.
func (e *JSONEncoder) Encode(txs []*domain.Transaction, exportedAt time.Time) ([]byte, error) {
	doc := JSONDocument{
		ExportedAt:        formatTimestamp(exportedAt),
		TotalTransactions: len(txs),
		Transactions:      make([]JSONTransaction, 0, len(txs)),
	}

	for _, tx := range txs {
		doc.Transactions = append(doc.Transactions, JSONTransaction{
			ID:         tx.ID,
			Kind:       string(tx.Kind),
			Amount:     json.Number(tx.Amount.String()),
			Category:   tx.Category,
			Note:       tx.Note,
			OccurredAt: tx.OccurredAt.Format(domain.DateLayout),
			CreatedAt:  formatTimestamp(tx.CreatedAt),
		})
	}

	return json.MarshalIndent(doc, "", "  ")
}
