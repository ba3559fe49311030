package export

import (
	"strings"
	"time"

	"github.com/iho/porket/internal/domain"
)

// CSVHeader is the first line of every CSV export.
var CSVHeader = []string{"Date", "Type", "Amount", "Category", "Note", "Created At"}

// CSVEncoder writes one line per transaction, joined by "\n".
// The note column is always quoted. Other columns are quoted only when
// they contain a separator, quote or line break.
type CSVEncoder struct{}

// NewCSVEncoder creates a new CSVEncoder.
func NewCSVEncoder() *CSVEncoder {
	return &CSVEncoder{}
}

func (e *CSVEncoder) Format() domain.ExportFormat { return domain.ExportCSV }

func (e *CSVEncoder) ContentType() string { return "text/csv; charset=utf-8" }

// Encode renders txs in the order given.
func (e *CSVEncoder) Encode(txs []*domain.Transaction, _ time.Time) ([]byte, error) {
	lines := make([]string, 0, len(txs)+1)
	lines = append(lines, strings.Join(CSVHeader, ","))

	for _, tx := range txs {
		lines = append(lines, strings.Join([]string{
			tx.OccurredAt.Format(domain.DateLayout),
			string(tx.Kind),
			tx.Amount.String(),
			quoteIfNeeded(tx.CategoryValue()),
			quote(tx.NoteValue()),
			formatTimestamp(tx.CreatedAt),
		}, ","))
	}

	return []byte(strings.Join(lines, "\n")), nil
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func quoteIfNeeded(s string) string {
	if strings.ContainsAny(s, ",\"\r\n") {
		return quote(s)
	}
	return s
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
