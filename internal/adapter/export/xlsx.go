package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/iho/porket/internal/domain"
)

// XLSXSheet is the name of the single worksheet.
const XLSXSheet = "Transactions"

// XLSXEncoder writes the CSV columns into a spreadsheet with a bold header
// and numeric amounts.
type XLSXEncoder struct{}

// NewXLSXEncoder creates a new XLSXEncoder.
func NewXLSXEncoder() *XLSXEncoder {
	return &XLSXEncoder{}
}

func (e *XLSXEncoder) Format() domain.ExportFormat { return domain.ExportXLSX }

func (e *XLSXEncoder) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// Encode renders txs in the order given.
func (e *XLSXEncoder) Encode(txs []*domain.Transaction, _ time.Time) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", XLSXSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E2E8F0"}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("header style: %w", err)
	}

	amountStyle, err := f.NewStyle(&excelize.Style{NumFmt: 4}) // #,##0.00
	if err != nil {
		return nil, fmt.Errorf("amount style: %w", err)
	}

	header := make([]any, len(CSVHeader))
	for i, h := range CSVHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(XLSXSheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	if err := f.SetCellStyle(XLSXSheet, "A1", "F1", headerStyle); err != nil {
		return nil, fmt.Errorf("style header: %w", err)
	}

	for i, tx := range txs {
		row := i + 2
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return nil, err
		}

		values := []any{
			tx.OccurredAt.Format(domain.DateLayout),
			string(tx.Kind),
			tx.Amount.InexactFloat64(),
			tx.CategoryValue(),
			tx.NoteValue(),
			formatTimestamp(tx.CreatedAt),
		}
		if err := f.SetSheetRow(XLSXSheet, cell, &values); err != nil {
			return nil, fmt.Errorf("write row %d: %w", row, err)
		}

		amountCell := fmt.Sprintf("C%d", row)
		if err := f.SetCellStyle(XLSXSheet, amountCell, amountCell, amountStyle); err != nil {
			return nil, fmt.Errorf("style row %d: %w", row, err)
		}
	}

	for col, width := range map[string]float64{"A": 12, "B": 10, "C": 14, "D": 18, "E": 40, "F": 28} {
		if err := f.SetColWidth(XLSXSheet, col, col, width); err != nil {
			return nil, fmt.Errorf("column width: %w", err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}

	return buf.Bytes(), nil
}
