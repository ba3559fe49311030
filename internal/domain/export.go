package domain

import (
	"fmt"
	"strings"
	"time"
)

// ExportFilePrefix starts every exported file name.
const ExportFilePrefix = "porket-transactions-"

// ExportFormat is a supported export encoding.
type ExportFormat string

const (
	ExportCSV  ExportFormat = "csv"
	ExportJSON ExportFormat = "json"
	ExportXLSX ExportFormat = "xlsx"
)

// ParseExportFormat parses an export format name.
func ParseExportFormat(s string) (ExportFormat, error) {
	switch f := ExportFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case ExportCSV, ExportJSON, ExportXLSX:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
}

// ExportFilename returns porket-transactions-<YYYY-MM-DD>.<ext> for the
// calendar date of now.
func ExportFilename(format ExportFormat, now time.Time) string {
	return ExportFilePrefix + now.Format(DateLayout) + "." + string(format)
}
