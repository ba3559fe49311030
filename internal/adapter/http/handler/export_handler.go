package handler

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/iho/porket/internal/domain"
	"github.com/iho/porket/internal/infrastructure/metrics"
	"github.com/iho/porket/internal/usecase"
)

// ExportService defines the behavior needed by ExportHandler.
type ExportService interface {
	Export(ctx context.Context, format domain.ExportFormat) (*usecase.ExportResult, error)
}

// ExportHandler serves downloadable exports of all transactions.
type ExportHandler struct {
	exportUC ExportService
	metrics  *metrics.Metrics
}

// NewExportHandler creates a new ExportHandler. m may be nil.
func NewExportHandler(exportUC ExportService, m *metrics.Metrics) *ExportHandler {
	return &ExportHandler{exportUC: exportUC, metrics: m}
}

// Export writes the file for ?format=csv|json|xlsx (default csv).
func (h *ExportHandler) Export(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("format")
	if raw == "" {
		raw = string(domain.ExportCSV)
	}

	format, err := domain.ParseExportFormat(raw)
	if err != nil {
		writeDomainError(w, r, "invalid export format", err)
		return
	}

	result, err := h.exportUC.Export(r.Context(), format)
	if err != nil {
		h.record(format, exportResultLabel(err))
		writeDomainError(w, r, "failed to export transactions", err)
		return
	}
	h.record(format, "ok")

	w.Header().Set("Content-Type", result.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(result.Data)))
	w.Header().Set("X-Export-Count", strconv.Itoa(result.Count))
	w.WriteHeader(http.StatusOK)
	w.Write(result.Data)
}

func (h *ExportHandler) record(format domain.ExportFormat, result string) {
	if h.metrics == nil {
		return
	}
	h.metrics.Exports.WithLabelValues(string(format), result).Inc()
}

func exportResultLabel(err error) string {
	if mapDomainError(err) == http.StatusNotFound {
		return "empty"
	}
	return "error"
}
