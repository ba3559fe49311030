package handler

import (
	"context"
	"net/http"

	"github.com/iho/porket/internal/adapter/http/dto"
	"github.com/iho/porket/internal/domain"
)

// ReportService defines the behavior needed by ReportHandler.
type ReportService interface {
	MonthlySummary(ctx context.Context) (*domain.MonthlySummary, error)
	CategoryBreakdown(ctx context.Context) (*domain.CategoryBreakdown, error)
}

// ReportHandler serves the current month's summary and breakdown.
type ReportHandler struct {
	reportUC ReportService
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportUC ReportService) *ReportHandler {
	return &ReportHandler{reportUC: reportUC}
}

// Monthly returns income, expense and net balance of the current month.
func (h *ReportHandler) Monthly(w http.ResponseWriter, r *http.Request) {
	summary, err := h.reportUC.MonthlySummary(r.Context())
	if err != nil {
		writeDomainError(w, r, "failed to load monthly summary", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.MonthlySummaryFromDomain(summary))
}

// Categories returns the current month's expenses grouped by category.
func (h *ReportHandler) Categories(w http.ResponseWriter, r *http.Request) {
	breakdown, err := h.reportUC.CategoryBreakdown(r.Context())
	if err != nil {
		writeDomainError(w, r, "failed to load category breakdown", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.CategoryBreakdownFromDomain(breakdown))
}
