package usecase

import (
	"context"
	"fmt"

	"github.com/iho/porket/internal/domain"
)

// ExportUseCase serialises the full transaction set into a downloadable file.
type ExportUseCase struct {
	repo     TransactionRepository
	clock    Clock
	encoders map[domain.ExportFormat]ExportEncoder
	formats  []domain.ExportFormat
}

// NewExportUseCase creates a new ExportUseCase serving the given encoders.
func NewExportUseCase(repo TransactionRepository, clock Clock, encoders ...ExportEncoder) *ExportUseCase {
	uc := &ExportUseCase{
		repo:     repo,
		clock:    clock,
		encoders: make(map[domain.ExportFormat]ExportEncoder, len(encoders)),
	}

	for _, enc := range encoders {
		if _, dup := uc.encoders[enc.Format()]; !dup {
			uc.formats = append(uc.formats, enc.Format())
		}
		uc.encoders[enc.Format()] = enc
	}

	return uc
}

// ExportResult is a ready-to-download file.
type ExportResult struct {
	Filename    string
	ContentType string
	Data        []byte
	Count       int
}

// Formats lists the registered formats in registration order.
func (uc *ExportUseCase) Formats() []domain.ExportFormat {
	return uc.formats
}

// Export fetches every transaction and encodes it. An empty set yields
// domain.ErrNoTransactions and no file.
func (uc *ExportUseCase) Export(ctx context.Context, format domain.ExportFormat) (*ExportResult, error) {
	enc, ok := uc.encoders[format]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedFormat, format)
	}

	queryCtx, cancel := context.WithTimeout(ctx, DefaultQueryTimeout)
	defer cancel()

	txs, err := uc.repo.Select(queryCtx, domain.TransactionFilter{})
	if err != nil {
		return nil, fmt.Errorf("select transactions: %w", err)
	}

	if len(txs) == 0 {
		return nil, domain.ErrNoTransactions
	}

	now := uc.clock.Now()
	data, err := enc.Encode(txs, now)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", format, err)
	}

	return &ExportResult{
		Filename:    domain.ExportFilename(format, now),
		ContentType: enc.ContentType(),
		Data:        data,
		Count:       len(txs),
	}, nil
}
