package report

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/sfa/backend/internal/domain/report"
	"github.com/sfa/backend/internal/domain/shared"
	"github.com/sfa/backend/internal/infrastructure/export"
)

// Archive keeps exported files in object storage
type Archive interface {
	Store(ctx context.Context, fileName string, data []byte, contentType string) (string, error)
	DownloadURL(ctx context.Context, key string, expiresIn time.Duration) (string, time.Time, error)
}

// ExportResult is a rendered export, plus its archive location when archived
type ExportResult struct {
	File        *export.File
	ArchiveKey  string
	DownloadURL string
	ExpiresAt   time.Time
}

// Export renders the sales summary, agent performance and daily activity into
// one workbook. With archive set the file is also uploaded and a presigned
// download URL returned.
func (s *Service) Export(ctx context.Context, f report.Filter, format export.Format, archive bool) (*ExportResult, error) {
	f, err := s.NormalizeFilter(f)
	if err != nil {
		return nil, err
	}
	if archive && s.archive == nil {
		return nil, shared.ErrInvalidInput.WithMessage("Export archiving is not enabled")
	}

	acts, err := s.activities(ctx, f)
	if err != nil {
		return nil, err
	}
	if s.cfg.ExportMaxRows > 0 && len(acts) > s.cfg.ExportMaxRows {
		return nil, shared.ErrInvalidInput.WithMessage(fmt.Sprintf(
			"Export covers %d activities, more than the limit of %d. Narrow the period or filter.", len(acts), s.cfg.ExportMaxRows))
	}

	bundle := export.Bundle{
		Filter:  f,
		Summary: report.BuildSalesSummary(acts, f),
		Agents:  report.BuildAgentPerformance(acts, s.agentNames(ctx, acts)),
		Daily:   report.BuildDailyActivity(acts, f, s.cfg.Location, true),
	}
	file, err := export.Render(bundle, format, s.now().In(s.cfg.Location))
	if err != nil {
		return nil, err
	}
	s.metrics.RecordExport(ctx, string(format))

	result := &ExportResult{File: file}
	if !archive {
		return result, nil
	}

	key, err := s.archive.Store(ctx, file.Name, file.Data, file.ContentType)
	if err != nil {
		return nil, fmt.Errorf("failed to archive export: %w", err)
	}
	url, expires, err := s.archive.DownloadURL(ctx, key, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to presign export: %w", err)
	}
	s.logger.Info("Report export archived", zap.String("key", key), zap.Int("bytes", len(file.Data)))

	result.ArchiveKey = key
	result.DownloadURL = url
	result.ExpiresAt = expires
	return result, nil
}
