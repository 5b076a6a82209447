package usecase

import (
	"context"
	"fmt"
	"time"

	"signagestats/internal/domain"
	"signagestats/pkg/clock"
	"signagestats/pkg/logger"
	"signagestats/pkg/metrics"
)

// ExportService pushes materialized summaries to the external sink
type ExportService struct {
	summaries    domain.SummaryRepository
	exportClient domain.ExportClient
	logger       *logger.Logger
	metrics      *metrics.Metrics
}

// exportClient may be nil when no sink is configured
func NewExportService(
	summaries domain.SummaryRepository,
	exportClient domain.ExportClient,
	logger *logger.Logger,
	metrics *metrics.Metrics,
) *ExportService {
	return &ExportService{
		summaries:    summaries,
		exportClient: exportClient,
		logger:       logger,
		metrics:      metrics,
	}
}

// ExportDaily exports the DAILY summary rows of day
func (s *ExportService) ExportDaily(ctx context.Context, day time.Time) (int, error) {
	day = clock.DateOnly(day)
	log := s.logger.WithContext(ctx).WithField("date", day.Format(clock.DateLayout))
	log.Info("Starting summary export")

	if s.exportClient == nil {
		s.metrics.RecordExport("disabled", 0)
		return 0, domain.ErrSinkDisabled
	}

	rows, err := s.summaries.ListByPeriod(ctx, domain.PeriodDaily, day, day)
	if err != nil {
		log.WithError(err).Error("Failed to get summaries for export")
		s.metrics.RecordExport("failed", 0)
		return 0, fmt.Errorf("failed to get summaries for export: %w", err)
	}

	if len(rows) == 0 {
		log.Warn("No summaries found for export date")
		s.metrics.RecordExport("no_data", 0)
		return 0, fmt.Errorf("%s: %w", day.Format(clock.DateLayout), domain.ErrNoData)
	}

	if err := s.exportClient.Export(ctx, rows, day); err != nil {
		log.WithError(err).Error("Failed to export summaries")
		s.metrics.RecordExport("failed", 0)
		return 0, fmt.Errorf("failed to export summaries: %w", err)
	}

	s.metrics.RecordExport("success", len(rows))
	log.WithField("records", len(rows)).Info("Summary export completed successfully")
	return len(rows), nil
}
