package infrastructure

import (
	"context"
	"sort"
	"sync"
	"time"

	"signagestats/internal/domain"
	"signagestats/pkg/clock"
	"signagestats/pkg/logger"
)

// implements domain.SummaryRepository in memory
type SummaryRepository struct {
	data   map[domain.PeriodKey]domain.PeriodSummary
	mutex  sync.RWMutex
	logger *logger.Logger
}

func NewSummaryRepository(logger *logger.Logger) *SummaryRepository {
	return &SummaryRepository{
		data:   make(map[domain.PeriodKey]domain.PeriodSummary),
		logger: logger,
	}
}

func (r *SummaryRepository) Upsert(ctx context.Context, rows []domain.PeriodSummary) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	log := r.logger.WithContext(ctx)

	for _, row := range rows {
		row.PeriodStart = clock.DateOnly(row.PeriodStart)
		row.PeriodEnd = clock.DateOnly(row.PeriodEnd)
		r.data[row.Key()] = row

		log.WithFields(map[string]any{
			"period_type":  row.PeriodType,
			"period_start": row.PeriodStart.Format(clock.DateLayout),
			"ad_id":        row.AdID,
			"screen_id":    row.ScreenID,
		}).Debug("Upserted period summary")
	}

	log.WithField("count", len(rows)).Info("Upserted period summaries in memory")
	return nil
}

func (r *SummaryRepository) ListByPeriod(ctx context.Context, periodType domain.PeriodType, from, to time.Time) ([]domain.PeriodSummary, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	window := clock.NewDateRange(clock.DateOnly(from), clock.DateOnly(to))

	var result []domain.PeriodSummary
	for key, row := range r.data {
		if key.PeriodType == periodType && window.Contains(key.PeriodStart) {
			result = append(result, row)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		a, b := result[i], result[j]
		if !a.PeriodStart.Equal(b.PeriodStart) {
			return a.PeriodStart.Before(b.PeriodStart)
		}
		if a.AdID != b.AdID {
			return a.AdID < b.AdID
		}
		return a.ScreenID < b.ScreenID
	})

	return result, nil
}
