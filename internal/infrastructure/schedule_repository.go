package infrastructure

import (
	"context"
	"sync"
	"time"

	"signagestats/internal/domain"
	"signagestats/pkg/clock"
	"signagestats/pkg/logger"
)

// implements domain.ScheduleRepository in memory
type ScheduleRepository struct {
	data   []domain.Schedule
	mutex  sync.RWMutex
	logger *logger.Logger
}

func NewScheduleRepository(logger *logger.Logger) *ScheduleRepository {
	return &ScheduleRepository{
		logger: logger,
	}
}

func (r *ScheduleRepository) Store(ctx context.Context, schedules ...domain.Schedule) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.data = append(r.data, schedules...)

	r.logger.WithContext(ctx).WithField("count", len(schedules)).Debug("Stored schedules in memory")
}

func (r *ScheduleRepository) ListByAd(ctx context.Context, adID int64) ([]domain.Schedule, error) {
	return r.filter(func(s domain.Schedule) bool {
		return s.AdID == adID
	}), nil
}

func (r *ScheduleRepository) ListByScreen(ctx context.Context, screenID int64) ([]domain.Schedule, error) {
	return r.filter(func(s domain.Schedule) bool {
		return s.ScreenID != nil && *s.ScreenID == screenID
	}), nil
}

func (r *ScheduleRepository) ListByAdAndDateRange(ctx context.Context, adID int64, from, to time.Time) ([]domain.Schedule, error) {
	want := clock.NewDateRange(clock.DateOnly(from), clock.DateOnly(to))
	return r.filter(func(s domain.Schedule) bool {
		if s.AdID != adID {
			return false
		}
		window, ok := s.DateRange()
		if !ok {
			return false
		}
		_, overlaps := window.Intersect(want)
		return overlaps
	}), nil
}

func (r *ScheduleRepository) ListActiveOnScreen(ctx context.Context, screenID int64, day time.Time) ([]domain.Schedule, error) {
	return r.filter(func(s domain.Schedule) bool {
		if s.ScreenID == nil || *s.ScreenID != screenID {
			return false
		}
		window, ok := s.DateRange()
		return ok && window.Contains(clock.DateOnly(day))
	}), nil
}

func (r *ScheduleRepository) filter(match func(domain.Schedule) bool) []domain.Schedule {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	var result []domain.Schedule
	for _, s := range r.data {
		if match(s) {
			result = append(result, s)
		}
	}
	return result
}
