package infrastructure

import (
	"context"
	"sort"
	"sync"
	"time"

	"signagestats/internal/domain"
	"signagestats/pkg/logger"
)

// implements domain.EventRepository in memory
type EventRepository struct {
	screens map[int64]domain.Screen
	events  []domain.PlayEvent
	mutex   sync.RWMutex
	logger  *logger.Logger
}

func NewEventRepository(logger *logger.Logger) *EventRepository {
	return &EventRepository{
		screens: make(map[int64]domain.Screen),
		logger:  logger,
	}
}

func (r *EventRepository) StoreScreens(ctx context.Context, screens ...domain.Screen) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	for _, s := range screens {
		r.screens[s.ID] = s
	}
}

// Append adds events, resolving screen names from known screens
func (r *EventRepository) Append(ctx context.Context, events ...domain.PlayEvent) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	for _, e := range events {
		if e.ScreenID != nil && e.ScreenName == "" {
			e.ScreenName = r.screens[*e.ScreenID].Name
		}
		r.events = append(r.events, e)
	}

	r.logger.WithContext(ctx).WithField("count", len(events)).Debug("Stored play events in memory")
}

func (r *EventRepository) ListByAd(ctx context.Context, adID int64) ([]domain.PlayEvent, error) {
	return r.filter(func(e domain.PlayEvent) bool {
		return e.AdID != nil && *e.AdID == adID
	}), nil
}

func (r *EventRepository) ListByAdAndStart(ctx context.Context, adID int64, from, to time.Time) ([]domain.PlayEvent, error) {
	return r.filter(func(e domain.PlayEvent) bool {
		return e.AdID != nil && *e.AdID == adID && inHalfOpen(e.Start, from, to)
	}), nil
}

func (r *EventRepository) ListByStart(ctx context.Context, from, to time.Time) ([]domain.PlayEvent, error) {
	return r.filter(func(e domain.PlayEvent) bool {
		return inHalfOpen(e.Start, from, to)
	}), nil
}

func (r *EventRepository) LastSeenByScreen(ctx context.Context) ([]domain.ScreenLastSeen, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	latest := make(map[int64]time.Time)
	for _, e := range r.events {
		if e.ScreenID == nil {
			continue
		}
		if seen, ok := latest[*e.ScreenID]; !ok || e.Start.After(seen) {
			latest[*e.ScreenID] = e.Start
		}
	}

	result := make([]domain.ScreenLastSeen, 0, len(r.screens))
	for id, screen := range r.screens {
		row := domain.ScreenLastSeen{ScreenID: id, ScreenName: screen.Name}
		if seen, ok := latest[id]; ok {
			row.LastSeen = &seen
		}
		result = append(result, row)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ScreenID < result[j].ScreenID
	})
	return result, nil
}

func (r *EventRepository) filter(match func(domain.PlayEvent) bool) []domain.PlayEvent {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	var result []domain.PlayEvent
	for _, e := range r.events {
		if match(e) {
			result = append(result, e)
		}
	}
	return result
}

func inHalfOpen(t, from, to time.Time) bool {
	return !t.Before(from) && t.Before(to)
}
