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

// EventAggregator computes actual airtime from logged play events
type EventAggregator struct {
	events  domain.EventRepository
	logger  *logger.Logger
	metrics *metrics.Metrics
}

func NewEventAggregator(events domain.EventRepository, logger *logger.Logger, metrics *metrics.Metrics) *EventAggregator {
	return &EventAggregator{
		events:  events,
		logger:  logger,
		metrics: metrics,
	}
}

// Lifetime aggregates every event of the ad and records its observed bounds
func (a *EventAggregator) Lifetime(ctx context.Context, adID int64) (*domain.AdStats, error) {
	events, err := a.events.ListByAd(ctx, adID)
	if err != nil {
		return nil, fmt.Errorf("failed to list events for ad %d: %w", adID, err)
	}

	stats := AggregateEvents(adID, events, true)
	a.metrics.RecordStats(string(domain.ModeActual), "lifetime")

	a.logger.WithContext(ctx).WithFields(map[string]any{
		"ad_id":         adID,
		"events":        len(events),
		"total_plays":   stats.TotalPlays,
		"total_seconds": stats.TotalSeconds,
	}).Debug("Aggregated lifetime stats")

	return stats, nil
}

// Range aggregates events whose start falls within the days [from, to]
func (a *EventAggregator) Range(ctx context.Context, adID int64, from, to time.Time) (*domain.AdStats, error) {
	window := clock.NewDateRange(clock.DateOnly(from), clock.DateOnly(to))
	if window.Empty() {
		return AggregateEvents(adID, nil, false), nil
	}

	start, end := window.HalfOpen()
	events, err := a.events.ListByAdAndStart(ctx, adID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list events for ad %d in %s: %w", adID, window, err)
	}

	stats := AggregateEvents(adID, events, false)
	a.metrics.RecordStats(string(domain.ModeActual), "range")

	a.logger.WithContext(ctx).WithFields(map[string]any{
		"ad_id":  adID,
		"range":  window.String(),
		"events": len(events),
	}).Debug("Aggregated range stats")

	return stats, nil
}

// AggregateEvents sums plays and seconds globally and per screen.
// Events without a screen count toward totals only.
func AggregateEvents(adID int64, events []domain.PlayEvent, trackBounds bool) *domain.AdStats {
	stats := &domain.AdStats{AdID: adID, Mode: domain.ModeActual}
	acc := newScreenAccumulator()

	var first, last time.Time
	for i, e := range events {
		duration := e.DurationSeconds()
		stats.TotalPlays++
		stats.TotalSeconds += duration

		if trackBounds {
			startDay := clock.DateOnly(e.Start)
			endDay := clock.DateOnly(e.EffectiveEnd())
			if i == 0 || startDay.Before(first) {
				first = startDay
			}
			if i == 0 || endDay.After(last) {
				last = endDay
			}
		}

		if e.ScreenID == nil {
			continue
		}
		acc.add(*e.ScreenID, e.ScreenName, 1, duration)
	}

	stats.PerScreen = acc.result()
	if trackBounds && len(events) > 0 {
		stats.LifetimeFrom = &first
		stats.LifetimeTo = &last
	}
	return stats
}
