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

// RollupService materializes DAILY summaries from raw events and
// WEEKLY/MONTHLY summaries from DAILY rows
type RollupService struct {
	events    domain.EventRepository
	summaries domain.SummaryRepository
	logger    *logger.Logger
	metrics   *metrics.Metrics
}

func NewRollupService(
	events domain.EventRepository,
	summaries domain.SummaryRepository,
	logger *logger.Logger,
	metrics *metrics.Metrics,
) *RollupService {
	return &RollupService{
		events:    events,
		summaries: summaries,
		logger:    logger,
		metrics:   metrics,
	}
}

// AggregateDaily rewrites the DAILY rows of day and returns how many were written
func (s *RollupService) AggregateDaily(ctx context.Context, day time.Time) (int, error) {
	start := time.Now()
	day = clock.DateOnly(day)

	log := s.logger.WithContext(ctx).WithField("day", day.Format(clock.DateLayout))
	log.Info("Starting daily roll-up")

	events, err := s.events.ListByStart(ctx, day, clock.NextDay(day))
	if err != nil {
		s.metrics.RecordRollup(string(domain.PeriodDaily), "failed", 0, time.Since(start))
		return 0, fmt.Errorf("failed to list events: %w", err)
	}

	rows := DailySummaries(day, events)
	if err := s.summaries.Upsert(ctx, rows); err != nil {
		s.metrics.RecordRollup(string(domain.PeriodDaily), "failed", 0, time.Since(start))
		return 0, fmt.Errorf("failed to upsert daily summaries: %w", err)
	}

	duration := time.Since(start)
	s.metrics.RecordRollup(string(domain.PeriodDaily), "success", len(rows), duration)

	log.WithFields(map[string]any{
		"events":   len(events),
		"rows":     len(rows),
		"duration": duration,
	}).Info("Daily roll-up completed")

	return len(rows), nil
}

// AggregateWeekly rebuilds WEEKLY rows of every week touching [from, to]
func (s *RollupService) AggregateWeekly(ctx context.Context, from, to time.Time) (int, error) {
	return s.rollupFromDaily(ctx, domain.PeriodWeekly, from, to, clock.WeekRange)
}

// AggregateMonthly rebuilds MONTHLY rows of every month touching [from, to]
func (s *RollupService) AggregateMonthly(ctx context.Context, from, to time.Time) (int, error) {
	return s.rollupFromDaily(ctx, domain.PeriodMonthly, from, to, clock.MonthRange)
}

func (s *RollupService) rollupFromDaily(
	ctx context.Context,
	period domain.PeriodType,
	from, to time.Time,
	bucket func(time.Time) clock.DateRange,
) (int, error) {
	start := time.Now()

	requested := clock.NewDateRange(clock.DateOnly(from), clock.DateOnly(to))
	if requested.Empty() {
		return 0, fmt.Errorf("%s roll-up %s: %w", period, requested, domain.ErrInvalidRange)
	}

	// widen to whole periods so no row is written from a partial set of days
	window := clock.DateRange{From: bucket(requested.From).From, To: bucket(requested.To).To}

	log := s.logger.WithContext(ctx).WithFields(map[string]any{
		"period": period,
		"range":  window.String(),
	})
	log.Info("Starting period roll-up")

	daily, err := s.summaries.ListByPeriod(ctx, domain.PeriodDaily, window.From, window.To)
	if err != nil {
		s.metrics.RecordRollup(string(period), "failed", 0, time.Since(start))
		return 0, fmt.Errorf("failed to list daily summaries: %w", err)
	}

	rows := RollupSummaries(period, daily, bucket)
	if err := s.summaries.Upsert(ctx, rows); err != nil {
		s.metrics.RecordRollup(string(period), "failed", 0, time.Since(start))
		return 0, fmt.Errorf("failed to upsert %s summaries: %w", period, err)
	}

	duration := time.Since(start)
	s.metrics.RecordRollup(string(period), "success", len(rows), duration)

	log.WithFields(map[string]any{
		"daily_rows": len(daily),
		"rows":       len(rows),
		"duration":   duration,
	}).Info("Period roll-up completed")

	return len(rows), nil
}

type adScreen struct {
	adID     int64
	screenID int64
}

// DailySummaries groups the events of day by ad and screen.
// Events missing either reference cannot be keyed and are skipped.
func DailySummaries(day time.Time, events []domain.PlayEvent) []domain.PeriodSummary {
	day = clock.DateOnly(day)
	next := clock.NextDay(day)

	index := make(map[adScreen]int)
	var rows []domain.PeriodSummary

	for _, e := range events {
		if e.AdID == nil || e.ScreenID == nil {
			continue
		}
		if e.Start.Before(day) || !e.Start.Before(next) {
			continue
		}

		key := adScreen{adID: *e.AdID, screenID: *e.ScreenID}
		i, ok := index[key]
		if !ok {
			i = len(rows)
			index[key] = i
			rows = append(rows, domain.PeriodSummary{
				PeriodType:  domain.PeriodDaily,
				PeriodStart: day,
				PeriodEnd:   day,
				AdID:        key.adID,
				ScreenID:    key.screenID,
			})
		}
		rows[i].Plays++
		rows[i].Seconds += e.DurationSeconds()
	}

	return rows
}

// RollupSummaries sums DAILY rows into the period bucket containing each row's day.
// Rows of other period types are ignored.
func RollupSummaries(period domain.PeriodType, daily []domain.PeriodSummary, bucket func(time.Time) clock.DateRange) []domain.PeriodSummary {
	type rollupKey struct {
		start time.Time
		adScreen
	}

	index := make(map[rollupKey]int)
	var rows []domain.PeriodSummary

	for _, d := range daily {
		if d.PeriodType != domain.PeriodDaily {
			continue
		}

		b := bucket(clock.DateOnly(d.PeriodStart))
		key := rollupKey{start: b.From, adScreen: adScreen{adID: d.AdID, screenID: d.ScreenID}}
		i, ok := index[key]
		if !ok {
			i = len(rows)
			index[key] = i
			rows = append(rows, domain.PeriodSummary{
				PeriodType:  period,
				PeriodStart: b.From,
				PeriodEnd:   b.To,
				AdID:        d.AdID,
				ScreenID:    d.ScreenID,
			})
		}
		rows[i].Plays += d.Plays
		rows[i].Seconds += d.Seconds
	}

	return rows
}
