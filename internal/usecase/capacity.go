package usecase

import (
	"context"
	"fmt"
	"math"
	"time"

	"signagestats/internal/domain"
	"signagestats/pkg/clock"
	"signagestats/pkg/logger"
	"signagestats/pkg/metrics"
)

// FillerPolicy describes the system spots appended to every playlist loop
type FillerPolicy struct {
	SpotCount   int
	SpotSeconds float64
}

func (p FillerPolicy) Overhead() float64 {
	if p.SpotCount <= 0 || p.SpotSeconds <= 0 {
		return 0
	}
	return float64(p.SpotCount) * p.SpotSeconds
}

// LoopSeconds is the length of one pass over the playlist including filler.
// A playlist with no client airtime has no loop at all.
func LoopSeconds(playlist []domain.Schedule, filler FillerPolicy) float64 {
	var client float64
	for _, s := range playlist {
		if s.DurationSeconds > 0 {
			client += s.DurationSeconds
		}
	}
	if client <= 0 {
		return 0
	}
	return client + filler.Overhead()
}

// LoopsPerDay is how many whole loops fit in the daily window. There is no floor of one.
func LoopsPerDay(windowSeconds int64, loopSeconds float64) int64 {
	if windowSeconds <= 0 || loopSeconds <= 0 {
		return 0
	}
	return int64(math.Floor(float64(windowSeconds) / loopSeconds))
}

// CapacityEstimator reconstructs expected plays from schedule configuration alone
type CapacityEstimator struct {
	schedules domain.ScheduleRepository
	filler    FillerPolicy
	logger    *logger.Logger
	metrics   *metrics.Metrics
}

func NewCapacityEstimator(
	schedules domain.ScheduleRepository,
	filler FillerPolicy,
	logger *logger.Logger,
	metrics *metrics.Metrics,
) *CapacityEstimator {
	return &CapacityEstimator{
		schedules: schedules,
		filler:    filler,
		logger:    logger,
		metrics:   metrics,
	}
}

type playlistDay struct {
	screenID int64
	day      time.Time
}

// Estimate returns per-screen expected plays/seconds of the ad over [from, to]
func (e *CapacityEstimator) Estimate(ctx context.Context, adID int64, from, to time.Time) ([]domain.ScreenStats, error) {
	want := clock.NewDateRange(clock.DateOnly(from), clock.DateOnly(to))
	if want.Empty() {
		return []domain.ScreenStats{}, nil
	}

	rows, err := e.schedules.ListByAdAndDateRange(ctx, adID, want.From, want.To)
	if err != nil {
		return nil, fmt.Errorf("failed to list schedules for ad %d: %w", adID, err)
	}

	loops := make(map[playlistDay]float64)
	acc := newScreenAccumulator()
	skipped := 0

	for _, row := range rows {
		if row.ScreenID == nil {
			skipped++
			continue
		}
		window, ok := row.DateRange()
		if !ok {
			skipped++
			continue
		}
		active, ok := window.Intersect(want)
		if !ok {
			continue
		}

		windowSeconds := row.WindowSeconds()
		var plays int64
		for _, day := range active.Days() {
			loop, err := e.loopOn(ctx, loops, *row.ScreenID, day)
			if err != nil {
				return nil, err
			}
			plays += LoopsPerDay(windowSeconds, loop)
		}

		seconds := int64(math.Round(float64(plays) * row.DurationSeconds))
		acc.add(*row.ScreenID, row.ScreenName, plays, seconds)
	}

	result := acc.result()
	e.metrics.RecordStats(string(domain.ModeEstimated), "range")

	e.logger.WithContext(ctx).WithFields(map[string]any{
		"ad_id":   adID,
		"range":   want.String(),
		"rows":    len(rows),
		"skipped": skipped,
		"screens": len(result),
	}).Debug("Estimated ad capacity")

	return result, nil
}

// loopOn memoizes the loop length of a screen's playlist for one day
func (e *CapacityEstimator) loopOn(ctx context.Context, cache map[playlistDay]float64, screenID int64, day time.Time) (float64, error) {
	key := playlistDay{screenID: screenID, day: day}
	if loop, ok := cache[key]; ok {
		return loop, nil
	}

	playlist, err := e.schedules.ListActiveOnScreen(ctx, screenID, day)
	if err != nil {
		return 0, fmt.Errorf("failed to list playlist of screen %d on %s: %w", screenID, day.Format(clock.DateLayout), err)
	}

	loop := LoopSeconds(playlist, e.filler)
	cache[key] = loop
	return loop, nil
}
