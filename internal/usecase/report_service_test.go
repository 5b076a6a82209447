package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"signagestats/internal/domain"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapCache struct {
	mu   sync.Mutex
	data map[int64]domain.AdStats
	hits int
}

func newMapCache() *mapCache {
	return &mapCache{data: make(map[int64]domain.AdStats)}
}

func (c *mapCache) Get(_ context.Context, adID int64) (*domain.AdStats, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	stats, ok := c.data[adID]
	if !ok {
		return nil, false
	}
	c.hits++
	return &stats, true
}

func (c *mapCache) Set(_ context.Context, stats *domain.AdStats) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[stats.AdID] = *stats
}

func newReportFixture(t *testing.T, cache domain.StatsCache) (*fixture, *ReportService) {
	t.Helper()
	ctx := context.Background()
	f := newFixture(t)

	f.assets.Store(ctx,
		domain.MediaAsset{ID: 1, Name: "Coffee", CompanyName: "Bean Co", DurationSeconds: 10, Active: true},
		domain.MediaAsset{ID: 2, Name: "Shoes", CompanyName: "Run Inc", DurationSeconds: 20, Active: true},
		domain.MediaAsset{ID: 3, Name: "Winter", CompanyName: "Snow Ltd", DurationSeconds: 15},
		domain.MediaAsset{ID: 4, Name: "Draft", CompanyName: "Nobody"},
	)
	f.schedules.Store(ctx,
		domain.Schedule{ID: 1, AdID: 1, ScreenID: id(7), ScreenName: "Lobby", FromDate: datePtr("2025-03-01"), ToDate: datePtr("2025-03-31"),
			FromTime: tod("10:00"), ToTime: tod("10:01"), DurationSeconds: 10},
		domain.Schedule{ID: 2, AdID: 2, ScreenID: id(7), ScreenName: "Lobby", FromDate: datePtr("2025-04-01"), ToDate: datePtr("2025-04-30"),
			DurationSeconds: 20},
		domain.Schedule{ID: 3, AdID: 3, ScreenID: id(7), ScreenName: "Lobby", FromDate: datePtr("2025-01-01"), ToDate: datePtr("2025-01-31"),
			DurationSeconds: 15},
	)
	f.events.StoreScreens(ctx, domain.Screen{ID: 7, Name: "Lobby"})
	f.events.Append(ctx,
		event(1, 7, "2025-03-10 10:00:00", 10),
		event(1, 7, "2025-03-10 10:00:30", 10),
		event(1, 7, "2025-03-12 10:00:00", 10),
		event(3, 7, "2025-01-05 09:00:00", 15),
	)

	aggregator := NewEventAggregator(f.events, f.log, f.metrics)
	estimator := NewCapacityEstimator(f.schedules, FillerPolicy{}, f.log, f.metrics)
	svc := NewReportService(f.assets, f.schedules, f.summaries, aggregator, estimator, cache, f.log, f.metrics).
		WithClock(func() time.Time { return at("2025-03-10 10:00:30") })
	return f, svc
}

func TestReportService_ListAds(t *testing.T) {
	ctx := context.Background()
	cache := newMapCache()
	f, svc := newReportFixture(t, cache)

	list, err := svc.ListAds(ctx, at("2025-03-10 10:00:30"))
	require.NoError(t, err)

	require.Len(t, list.Active, 1)
	assert.Equal(t, int64(1), list.Active[0].ID)
	assert.Equal(t, int64(3), list.Active[0].TotalPlays)
	assert.Equal(t, int64(30), list.Active[0].TotalSeconds)

	require.Len(t, list.Scheduled, 1)
	assert.Equal(t, int64(2), list.Scheduled[0].ID)
	require.Len(t, list.Expired, 1)
	assert.Equal(t, int64(15), list.Expired[0].TotalSeconds)
	require.Len(t, list.Inactive, 1)
	assert.Equal(t, "Draft", list.Inactive[0].Name)

	// second listing is served from the cache
	_, err = svc.ListAds(ctx, at("2025-03-10 10:00:30"))
	require.NoError(t, err)
	assert.Equal(t, 4, cache.hits)
	assert.Equal(t, 4.0, testutil.ToFloat64(f.metrics.StatsCache.WithLabelValues("hit")))
	assert.Equal(t, 4.0, testutil.ToFloat64(f.metrics.StatsCache.WithLabelValues("miss")))
}

func TestReportService_ListAdsEmpty(t *testing.T) {
	f := newFixture(t)
	aggregator := NewEventAggregator(f.events, f.log, f.metrics)
	estimator := NewCapacityEstimator(f.schedules, FillerPolicy{}, f.log, f.metrics)
	svc := NewReportService(f.assets, f.schedules, f.summaries, aggregator, estimator, nil, f.log, f.metrics)

	list, err := svc.ListAds(context.Background(), time.Now())
	require.NoError(t, err)
	assert.NotNil(t, list.Active)
	assert.NotNil(t, list.Scheduled)
	assert.NotNil(t, list.Expired)
	assert.NotNil(t, list.Inactive)
}

func TestReportService_AdReport(t *testing.T) {
	ctx := context.Background()
	_, svc := newReportFixture(t, nil)

	t.Run("actual", func(t *testing.T) {
		report, err := svc.AdReport(ctx, 1, date("2025-03-10"), domain.ModeActual)
		require.NoError(t, err)

		assert.Equal(t, domain.StatusActive, report.Status)
		assert.Equal(t, "Coffee", report.Lifetime.AdName)
		assert.Equal(t, "Bean Co", report.Lifetime.CompanyName)
		assert.Equal(t, int64(3), report.Lifetime.TotalPlays)
		assert.Equal(t, int64(2), report.Day.TotalPlays)
		assert.Equal(t, int64(3), report.Week.TotalPlays)
		assert.Equal(t, int64(3), report.Month.TotalPlays)
		assert.Equal(t, "Coffee", report.Month.AdName)
	})

	t.Run("estimated", func(t *testing.T) {
		report, err := svc.AdReport(ctx, 1, date("2025-03-10"), domain.ModeEstimated)
		require.NoError(t, err)

		// a sixty second window with a ten second loop plays six times a day
		assert.Equal(t, domain.ModeEstimated, report.Day.Mode)
		assert.Equal(t, int64(6), report.Day.TotalPlays)
		assert.Equal(t, int64(60), report.Day.TotalSeconds)
		assert.Equal(t, int64(42), report.Week.TotalPlays)
		assert.Equal(t, int64(186), report.Month.TotalPlays)
		// lifetime always comes from events
		assert.Equal(t, domain.ModeActual, report.Lifetime.Mode)
	})

	t.Run("unknown ad", func(t *testing.T) {
		_, err := svc.AdReport(ctx, 99, date("2025-03-10"), domain.ModeActual)
		assert.ErrorIs(t, err, domain.ErrAdNotFound)
	})

	t.Run("unknown mode", func(t *testing.T) {
		_, err := svc.AdReport(ctx, 1, date("2025-03-10"), domain.StatsMode("guess"))
		assert.ErrorIs(t, err, domain.ErrInvalidMode)
	})
}

func TestReportService_RangeReport(t *testing.T) {
	ctx := context.Background()
	_, svc := newReportFixture(t, nil)

	report, err := svc.RangeReport(ctx, 1, date("2025-03-10"), date("2025-03-11"), domain.ModeActual)
	require.NoError(t, err)
	assert.Equal(t, int64(2), report.Stats.TotalPlays)
	assert.Equal(t, 10.0, report.AvgPerPlay)
	assert.Equal(t, date("2025-03-10"), *report.LifetimeFrom)
	assert.Equal(t, date("2025-03-12"), *report.LifetimeTo)

	reversed, err := svc.RangeReport(ctx, 1, date("2025-03-11"), date("2025-03-10"), domain.ModeEstimated)
	require.NoError(t, err)
	assert.Equal(t, int64(0), reversed.Stats.TotalPlays)
	assert.Equal(t, 0.0, reversed.AvgPerPlay)
}

func TestReportService_SummaryReads(t *testing.T) {
	ctx := context.Background()
	f, svc := newReportFixture(t, nil)

	require.NoError(t, f.summaries.Upsert(ctx, []domain.PeriodSummary{
		{PeriodType: domain.PeriodDaily, PeriodStart: date("2025-03-08"), PeriodEnd: date("2025-03-08"), AdID: 2, ScreenID: 7, Plays: 1, Seconds: 20},
		{PeriodType: domain.PeriodDaily, PeriodStart: date("2025-03-09"), PeriodEnd: date("2025-03-09"), AdID: 1, ScreenID: 7, Plays: 4, Seconds: 40},
		{PeriodType: domain.PeriodDaily, PeriodStart: date("2025-03-10"), PeriodEnd: date("2025-03-10"), AdID: 1, ScreenID: 7, Plays: 2, Seconds: 20},
		{PeriodType: domain.PeriodWeekly, PeriodStart: date("2025-03-03"), PeriodEnd: date("2025-03-09"), AdID: 1, ScreenID: 7, Plays: 4, Seconds: 40},
	}))

	rows, err := svc.PeriodRows(ctx, domain.PeriodDaily, date("2025-03-09"), date("2025-03-10"))
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	rows, err = svc.PeriodRows(ctx, domain.PeriodMonthly, date("2025-03-01"), date("2025-03-31"))
	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)

	rows, err = svc.PeriodRows(ctx, domain.PeriodDaily, date("2025-03-10"), date("2025-03-01"))
	require.NoError(t, err)
	assert.Empty(t, rows)

	totals, err := svc.DailyTotals(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, []domain.AdScreenTotals{
		{AdID: 1, ScreenID: 7, Plays: 6, Seconds: 60},
		{AdID: 2, ScreenID: 7, Plays: 1, Seconds: 20},
	}, totals)

	since := date("2025-03-10")
	totals, err = svc.DailyTotals(ctx, &since)
	require.NoError(t, err)
	assert.Equal(t, []domain.AdScreenTotals{{AdID: 1, ScreenID: 7, Plays: 2, Seconds: 20}}, totals)
}
