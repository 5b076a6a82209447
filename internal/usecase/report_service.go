package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"signagestats/internal/domain"
	"signagestats/pkg/clock"
	"signagestats/pkg/logger"
	"signagestats/pkg/metrics"
)

// ReportService is the reporting front door over the aggregation paths
type ReportService struct {
	assets     domain.AssetRepository
	schedules  domain.ScheduleRepository
	summaries  domain.SummaryRepository
	aggregator *EventAggregator
	estimator  *CapacityEstimator
	cache      domain.StatsCache
	now        func() time.Time
	logger     *logger.Logger
	metrics    *metrics.Metrics
}

func NewReportService(
	assets domain.AssetRepository,
	schedules domain.ScheduleRepository,
	summaries domain.SummaryRepository,
	aggregator *EventAggregator,
	estimator *CapacityEstimator,
	cache domain.StatsCache,
	logger *logger.Logger,
	metrics *metrics.Metrics,
) *ReportService {
	return &ReportService{
		assets:     assets,
		schedules:  schedules,
		summaries:  summaries,
		aggregator: aggregator,
		estimator:  estimator,
		cache:      cache,
		now:        time.Now,
		logger:     logger,
		metrics:    metrics,
	}
}

// WithClock replaces the time source, used by tests
func (s *ReportService) WithClock(now func() time.Time) *ReportService {
	s.now = now
	return s
}

// ListAds classifies every ad at now and attaches its lifetime totals
func (s *ReportService) ListAds(ctx context.Context, now time.Time) (*domain.AdList, error) {
	log := s.logger.WithContext(ctx)

	assets, err := s.assets.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list ads: %w", err)
	}

	list := &domain.AdList{
		Active:    []domain.AdListItem{},
		Scheduled: []domain.AdListItem{},
		Expired:   []domain.AdListItem{},
		Inactive:  []domain.AdListItem{},
	}

	for _, asset := range assets {
		status, err := s.Status(ctx, asset.ID, now)
		if err != nil {
			return nil, err
		}

		lifetime, err := s.lifetime(ctx, asset.ID)
		if err != nil {
			return nil, err
		}

		item := domain.AdListItem{
			MediaAsset:   asset,
			Status:       status,
			TotalPlays:   lifetime.TotalPlays,
			TotalSeconds: lifetime.TotalSeconds,
		}

		switch status {
		case domain.StatusActive:
			list.Active = append(list.Active, item)
		case domain.StatusScheduled:
			list.Scheduled = append(list.Scheduled, item)
		case domain.StatusExpired:
			list.Expired = append(list.Expired, item)
		default:
			list.Inactive = append(list.Inactive, item)
		}
	}

	log.WithFields(map[string]any{
		"ads":       len(assets),
		"active":    len(list.Active),
		"scheduled": len(list.Scheduled),
		"expired":   len(list.Expired),
		"inactive":  len(list.Inactive),
	}).Info("Listed ads")

	return list, nil
}

// Status classifies a single ad at now
func (s *ReportService) Status(ctx context.Context, adID int64, now time.Time) (domain.AdStatus, error) {
	rows, err := s.schedules.ListByAd(ctx, adID)
	if err != nil {
		return "", fmt.Errorf("failed to list schedules for ad %d: %w", adID, err)
	}
	return ClassifyStatus(rows, now), nil
}

// AdReport returns lifetime stats plus day, week and month stats around refDay
func (s *ReportService) AdReport(ctx context.Context, adID int64, refDay time.Time, mode domain.StatsMode) (*domain.AdReport, error) {
	asset, err := s.assets.GetByID(ctx, adID)
	if err != nil {
		return nil, err
	}

	status, err := s.Status(ctx, adID, s.now())
	if err != nil {
		return nil, err
	}

	lifetime, err := s.aggregator.Lifetime(ctx, adID)
	if err != nil {
		return nil, err
	}
	s.decorate(lifetime, asset)

	refDay = clock.DateOnly(refDay)
	report := &domain.AdReport{
		Asset:    *asset,
		Status:   status,
		RefDay:   refDay,
		Mode:     mode,
		Lifetime: lifetime,
	}

	windows := []struct {
		dst    **domain.AdStats
		window clock.DateRange
	}{
		{&report.Day, clock.DayRange(refDay)},
		{&report.Week, clock.WeekRange(refDay)},
		{&report.Month, clock.MonthRange(refDay)},
	}
	for _, w := range windows {
		stats, err := s.statsFor(ctx, asset, w.window.From, w.window.To, mode)
		if err != nil {
			return nil, err
		}
		*w.dst = stats
	}

	s.logger.WithContext(ctx).WithFields(map[string]any{
		"ad_id":   adID,
		"ref_day": refDay.Format(clock.DateLayout),
		"mode":    mode,
	}).Info("Built ad report")

	return report, nil
}

// RangeReport computes per-screen stats for an explicit range along with lifetime bounds
func (s *ReportService) RangeReport(ctx context.Context, adID int64, from, to time.Time, mode domain.StatsMode) (*domain.RangeReport, error) {
	asset, err := s.assets.GetByID(ctx, adID)
	if err != nil {
		return nil, err
	}

	stats, err := s.statsFor(ctx, asset, from, to, mode)
	if err != nil {
		return nil, err
	}

	lifetime, err := s.aggregator.Lifetime(ctx, adID)
	if err != nil {
		return nil, err
	}

	return &domain.RangeReport{
		Asset:        *asset,
		From:         clock.DateOnly(from),
		To:           clock.DateOnly(to),
		Stats:        stats,
		AvgPerPlay:   stats.AverageSecondsPerPlay(),
		LifetimeFrom: lifetime.LifetimeFrom,
		LifetimeTo:   lifetime.LifetimeTo,
	}, nil
}

// PeriodRows reads stored summary rows of one period type with start in [from, to]
func (s *ReportService) PeriodRows(ctx context.Context, period domain.PeriodType, from, to time.Time) ([]domain.PeriodSummary, error) {
	window := clock.NewDateRange(clock.DateOnly(from), clock.DateOnly(to))
	if window.Empty() {
		return []domain.PeriodSummary{}, nil
	}

	rows, err := s.summaries.ListByPeriod(ctx, period, window.From, window.To)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s summaries: %w", period, err)
	}
	if rows == nil {
		rows = []domain.PeriodSummary{}
	}
	return rows, nil
}

// DailyTotals sums DAILY rows per ad and screen, from since when given or over all time
func (s *ReportService) DailyTotals(ctx context.Context, since *time.Time) ([]domain.AdScreenTotals, error) {
	var from time.Time
	if since != nil {
		from = clock.DateOnly(*since)
	}
	to := clock.DateOnly(s.now())

	rows, err := s.PeriodRows(ctx, domain.PeriodDaily, from, to)
	if err != nil {
		return nil, err
	}

	index := make(map[adScreen]int)
	out := []domain.AdScreenTotals{}
	for _, r := range rows {
		key := adScreen{adID: r.AdID, screenID: r.ScreenID}
		i, ok := index[key]
		if !ok {
			i = len(out)
			index[key] = i
			out = append(out, domain.AdScreenTotals{AdID: r.AdID, ScreenID: r.ScreenID})
		}
		out[i].Plays += r.Plays
		out[i].Seconds += r.Seconds
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].AdID != out[j].AdID {
			return out[i].AdID < out[j].AdID
		}
		return out[i].ScreenID < out[j].ScreenID
	})

	return out, nil
}

// statsFor dispatches to the aggregator or the estimator by mode
func (s *ReportService) statsFor(ctx context.Context, asset *domain.MediaAsset, from, to time.Time, mode domain.StatsMode) (*domain.AdStats, error) {
	var stats *domain.AdStats

	switch mode {
	case domain.ModeEstimated:
		rows, err := s.estimator.Estimate(ctx, asset.ID, from, to)
		if err != nil {
			return nil, err
		}
		plays, seconds := totals(rows)
		stats = &domain.AdStats{
			AdID:         asset.ID,
			Mode:         domain.ModeEstimated,
			TotalPlays:   plays,
			TotalSeconds: seconds,
			PerScreen:    rows,
		}
	case domain.ModeActual, "":
		var err error
		stats, err = s.aggregator.Range(ctx, asset.ID, from, to)
		if err != nil {
			return nil, err
		}
	default:
		return nil, domain.ErrInvalidMode
	}

	s.decorate(stats, asset)
	return stats, nil
}

// lifetime serves list-view totals from the cache when one is configured
func (s *ReportService) lifetime(ctx context.Context, adID int64) (*domain.AdStats, error) {
	if s.cache != nil {
		stats, ok := s.cache.Get(ctx, adID)
		s.metrics.RecordCacheLookup(ok)
		if ok {
			return stats, nil
		}
	}

	stats, err := s.aggregator.Lifetime(ctx, adID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.Set(ctx, stats)
	}
	return stats, nil
}

func (s *ReportService) decorate(stats *domain.AdStats, asset *domain.MediaAsset) {
	stats.AdName = asset.Name
	stats.CompanyName = asset.CompanyName
}
