package domain

import (
	"context"
	"time"
)

// interface for the advertisement registry
type AssetRepository interface {
	GetByID(ctx context.Context, id int64) (*MediaAsset, error)
	List(ctx context.Context) ([]MediaAsset, error)
}

// interface for schedule configuration reads
type ScheduleRepository interface {
	ListByAd(ctx context.Context, adID int64) ([]Schedule, error)
	ListByScreen(ctx context.Context, screenID int64) ([]Schedule, error)
	// schedules for the ad whose [from,to] overlaps the given days
	ListByAdAndDateRange(ctx context.Context, adID int64, from, to time.Time) ([]Schedule, error)
	// full playlist of a screen on a day, every ad included
	ListActiveOnScreen(ctx context.Context, screenID int64, day time.Time) ([]Schedule, error)
}

// interface for raw play events
type EventRepository interface {
	ListByAd(ctx context.Context, adID int64) ([]PlayEvent, error)
	// events of the ad with start in [from, to)
	ListByAdAndStart(ctx context.Context, adID int64, from, to time.Time) ([]PlayEvent, error)
	// events of every ad with start in [from, to)
	ListByStart(ctx context.Context, from, to time.Time) ([]PlayEvent, error)
	LastSeenByScreen(ctx context.Context) ([]ScreenLastSeen, error)
}

// interface for the period summary store
type SummaryRepository interface {
	// Upsert overwrites plays/seconds of rows whose key already exists
	Upsert(ctx context.Context, rows []PeriodSummary) error
	// rows of the period type with period_start in [from, to]
	ListByPeriod(ctx context.Context, periodType PeriodType, from, to time.Time) ([]PeriodSummary, error)
}

// interface for an outbound alert channel
type Notifier interface {
	Name() string
	Notify(ctx context.Context, alert Alert) error
}

// interface for data export
type ExportClient interface {
	Export(ctx context.Context, rows []PeriodSummary, date time.Time) error
}

// interface for caching lifetime stats of the list view
type StatsCache interface {
	Get(ctx context.Context, adID int64) (*AdStats, bool)
	Set(ctx context.Context, stats *AdStats)
}
