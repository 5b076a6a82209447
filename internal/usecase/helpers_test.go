package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"signagestats/internal/domain"
	"signagestats/internal/infrastructure"
	"signagestats/pkg/clock"
	"signagestats/pkg/logger"
	"signagestats/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
)

func testMetrics() *metrics.Metrics {
	return metrics.NewWithRegistry(prometheus.NewRegistry())
}

func date(s string) time.Time {
	d, err := clock.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func at(s string) time.Time {
	t, err := time.Parse("2006-01-02 15:04:05", s)
	if err != nil {
		panic(err)
	}
	return t
}

func datePtr(s string) *time.Time {
	d := date(s)
	return &d
}

func tod(s string) *clock.TimeOfDay {
	t, err := clock.ParseTimeOfDay(s)
	if err != nil {
		panic(err)
	}
	return &t
}

func id(v int64) *int64 { return &v }

// event builds a play event lasting seconds from start
func event(adID, screenID int64, start string, seconds int) domain.PlayEvent {
	s := at(start)
	end := s.Add(time.Duration(seconds) * time.Second)
	return domain.PlayEvent{AdID: id(adID), ScreenID: id(screenID), Start: s, End: &end}
}

type fixture struct {
	assets    *infrastructure.AssetRepository
	schedules *infrastructure.ScheduleRepository
	events    *infrastructure.EventRepository
	summaries *infrastructure.SummaryRepository
	log       *logger.Logger
	metrics   *metrics.Metrics
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	log := logger.NoOp()
	return &fixture{
		assets:    infrastructure.NewAssetRepository(log),
		schedules: infrastructure.NewScheduleRepository(log),
		events:    infrastructure.NewEventRepository(log),
		summaries: infrastructure.NewSummaryRepository(log),
		log:       log,
		metrics:   testMetrics(),
	}
}

type recordingNotifier struct {
	name   string
	err    error
	mu     sync.Mutex
	alerts []domain.Alert
}

func (n *recordingNotifier) Name() string { return n.name }

func (n *recordingNotifier) Notify(_ context.Context, alert domain.Alert) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.alerts = append(n.alerts, alert)
	return n.err
}

func (n *recordingNotifier) received() []domain.Alert {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]domain.Alert(nil), n.alerts...)
}
