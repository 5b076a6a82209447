package scheduler

import (
	"context"
	"fmt"
	"time"

	"signagestats/internal/domain"
	"signagestats/pkg/clock"
	"signagestats/pkg/config"
	"signagestats/pkg/logger"

	"github.com/robfig/cron/v3"
)

type RollupRunner interface {
	AggregateDaily(ctx context.Context, day time.Time) (int, error)
	AggregateWeekly(ctx context.Context, from, to time.Time) (int, error)
	AggregateMonthly(ctx context.Context, from, to time.Time) (int, error)
}

type HealthChecker interface {
	Check(ctx context.Context) ([]domain.ScreenHealth, error)
}

// Scheduler drives the roll-up steps on cron expressions and the health check on a fixed interval.
// A job still running when its next tick fires is skipped.
type Scheduler struct {
	cron           *cron.Cron
	rollups        RollupRunner
	health         HealthChecker
	cfg            config.RollupConfig
	healthInterval time.Duration
	jobTimeout     time.Duration
	now            func() time.Time
	logger         *logger.Logger
}

func New(rollups RollupRunner, health HealthChecker, cfg config.RollupConfig, healthInterval time.Duration, logger *logger.Logger) *Scheduler {
	cronLogger := cron.PrintfLogger(logger)

	return &Scheduler{
		cron: cron.New(
			cron.WithSeconds(),
			cron.WithChain(cron.SkipIfStillRunning(cronLogger), cron.Recover(cronLogger)),
		),
		rollups:        rollups,
		health:         health,
		cfg:            cfg,
		healthInterval: healthInterval,
		jobTimeout:     30 * time.Minute,
		now:            time.Now,
		logger:         logger,
	}
}

// WithClock replaces the time source, used by tests
func (s *Scheduler) WithClock(now func() time.Time) *Scheduler {
	s.now = now
	return s
}

// Start registers every job and starts the cron loop
func (s *Scheduler) Start() error {
	jobs := []struct {
		name string
		spec string
		run  func(context.Context) error
	}{
		{"rollup_daily", s.cfg.DailyCron, s.RunDaily},
		{"rollup_weekly", s.cfg.WeeklyCron, s.RunWeekly},
		{"rollup_monthly", s.cfg.MonthlyCron, s.RunMonthly},
	}

	for _, j := range jobs {
		if _, err := s.cron.AddFunc(j.spec, s.wrap(j.name, j.run)); err != nil {
			return fmt.Errorf("failed to schedule %s with %q: %w", j.name, j.spec, err)
		}
	}

	s.cron.Schedule(cron.Every(s.healthInterval), cron.FuncJob(s.wrap("screen_health", s.RunHealth)))

	s.cron.Start()

	s.logger.WithFields(map[string]any{
		"daily":           s.cfg.DailyCron,
		"weekly":          s.cfg.WeeklyCron,
		"monthly":         s.cfg.MonthlyCron,
		"health_interval": s.healthInterval,
	}).Info("Scheduler started")

	return nil
}

// Stop halts the cron loop and waits for running jobs until ctx is done
func (s *Scheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		s.logger.Info("Scheduler stopped")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("scheduler stop: %w", ctx.Err())
	}
}

// RunDaily rolls up yesterday's events
func (s *Scheduler) RunDaily(ctx context.Context) error {
	yesterday := s.yesterday()
	_, err := s.rollups.AggregateDaily(ctx, yesterday)
	return err
}

// RunWeekly re-derives weeks over the configured lookback ending yesterday
func (s *Scheduler) RunWeekly(ctx context.Context) error {
	to := s.yesterday()
	from := clock.DateOnly(s.now()).AddDate(0, 0, -s.cfg.WeeklyLookbackDays)
	_, err := s.rollups.AggregateWeekly(ctx, from, to)
	return err
}

// RunMonthly re-derives months over the configured lookback ending yesterday
func (s *Scheduler) RunMonthly(ctx context.Context) error {
	to := s.yesterday()
	from := clock.DateOnly(s.now()).AddDate(0, -s.cfg.MonthlyLookbackMonth, 0)
	_, err := s.rollups.AggregateMonthly(ctx, from, to)
	return err
}

func (s *Scheduler) RunHealth(ctx context.Context) error {
	_, err := s.health.Check(ctx)
	return err
}

func (s *Scheduler) yesterday() time.Time {
	return clock.DateOnly(s.now()).AddDate(0, 0, -1)
}

// wrap gives each run its own deadline and job tag; failures are logged only
func (s *Scheduler) wrap(name string, run func(context.Context) error) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.jobTimeout)
		defer cancel()
		ctx = context.WithValue(ctx, logger.JobKey, name)

		start := time.Now()
		if err := run(ctx); err != nil {
			s.logger.WithContext(ctx).WithError(err).Error("Scheduled job failed")
			return
		}
		s.logger.WithContext(ctx).WithField("duration", time.Since(start)).Debug("Scheduled job finished")
	}
}
