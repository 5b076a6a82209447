package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"signagestats/internal/delivery"
	"signagestats/internal/domain"
	"signagestats/internal/infrastructure"
	"signagestats/internal/infrastructure/postgres"
	"signagestats/internal/scheduler"
	"signagestats/internal/usecase"
	"signagestats/pkg/config"
	"signagestats/pkg/logger"
	"signagestats/pkg/metrics"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

type stores struct {
	assets    domain.AssetRepository
	schedules domain.ScheduleRepository
	events    domain.EventRepository
	summaries domain.SummaryRepository
	db        *sqlx.DB
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Logging.Level)
	m := metrics.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStores(ctx, cfg, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to open stores")
	}
	if st.db != nil {
		defer st.db.Close()
	}

	var cache domain.StatsCache
	if cfg.Cache.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.Cache.RedisAddr})
		defer client.Close()
		if err := client.Ping(ctx).Err(); err != nil {
			log.WithError(err).WithField("addr", cfg.Cache.RedisAddr).Warn("Redis unavailable, stats cache disabled")
		} else {
			cache = infrastructure.NewStatsCache(client, cfg.Cache.TTL, log)
		}
	}

	httpClient := infrastructure.NewHTTPClient(10*time.Second, rate.Limit(10), 5, log, m)

	var notifiers []domain.Notifier
	if cfg.Alerts.DiscordWebhookURL != "" {
		notifiers = append(notifiers, infrastructure.NewDiscordNotifier(httpClient, cfg.Alerts.DiscordWebhookURL, log))
	}
	if cfg.Alerts.SlackWebhookURL != "" {
		notifiers = append(notifiers, infrastructure.NewSlackNotifier(httpClient, cfg.Alerts.SlackWebhookURL, cfg.Alerts.SlackMinInterval, log))
	}

	var exportClient domain.ExportClient
	if cfg.Export.SinkURL != "" {
		exportClient = infrastructure.NewExportSink(httpClient, cfg.Export.SinkURL, cfg.Export.SinkSecret, log)
	}

	filler := usecase.FillerPolicy{
		SpotCount:   cfg.Capacity.FillerSpotCount,
		SpotSeconds: cfg.Capacity.FillerSpotSeconds,
	}

	aggregator := usecase.NewEventAggregator(st.events, log, m)
	estimator := usecase.NewCapacityEstimator(st.schedules, filler, log, m)
	reports := usecase.NewReportService(st.assets, st.schedules, st.summaries, aggregator, estimator, cache, log, m)
	rollups := usecase.NewRollupService(st.events, st.summaries, log, m)
	health := usecase.NewHealthMonitor(st.events, notifiers, usecase.NewStatusStore(), cfg.Health.Timeout, log, m)
	export := usecase.NewExportService(st.summaries, exportClient, log, m)

	sched := scheduler.New(rollups, health, cfg.Rollup, cfg.Health.Interval, log)
	if err := sched.Start(); err != nil {
		log.WithError(err).Fatal("Failed to start scheduler")
	}

	handlers := delivery.NewHTTPHandlers(reports, rollups, health, export, log)
	router := delivery.NewHTTPRouter(handlers, log, m, cfg.Server.RequestTimeout)

	server := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router.SetupRoutes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.WithFields(map[string]any{
			"port":      cfg.Server.Port,
			"postgres":  st.db != nil,
			"cache":     cache != nil,
			"notifiers": len(notifiers),
			"export":    exportClient != nil,
		}).Info("Starting server")

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("HTTP server failed")
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("HTTP server shutdown failed")
	}
	if err := sched.Stop(shutdownCtx); err != nil {
		log.WithError(err).Error("Scheduler shutdown failed")
	}
}

// openStores selects postgres when DATABASE_URL is set, in-memory repositories otherwise
func openStores(ctx context.Context, cfg *config.Config, log *logger.Logger) (*stores, error) {
	if cfg.Database.URL == "" {
		log.Warn("DATABASE_URL not set, using in-memory repositories")
		return &stores{
			assets:    infrastructure.NewAssetRepository(log),
			schedules: infrastructure.NewScheduleRepository(log),
			events:    infrastructure.NewEventRepository(log),
			summaries: infrastructure.NewSummaryRepository(log),
		}, nil
	}

	db, err := postgres.Open(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}
	if err := postgres.EnsureSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &stores{
		assets:    postgres.NewAssetRepository(db),
		schedules: postgres.NewScheduleRepository(db),
		events:    postgres.NewEventRepository(db),
		summaries: postgres.NewSummaryRepository(db),
		db:        db,
	}, nil
}
