package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Application settings
type Config struct {
	Server   ServerConfig
	Logging  LoggingConfig
	Database DatabaseConfig
	Cache    CacheConfig
	Health   HealthConfig
	Rollup   RollupConfig
	Capacity CapacityConfig
	Alerts   AlertsConfig
	Export   ExportConfig
}

// Server settings
type ServerConfig struct {
	Port           string
	RequestTimeout time.Duration
}

// Logging settings
type LoggingConfig struct {
	Level string
}

// Empty URL selects the in-memory repositories
type DatabaseConfig struct {
	URL          string
	MaxOpenConns int
	MaxIdleConns int
}

type CacheConfig struct {
	RedisAddr string
	TTL       time.Duration
}

type HealthConfig struct {
	Timeout  time.Duration
	Interval time.Duration
}

type RollupConfig struct {
	DailyCron            string
	WeeklyCron           string
	MonthlyCron          string
	WeeklyLookbackDays   int
	MonthlyLookbackMonth int
}

// Filler spots appended to every playlist loop
type CapacityConfig struct {
	FillerSpotCount   int
	FillerSpotSeconds float64
}

type AlertsConfig struct {
	DiscordWebhookURL string
	SlackWebhookURL   string
	SlackMinInterval  time.Duration
}

type ExportConfig struct {
	SinkURL    string
	SinkSecret string
}

func Load() (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	config := &Config{
		Server: ServerConfig{
			Port:           getEnv("PORT", "8080"),
			RequestTimeout: getDurationEnv("REQUEST_TIMEOUT", "30s"),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Database: DatabaseConfig{
			URL:          getEnv("DATABASE_URL", ""),
			MaxOpenConns: getIntEnv("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns: getIntEnv("DB_MAX_IDLE_CONNS", 5),
		},
		Cache: CacheConfig{
			RedisAddr: getEnv("REDIS_ADDR", ""),
			TTL:       getDurationEnv("STATS_CACHE_TTL", "5m"),
		},
		Health: HealthConfig{
			Timeout:  getDurationEnv("HEALTH_TIMEOUT", "1m"),
			Interval: getDurationEnv("HEALTH_INTERVAL", "5m"),
		},
		Rollup: RollupConfig{
			DailyCron:            getEnv("ROLLUP_DAILY_CRON", "0 5 0 * * *"),
			WeeklyCron:           getEnv("ROLLUP_WEEKLY_CRON", "0 15 0 * * MON"),
			MonthlyCron:          getEnv("ROLLUP_MONTHLY_CRON", "0 25 0 1 * *"),
			WeeklyLookbackDays:   getIntEnv("ROLLUP_WEEKLY_LOOKBACK_DAYS", 14),
			MonthlyLookbackMonth: getIntEnv("ROLLUP_MONTHLY_LOOKBACK_MONTHS", 2),
		},
		Capacity: CapacityConfig{
			FillerSpotCount:   getIntEnv("FILLER_SPOT_COUNT", 2),
			FillerSpotSeconds: getFloatEnv("FILLER_SPOT_SECONDS", 10),
		},
		Alerts: AlertsConfig{
			DiscordWebhookURL: getEnv("DISCORD_WEBHOOK_URL", ""),
			SlackWebhookURL:   getEnv("SLACK_WEBHOOK_URL", ""),
			SlackMinInterval:  getDurationEnv("SLACK_MIN_INTERVAL", "1s"),
		},
		Export: ExportConfig{
			SinkURL:    getEnv("EXPORT_SINK_URL", ""),
			SinkSecret: getEnv("EXPORT_SINK_SECRET", ""),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}
	if c.Health.Timeout <= 0 {
		return fmt.Errorf("HEALTH_TIMEOUT must be positive")
	}
	if c.Health.Interval <= 0 {
		return fmt.Errorf("HEALTH_INTERVAL must be positive")
	}
	if c.Capacity.FillerSpotCount < 0 || c.Capacity.FillerSpotSeconds < 0 {
		return fmt.Errorf("filler spot settings must not be negative")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getDurationEnv(key, defaultValue string) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}
