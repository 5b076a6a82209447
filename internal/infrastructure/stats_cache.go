package infrastructure

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"signagestats/internal/domain"
	"signagestats/pkg/logger"

	"github.com/redis/go-redis/v9"
)

const statsKeyPrefix = "signage:stats:lifetime:" // signage:stats:lifetime:{ad_id}

// StatsCache keeps lifetime stats of the ad list view in redis.
// Cache errors are logged and treated as misses.
type StatsCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *logger.Logger
}

func NewStatsCache(client *redis.Client, ttl time.Duration, logger *logger.Logger) *StatsCache {
	return &StatsCache{
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

func (c *StatsCache) Get(ctx context.Context, adID int64) (*domain.AdStats, bool) {
	data, err := c.client.Get(ctx, statsKey(adID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		c.logger.WithContext(ctx).WithError(err).WithField("ad_id", adID).Warn("Failed to read stats cache")
		return nil, false
	}

	var stats domain.AdStats
	if err := json.Unmarshal(data, &stats); err != nil {
		c.logger.WithContext(ctx).WithError(err).WithField("ad_id", adID).Warn("Discarding malformed stats cache entry")
		return nil, false
	}
	return &stats, true
}

func (c *StatsCache) Set(ctx context.Context, stats *domain.AdStats) {
	data, err := json.Marshal(stats)
	if err != nil {
		c.logger.WithContext(ctx).WithError(err).Warn("Failed to marshal stats for cache")
		return
	}

	if err := c.client.Set(ctx, statsKey(stats.AdID), data, c.ttl).Err(); err != nil {
		c.logger.WithContext(ctx).WithError(err).WithField("ad_id", stats.AdID).Warn("Failed to write stats cache")
	}
}

func statsKey(adID int64) string {
	return fmt.Sprintf("%s%d", statsKeyPrefix, adID)
}
