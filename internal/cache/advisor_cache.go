package cache

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/simplificateurs/advisory-api/internal/domain"
	"github.com/simplificateurs/advisory-api/internal/persistence"
)

const advisorListKey = "team:advisors"

// AdvisorCache is a read-through cache for the ordered advisor pool. Every
// team member write must call Invalidate before the next read; a missing or
// unreachable Redis degrades to cache misses, never to stale reads beyond
// the TTL.
type AdvisorCache struct {
	redis  *persistence.Redis
	ttl    time.Duration
	logger *zap.Logger
}

// NewAdvisorCache builds the cache over the shared Redis client.
func NewAdvisorCache(redis *persistence.Redis, ttl time.Duration, logger *zap.Logger) *AdvisorCache {
	return &AdvisorCache{redis: redis, ttl: ttl, logger: logger}
}

// Get returns the cached pool and whether the lookup hit.
func (c *AdvisorCache) Get(ctx context.Context) ([]domain.Advisor, bool) {
	if c == nil || c.redis == nil || c.redis.Client == nil {
		return nil, false
	}
	raw, err := c.redis.Client.Get(ctx, advisorListKey).Bytes()
	if err != nil {
		return nil, false
	}
	var advisors []domain.Advisor
	if err := json.Unmarshal(raw, &advisors); err != nil {
		c.logger.Warn("advisor cache entry corrupt; dropping", zap.Error(err))
		_ = c.redis.Client.Del(ctx, advisorListKey).Err()
		return nil, false
	}
	return advisors, true
}

// Set stores the pool under the configured TTL.
func (c *AdvisorCache) Set(ctx context.Context, advisors []domain.Advisor) {
	if c == nil || c.redis == nil || c.redis.Client == nil {
		return
	}
	raw, err := json.Marshal(advisors)
	if err != nil {
		c.logger.Warn("advisor cache marshal failed", zap.Error(err))
		return
	}
	if err := c.redis.Client.Set(ctx, advisorListKey, raw, c.ttl).Err(); err != nil {
		c.logger.Debug("advisor cache set failed", zap.Error(err))
	}
}

// Invalidate drops the cached pool.
func (c *AdvisorCache) Invalidate(ctx context.Context) {
	if c == nil || c.redis == nil || c.redis.Client == nil {
		return
	}
	if err := c.redis.Client.Del(ctx, advisorListKey).Err(); err != nil {
		c.logger.Debug("advisor cache invalidate failed", zap.Error(err))
	}
}
