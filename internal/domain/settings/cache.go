package settings

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const cacheKey = "settings:reward"

// Cache is a read-through cache in front of the settings row.
// Failures are logged and treated as misses.
type Cache interface {
	Get(ctx context.Context) (*RewardSettings, bool)
	Set(ctx context.Context, s *RewardSettings)
	Invalidate(ctx context.Context)
}

// NewRedisCache returns a redis-backed cache, or a no-op cache when client is nil.
func NewRedisCache(client *redis.Client, ttl time.Duration) Cache {
	if client == nil {
		return noopCache{}
	}
	return &redisCache{client: client, ttl: ttl}
}

type redisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func (c *redisCache) Get(ctx context.Context) (*RewardSettings, bool) {
	raw, err := c.client.Get(ctx, cacheKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Warn().Err(err).Msg("settings cache get failed")
		}
		return nil, false
	}

	var s RewardSettings
	if err := json.Unmarshal(raw, &s); err != nil {
		log.Warn().Err(err).Msg("settings cache entry is corrupt")
		return nil, false
	}
	return &s, true
}

func (c *redisCache) Set(ctx context.Context, s *RewardSettings) {
	raw, err := json.Marshal(s)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, cacheKey, raw, c.ttl).Err(); err != nil {
		log.Warn().Err(err).Msg("settings cache set failed")
	}
}

func (c *redisCache) Invalidate(ctx context.Context) {
	if err := c.client.Del(ctx, cacheKey).Err(); err != nil {
		log.Warn().Err(err).Msg("settings cache invalidate failed")
	}
}

type noopCache struct{}

func (noopCache) Get(context.Context) (*RewardSettings, bool) { return nil, false }
func (noopCache) Set(context.Context, *RewardSettings)        {}
func (noopCache) Invalidate(context.Context)                  {}
