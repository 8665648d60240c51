package scheduler

import (
	"context"

	"github.com/teamoff/offdays/internal/cache"
	"github.com/teamoff/offdays/internal/logger"
	redisstore "github.com/teamoff/offdays/internal/store/redis"
)

// RedisWarmer loads live window snapshots from Redis into the in-memory
// cache on startup, so a restarted instance serves without refetching
// every window from the tracker.
type RedisWarmer struct {
	store  *redisstore.Store
	cache  *cache.WindowCache
	logger logger.Logger
}

// NewRedisWarmer creates a Redis warmer.
func NewRedisWarmer(
	store *redisstore.Store,
	c *cache.WindowCache,
	log logger.Logger,
) *RedisWarmer {
	return &RedisWarmer{
		store:  store,
		cache:  c,
		logger: log,
	}
}

// Warm loads every live snapshot into the in-memory cache.
func (rw *RedisWarmer) Warm(ctx context.Context) error {
	rw.logger.Info("warming window cache from redis")

	keys, err := rw.store.AllWindowKeys(ctx)
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		rw.logger.Info("no window snapshots found in redis")
		return nil
	}

	warmed := 0
	for _, key := range keys {
		records, ok, err := rw.store.GetWindow(ctx, key)
		if err != nil || !ok {
			// Skip snapshots that vanished or do not parse.
			continue
		}
		rw.cache.Put(key, records)
		warmed++
	}

	rw.logger.Info("warmed window cache from redis",
		logger.Int("windows", warmed))
	return nil
}
