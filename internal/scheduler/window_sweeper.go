package scheduler

import (
	"context"
	"time"

	"github.com/teamoff/offdays/internal/cache"
	"github.com/teamoff/offdays/internal/logger"
	redisstore "github.com/teamoff/offdays/internal/store/redis"
)

// WindowSweeper drops in-memory windows whose redis snapshot has expired.
// The in-memory cache never expires entries on its own; snapshot TTLs are
// the staleness policy and the sweeper makes memory follow them.
type WindowSweeper struct {
	store    *redisstore.Store
	cache    *cache.WindowCache
	logger   logger.Logger
	interval time.Duration
	stopCh   chan struct{}
}

// NewWindowSweeper creates a window sweeper.
func NewWindowSweeper(
	store *redisstore.Store,
	c *cache.WindowCache,
	log logger.Logger,
	interval time.Duration,
) *WindowSweeper {
	return &WindowSweeper{
		store:    store,
		cache:    c,
		logger:   log,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the periodic sweep.
func (ws *WindowSweeper) Start(ctx context.Context) error {
	ticker := time.NewTicker(ws.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				ws.Sweep(ctx)
			case <-ws.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
	return nil
}

// Stop stops the sweeper
func (ws *WindowSweeper) Stop() {
	close(ws.stopCh)
}

// Sweep drops every cached window whose snapshot is no longer live. When
// redis cannot be asked, windows are kept: serving stale is better than
// refetching everything on a cache hiccup.
func (ws *WindowSweeper) Sweep(ctx context.Context) {
	dropped := 0
	for _, key := range ws.cache.Keys() {
		live, err := ws.store.WindowExists(ctx, key)
		if err != nil {
			ws.logger.Warn("sweep: cannot check window snapshot",
				logger.String("window", string(key)),
				logger.Error(err))
			continue
		}
		if !live {
			ws.cache.Drop(key)
			dropped++
		}
	}
	if dropped > 0 {
		ws.logger.Debug("swept stale windows", logger.Int("dropped", dropped))
	}
}
