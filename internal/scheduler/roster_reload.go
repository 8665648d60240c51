package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/teamoff/offdays/internal/domain"
	"github.com/teamoff/offdays/internal/logger"
	"github.com/teamoff/offdays/internal/repository"
	redisstore "github.com/teamoff/offdays/internal/store/redis"
)

// RosterReloader keeps a current copy of the team configuration document,
// refetching it on an interval and on manual trigger. Handlers read the
// roster through Current instead of hitting the tracker per request.
type RosterReloader struct {
	repo          *repository.Repository
	store         *redisstore.Store
	logger        logger.Logger
	interval      time.Duration
	rosterTTL     time.Duration
	stopCh        chan struct{}
	manualTrigger chan struct{}

	mu      sync.RWMutex
	current *domain.TeamConfig
}

// NewRosterReloader creates a roster reloader.
func NewRosterReloader(
	repo *repository.Repository,
	store *redisstore.Store,
	log logger.Logger,
	interval time.Duration,
	rosterTTL time.Duration,
	manualTrigger chan struct{},
) *RosterReloader {
	return &RosterReloader{
		repo:          repo,
		store:         store,
		logger:        log,
		interval:      interval,
		rosterTTL:     rosterTTL,
		stopCh:        make(chan struct{}),
		manualTrigger: manualTrigger,
	}
}

// Start fetches the roster once (falling back to the redis copy when the
// tracker is unreachable) and begins the periodic refresh.
func (rr *RosterReloader) Start(ctx context.Context) error {
	if err := rr.Reload(ctx); err != nil {
		rr.logger.Warn("initial roster fetch failed, trying redis copy",
			logger.Error(err))
		cfg, ok, redisErr := rr.store.GetRoster(ctx)
		if redisErr != nil || !ok {
			return fmt.Errorf("roster unavailable from tracker and redis: %w", err)
		}
		rr.setCurrent(cfg)
		rr.logger.Info("roster warmed from redis",
			logger.Int("members", len(cfg.Members)))
	}

	ticker := time.NewTicker(rr.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := rr.Reload(ctx); err != nil {
					rr.logger.Error("failed to reload roster", logger.Error(err))
				}
			case <-rr.manualTrigger:
				rr.logger.Info("manual roster reload triggered")
				if err := rr.Reload(ctx); err != nil {
					rr.logger.Error("failed to reload roster", logger.Error(err))
				}
			case <-rr.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the reloader
func (rr *RosterReloader) Stop() {
	close(rr.stopCh)
}

// Reload fetches the roster from the tracker and updates the current copy
// and the redis cache.
func (rr *RosterReloader) Reload(ctx context.Context) error {
	cfg, err := rr.repo.FetchTeamConfig(ctx, "")
	if err != nil {
		return err
	}

	rr.setCurrent(cfg)
	rr.logger.Info("roster reloaded",
		logger.Int("members", len(cfg.Members)),
		logger.Int("vacation_types", len(cfg.VacationTypes)))

	// Redis copy is best effort; memory is the primary source.
	if err := rr.store.SaveRoster(ctx, cfg, rr.rosterTTL); err != nil {
		rr.logger.Warn("failed to save roster to redis", logger.Error(err))
	}
	return nil
}

// Current returns the latest roster copy. ok is false before the first
// successful fetch.
func (rr *RosterReloader) Current() (*domain.TeamConfig, bool) {
	rr.mu.RLock()
	defer rr.mu.RUnlock()
	return rr.current, rr.current != nil
}

func (rr *RosterReloader) setCurrent(cfg *domain.TeamConfig) {
	rr.mu.Lock()
	defer rr.mu.Unlock()
	rr.current = cfg
}
