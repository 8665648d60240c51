package deps

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/teamoff/offdays/internal/auth"
	"github.com/teamoff/offdays/internal/cache"
	"github.com/teamoff/offdays/internal/logger"
	"github.com/teamoff/offdays/internal/repository"
	"github.com/teamoff/offdays/internal/scheduler"
	redisstore "github.com/teamoff/offdays/internal/store/redis"
)

// Identifier resolves the acting user behind a request credential.
// Implemented by auth.Router; tests substitute fakes.
type Identifier interface {
	Identify(ctx context.Context, userToken string) (string, error)
}

type Deps struct {
	Logger        logger.Logger
	StartTime     time.Time
	Version       string
	Commit        string
	BuildDate     string
	GoVersion     string
	TimeNow       func() time.Time // for testing, defaults to time.Now
	Repo          *repository.Repository
	Cache         *cache.WindowCache
	Store         *redisstore.Store        // nil disables snapshot write-through
	Roster        *scheduler.RosterReloader // nil in tests without a reloader
	Auth          Identifier
	Reauth        *auth.ReauthSignal
	RedisClient   *redis.Client // for readiness pings
	WindowTTL     time.Duration // snapshot TTL applied on write-through
	TrustProxy    bool          // true if running behind a trusted reverse proxy
	ReloadTrigger chan struct{} // Channel to trigger a manual roster reload
}
