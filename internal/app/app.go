package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/teamoff/offdays/internal/auth"
	"github.com/teamoff/offdays/internal/cache"
	"github.com/teamoff/offdays/internal/config"
	"github.com/teamoff/offdays/internal/httpserver"
	"github.com/teamoff/offdays/internal/httpserver/deps"
	"github.com/teamoff/offdays/internal/logger"
	"github.com/teamoff/offdays/internal/redis"
	"github.com/teamoff/offdays/internal/repository"
	"github.com/teamoff/offdays/internal/scheduler"
	redisstore "github.com/teamoff/offdays/internal/store/redis"
	"github.com/teamoff/offdays/internal/version"
)

type App struct {
	cfg         *config.Config
	logger      logger.Logger
	server      *httpserver.Server
	redisClient *goredis.Client
	reloader    *scheduler.RosterReloader
	sweeper     *scheduler.WindowSweeper
}

func New() (*App, error) {
	cfg := config.Load()

	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)

	// Redis first - fail fast if unavailable
	loggerClient.Infof("Connecting to Redis at %s", cfg.RedisAddr)
	redisClient, err := redis.New(redis.ConnectOptions{
		Addr:           cfg.RedisAddr,
		User:           cfg.RedisUser,
		Password:       cfg.RedisPassword,
		DB:             cfg.RedisDB,
		DialTimeout:    cfg.RedisDT,
		ReadTimeout:    cfg.RedisRT,
		WriteTimeout:   cfg.RedisWT,
		PoolSize:       cfg.RedisPoolSize,
		ConnectTimeout: cfg.RedisConnectTimeout,
		RetryInterval:  cfg.RedisRetryInterval,
		MaxWait:        cfg.RedisMaxWait,
		PingTimeout:    cfg.RedisPingTimeout,
	}, loggerClient)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	loggerClient.Info("Redis initialized successfully")

	authRouter, err := auth.NewRouter(auth.Options{
		Mode:           auth.Mode(cfg.AuthMode),
		Owner:          cfg.GitHubOwner,
		Repo:           cfg.GitHubRepo,
		AppID:          cfg.AppID,
		InstallationID: cfg.AppInstallationID,
		PrivateKey:     cfg.AppPrivateKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build credential router: %w", err)
	}

	repo := repository.New(authRouter, loggerClient)
	windowCache := cache.NewWindowCache()
	store := redisstore.NewStore(redisClient)

	// Restore live window snapshots so a restart does not refetch everything.
	warmer := scheduler.NewRedisWarmer(store, windowCache, loggerClient)
	if err := warmer.Warm(context.Background()); err != nil {
		loggerClient.Warn("failed to warm cache from redis, starting cold",
			logger.Error(err))
	}

	// The roster reloader reads without a user token, which only the
	// installation credential can do. In oauth-app mode handlers fetch the
	// roster per request instead.
	var reloader *scheduler.RosterReloader
	var reloadTrigger chan struct{}
	if auth.Mode(cfg.AuthMode) == auth.ModeGitHubApp {
		reloadTrigger = make(chan struct{}, 1)
		reloader = scheduler.NewRosterReloader(
			repo,
			store,
			loggerClient,
			cfg.RosterInterval,
			cfg.RosterTTL,
			reloadTrigger,
		)
	} else {
		loggerClient.Info("oauth-app mode: roster fetched per request, background reloader disabled")
	}

	sweeper := scheduler.NewWindowSweeper(store, windowCache, loggerClient, cfg.SweepInterval)

	d := deps.Deps{
		Logger:        loggerClient,
		StartTime:     time.Now(),
		Version:       version.Version,
		Commit:        version.Commit,
		BuildDate:     version.BuildDate,
		GoVersion:     version.GoVersion,
		TimeNow:       time.Now,
		Repo:          repo,
		Cache:         windowCache,
		Store:         store,
		Roster:        reloader,
		Auth:          authRouter,
		Reauth:        auth.NewReauthSignal(cfg.ReauthReset),
		RedisClient:   redisClient,
		WindowTTL:     cfg.WindowTTL,
		TrustProxy:    cfg.TrustProxy,
		ReloadTrigger: reloadTrigger,
	}

	server := httpserver.New(cfg, loggerClient, d)

	return &App{
		cfg:         cfg,
		logger:      loggerClient,
		server:      server,
		redisClient: redisClient,
		reloader:    reloader,
		sweeper:     sweeper,
	}, nil
}

func (a *App) Run() error {
	a.logger.Infof("Starting offdays %s (commit=%s, built=%s, go=%s)",
		version.Version, version.Commit, version.BuildDate, version.GoVersion)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if a.reloader != nil {
		if err := a.reloader.Start(ctx); err != nil {
			return fmt.Errorf("failed to start roster reloader: %w", err)
		}
		a.logger.Info("roster reloader started",
			logger.Duration("interval", a.cfg.RosterInterval))
	}

	if err := a.sweeper.Start(ctx); err != nil {
		return fmt.Errorf("failed to start window sweeper: %w", err)
	}
	a.logger.Info("window sweeper started",
		logger.Duration("interval", a.cfg.SweepInterval))

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("Shutting down gracefully...")
	case err := <-errCh:
		return err
	}

	if a.reloader != nil {
		a.reloader.Stop()
	}
	a.sweeper.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Warnf("failed to close redis: %v", err)
		} else {
			a.logger.Info("Redis closed cleanly")
		}
	}

	a.logger.Info("offdays stopped cleanly")
	return nil
}
