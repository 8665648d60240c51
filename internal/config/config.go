package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	// Tracker / credentials
	AuthMode          string // "github-app" | "oauth-app"
	GitHubOwner       string // data repository owner
	GitHubRepo        string // data repository name
	AppID             int64  // GitHub App id (github-app mode)
	AppInstallationID int64  // GitHub App installation id (github-app mode)
	AppPrivateKey     string // GitHub App private key PEM (github-app mode)

	// Cache / staleness
	WindowTTL      time.Duration // TTL for window snapshots (default: 1m)
	RosterTTL      time.Duration // TTL for the cached roster document (default: 5m)
	RosterInterval time.Duration // interval to refetch the roster (default: 5m)
	SweepInterval  time.Duration // interval to sweep stale in-memory windows (default: 1m)
	ReauthReset    time.Duration // re-arm delay for the re-auth prompt signal (default: 30s)

	// Rate limiting (protects the shared tracker quota)
	RateLimitBurst  int // token bucket burst per client IP
	RateLimitPerMin int // refill per client IP per minute
	TrustProxy      bool

	// Redis
	RedisAddr           string        // ex: "localhost:6379"
	RedisUser           string        // optional
	RedisPassword       string        // optional
	RedisDB             int           // Redis DB number
	RedisDT             time.Duration // Redis dial timeout (ex: 5s)
	RedisRT             time.Duration // Redis read timeout (ex: 3s)
	RedisWT             time.Duration // Redis write timeout (ex: 3s)
	RedisMaxWait        time.Duration // max wait between retries (ex: 10s)
	RedisPingTimeout    time.Duration // timeout for each ping attempt (ex: 5s)
	RedisPoolSize       int           // Redis connection pool size
	RedisConnectTimeout time.Duration // Total time to retry connecting (ex: 30s)
	RedisRetryInterval  time.Duration // Initial wait between retries (ex: 2s, grows exponentially)
}

// source resolves configuration keys: environment first, then the optional
// YAML config file (flat "KEY: value" pairs mirroring the env var names).
type source struct {
	file map[string]string
}

func loadSource() *source {
	s := &source{file: map[string]string{}}
	path := os.Getenv("OFFDAYS_CONFIG_FILE")
	if path == "" {
		return s
	}
	data, err := os.ReadFile(path)
	if err != nil {
		panic(fmt.Sprintf("❌ FATAL: Cannot read config file %s: %v", path, err))
	}
	if err := yaml.Unmarshal(data, &s.file); err != nil {
		panic(fmt.Sprintf("❌ FATAL: Cannot parse config file %s: %v", path, err))
	}
	return s
}

func Load() *Config {
	src := loadSource()

	cfg := &Config{
		// Server settings
		ListenPort:      src.getenv("OFFDAYS_LISTEN_PORT", ":8080"),
		ShutdownTimeout: src.mustDuration("OFFDAYS_SHUTDOWN_TIMEOUT", 5*time.Second),

		// Logging
		LogLevel:  src.getenv("OFFDAYS_LOG_LEVEL", "info"),
		PrettyLog: src.mustBool("OFFDAYS_PRETTY_LOG", true),

		// Tracker / credentials
		AuthMode:    src.getenv("OFFDAYS_AUTH_MODE", "github-app"),
		GitHubOwner: src.requireEnv("OFFDAYS_GITHUB_OWNER"),
		GitHubRepo:  src.requireEnv("OFFDAYS_GITHUB_REPO"),

		// Cache / staleness
		WindowTTL:      src.mustDuration("OFFDAYS_WINDOW_TTL", time.Minute),
		RosterTTL:      src.mustDuration("OFFDAYS_ROSTER_TTL", 5*time.Minute),
		RosterInterval: src.mustDuration("OFFDAYS_ROSTER_INTERVAL", 5*time.Minute),
		SweepInterval:  src.mustDuration("OFFDAYS_SWEEP_INTERVAL", time.Minute),
		ReauthReset:    src.mustDuration("OFFDAYS_REAUTH_RESET", 30*time.Second),

		// Rate limiting
		RateLimitBurst:  src.getenvInt("OFFDAYS_RATE_LIMIT_BURST", 20),
		RateLimitPerMin: src.getenvInt("OFFDAYS_RATE_LIMIT_PER_MIN", 60),
		TrustProxy:      src.mustBool("OFFDAYS_TRUST_PROXY", false),

		// Redis settings
		RedisAddr:           src.requireEnv("OFFDAYS_REDIS_ADDR"),
		RedisUser:           src.getenv("OFFDAYS_REDIS_USERNAME", "default"),
		RedisPassword:       src.getenv("OFFDAYS_REDIS_PASSWORD", ""),
		RedisDB:             src.getenvInt("OFFDAYS_REDIS_DB", 0),
		RedisDT:             src.mustDuration("OFFDAYS_REDIS_DIAL_TIMEOUT", 5*time.Second),
		RedisRT:             src.mustDuration("OFFDAYS_REDIS_READ_TIMEOUT", 3*time.Second),
		RedisWT:             src.mustDuration("OFFDAYS_REDIS_WRITE_TIMEOUT", 3*time.Second),
		RedisMaxWait:        src.mustDuration("OFFDAYS_REDIS_MAX_WAIT", 10*time.Second),
		RedisPingTimeout:    src.mustDuration("OFFDAYS_REDIS_PING_TIMEOUT", 5*time.Second),
		RedisPoolSize:       src.getenvInt("OFFDAYS_REDIS_POOL_SIZE", 10),
		RedisConnectTimeout: src.mustDuration("OFFDAYS_REDIS_CONNECT_TIMEOUT", 30*time.Second),
		RedisRetryInterval:  src.mustDuration("OFFDAYS_REDIS_RETRY_INTERVAL", 2*time.Second),
	}

	switch cfg.AuthMode {
	case "github-app":
		cfg.AppID = src.requireEnvInt64("OFFDAYS_GITHUB_APP_ID")
		cfg.AppInstallationID = src.requireEnvInt64("OFFDAYS_GITHUB_APP_INSTALLATION_ID")
		cfg.AppPrivateKey = src.requireEnv("OFFDAYS_GITHUB_APP_PRIVATE_KEY")
	case "oauth-app":
		// All tracker calls use per-request user tokens.
	default:
		panic(fmt.Sprintf("❌ FATAL: OFFDAYS_AUTH_MODE must be github-app or oauth-app, got %q", cfg.AuthMode))
	}

	// Log config only in debug mode with redacted sensitive fields
	if cfg.LogLevel == "debug" {
		cfgCopy := *cfg
		if cfg.RedisPassword != "" {
			cfgCopy.RedisPassword = "***REDACTED***"
		}
		if cfg.AppPrivateKey != "" {
			cfgCopy.AppPrivateKey = "***REDACTED***"
		}
		log.Printf("[DEBUG] cfg: %+v\n", cfgCopy)
	}

	return cfg
}

// helpers
func (s *source) lookup(key string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return s.file[key]
}

func (s *source) getenv(key, def string) string {
	if v := s.lookup(key); v != "" {
		return v
	}
	return def
}

func (s *source) requireEnv(key string) string {
	v := s.lookup(key)
	if v == "" {
		panic(fmt.Sprintf("❌ FATAL: Required configuration %s is not set", key))
	}
	return v
}

func (s *source) requireEnvInt64(key string) int64 {
	v := s.requireEnv(key)
	i, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		panic(fmt.Sprintf("❌ FATAL: Invalid integer value for %s: %s", key, v))
	}
	return i
}

func (s *source) getenvInt(key string, def int) int {
	if v := s.lookup(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func (s *source) mustBool(key string, def bool) bool {
	if v := s.lookup(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func (s *source) mustDuration(key string, def time.Duration) time.Duration {
	if v := s.lookup(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
