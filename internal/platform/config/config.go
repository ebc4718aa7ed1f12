package config

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

const (
	StorageMemory   = "memory"
	StorageFile     = "file"
	StorageRedis    = "redis"
	StoragePostgres = "postgres"
)

type Config struct {
	Addr           string        `env:"CONSOLE_ADDR, default=127.0.0.1:3000"`
	APIBaseURL     string        `env:"API_BASE_URL, default=http://localhost:5000/api"`
	APITimeout     time.Duration `env:"API_TIMEOUT, default=15s"`
	Environment    string        `env:"APP_ENV, default=development"`
	LogLevel       string        `env:"LOG_LEVEL, default=info"`
	LogPretty      bool          `env:"LOG_PRETTY, default=false"`
	SearchDebounce time.Duration `env:"SEARCH_DEBOUNCE, default=500ms"`
	JobQueueSize   int           `env:"JOB_QUEUE_SIZE, default=64"`
	MaxBodyBytes   int64         `env:"MAX_BODY_BYTES, default=1048576"`
	MetricsEnabled bool          `env:"METRICS_ENABLED, default=true"`
	// LoginAttempts caps sign-in and sign-up posts per minute, per IP and per email.
	LoginAttempts int `env:"LOGIN_ATTEMPTS_PER_MINUTE, default=10"`
	// RequestsPerMinute caps guarded console requests per client.
	RequestsPerMinute int `env:"RATE_LIMIT_PER_MINUTE, default=600"`
	// TrustProxy honours X-Forwarded-For for rate limiting. Only set it behind
	// a proxy that overwrites the header.
	TrustProxy bool `env:"TRUST_PROXY, default=false"`

	Storage StorageConfig
}

type StorageConfig struct {
	Driver      string `env:"STORAGE_DRIVER, default=file"`
	Path        string `env:"STORAGE_PATH, default=.hrconsole/session.json"`
	Key         string `env:"STORAGE_KEY"`
	RedisAddr   string `env:"REDIS_ADDR, default=localhost:6379"`
	RedisDB     int    `env:"REDIS_DB, default=0"`
	RedisPrefix string `env:"REDIS_PREFIX, default=hrconsole:"`
	DatabaseURL string `env:"DATABASE_URL"`
}

// Load reads a .env file when present, then the process environment.
func Load(ctx context.Context) (Config, error) {
	_ = godotenv.Load()
	return LoadFrom(ctx, envconfig.OsLookuper())
}

// LoadFrom resolves the config against an arbitrary lookuper.
func LoadFrom(ctx context.Context, lookuper envconfig.Lookuper) (Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper}); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	parsed, err := url.Parse(c.APIBaseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("API_BASE_URL must be an absolute URL")
	}
	if c.APITimeout <= 0 {
		return fmt.Errorf("API_TIMEOUT must be positive")
	}
	if c.SearchDebounce < 0 {
		return fmt.Errorf("SEARCH_DEBOUNCE must not be negative")
	}
	if c.JobQueueSize <= 0 {
		return fmt.Errorf("JOB_QUEUE_SIZE must be positive")
	}
	if c.LoginAttempts < 0 {
		return fmt.Errorf("LOGIN_ATTEMPTS_PER_MINUTE must not be negative")
	}
	if c.RequestsPerMinute < 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must not be negative")
	}
	if c.MaxBodyBytes < 1024 {
		return fmt.Errorf("MAX_BODY_BYTES must be at least 1024")
	}
	switch c.Storage.Driver {
	case StorageMemory:
	case StorageFile:
		if strings.TrimSpace(c.Storage.Path) == "" {
			return fmt.Errorf("STORAGE_PATH is required for the file storage driver")
		}
	case StorageRedis:
		if strings.TrimSpace(c.Storage.RedisAddr) == "" {
			return fmt.Errorf("REDIS_ADDR is required for the redis storage driver")
		}
	case StoragePostgres:
		if strings.TrimSpace(c.Storage.DatabaseURL) == "" {
			return fmt.Errorf("DATABASE_URL is required for the postgres storage driver")
		}
	default:
		return fmt.Errorf("STORAGE_DRIVER must be one of memory, file, redis, postgres")
	}
	if c.Environment == "production" && strings.TrimSpace(c.Storage.Key) == "" && c.Storage.Driver != StorageMemory {
		return fmt.Errorf("STORAGE_KEY must be set in production so the persisted token is sealed")
	}
	return nil
}
