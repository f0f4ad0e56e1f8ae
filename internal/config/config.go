// Package config resolves runtime settings from the environment and an
// optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/abhisek/fluentz/internal/assessment"
)

// Storage backends.
const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// Config holds all runtime settings.
type Config struct {
	// Backend selects the document store: "sqlite", "redis" or "memory".
	Backend string

	// DBPath is the SQLite file. Empty means the default data dir.
	DBPath string

	Redis RedisConfig

	// User is the learner identity documents are scoped to.
	User string

	// TimeZone names the zone calendar days are counted in. Empty means
	// the local zone.
	TimeZone string

	// TickInterval is one countdown step. Default: 1s.
	TickInterval time.Duration

	LogLevel slog.Level
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Addr     string // Default: "localhost:6379"
	Password string
	DB       int
	Prefix   string // Default: "fluentz:"
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Backend: BackendSQLite,
		Redis: RedisConfig{
			Addr:   "localhost:6379",
			Prefix: "fluentz:",
		},
		User:         "default",
		TickInterval: assessment.DefaultTickInterval,
		LogLevel:     slog.LevelWarn,
	}
}

// LoadDotEnv loads variables from the given files (default ".env")
// without overriding ones already set. Missing files are not an error.
func LoadDotEnv(paths ...string) error {
	err := godotenv.Load(paths...)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("load env file: %w", err)
}

// FromEnv builds a Config from FLUENTZ_* environment variables, falling
// back to defaults for unset values.
func FromEnv() (Config, error) {
	cfg := DefaultConfig()

	if v := os.Getenv("FLUENTZ_STORE"); v != "" {
		cfg.Backend = strings.ToLower(v)
	}
	if v := os.Getenv("FLUENTZ_DB"); v != "" {
		cfg.DBPath = v
	}

	if v := os.Getenv("FLUENTZ_REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("FLUENTZ_REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if v := os.Getenv("FLUENTZ_REDIS_DB"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("FLUENTZ_REDIS_DB: %w", err)
		}
		cfg.Redis.DB = n
	}
	if v := os.Getenv("FLUENTZ_REDIS_PREFIX"); v != "" {
		cfg.Redis.Prefix = v
	}

	if v := os.Getenv("FLUENTZ_USER"); v != "" {
		cfg.User = v
	}
	if v := os.Getenv("FLUENTZ_TZ"); v != "" {
		cfg.TimeZone = v
	}
	if v := os.Getenv("FLUENTZ_TICK"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return cfg, fmt.Errorf("FLUENTZ_TICK: %w", err)
		}
		cfg.TickInterval = d
	}
	if v := os.Getenv("FLUENTZ_LOG_LEVEL"); v != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(v)); err != nil {
			return cfg, fmt.Errorf("FLUENTZ_LOG_LEVEL: %w", err)
		}
	}

	return cfg, nil
}

// Validate checks the settings needed by the selected backend.
func (c Config) Validate() error {
	switch c.Backend {
	case BackendSQLite, BackendMemory:
	case BackendRedis:
		if c.Redis.Addr == "" {
			return fmt.Errorf("FLUENTZ_REDIS_ADDR is required for the redis store")
		}
	default:
		return fmt.Errorf("unknown store backend: %q", c.Backend)
	}

	if strings.TrimSpace(c.User) == "" {
		return fmt.Errorf("user must not be empty")
	}
	if c.TickInterval <= 0 {
		return fmt.Errorf("tick interval must be positive, got %s", c.TickInterval)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location resolves TimeZone.
func (c Config) Location() (*time.Location, error) {
	if c.TimeZone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("time zone %q: %w", c.TimeZone, err)
	}
	return loc, nil
}
