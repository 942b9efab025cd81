package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/kelseyhightower/envconfig"

	"github.com/burphub/burphub/internal/adapters/otel"
	"github.com/burphub/burphub/internal/ratelimit"
	"github.com/burphub/burphub/internal/util"
)

// DefaultDatabaseFile is the SQLite file used when DATABASE_URL is unset.
const DefaultDatabaseFile = "burphub.db"

// Config holds the server configuration.
//
// Values come from, in increasing precedence: Default, an optional TOML
// file, then environment variables.
type Config struct {
	Port              int           `envconfig:"PORT" toml:"port"`
	DatabaseURL       string        `envconfig:"DATABASE_URL" toml:"database_url"`
	DatabaseAuthToken string        `envconfig:"DATABASE_AUTH_TOKEN" toml:"database_auth_token"`
	SyncAPIKey        string        `envconfig:"SYNC_API_KEY" toml:"sync_api_key"`
	RateLimit         int           `envconfig:"RATE_LIMIT" toml:"rate_limit"`
	RateWindow        time.Duration `envconfig:"RATE_WINDOW" toml:"rate_window"`
	TrustProxy        bool          `envconfig:"TRUST_PROXY" toml:"trust_proxy"`
	LogLevel          string        `envconfig:"LOG_LEVEL" toml:"log_level"`
	ShutdownTimeout   time.Duration `envconfig:"SHUTDOWN_TIMEOUT" toml:"shutdown_timeout"`
	OTel              otel.Config   `envconfig:"OTEL" toml:"otel"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Port:            5000,
		RateLimit:       ratelimit.DefaultLimit,
		RateWindow:      ratelimit.DefaultWindow,
		LogLevel:        "info",
		ShutdownTimeout: 10 * time.Second,
	}
}

// DefaultPath returns the config file looked up when no path is given.
func DefaultPath() string {
	dir, err := util.GetXDGConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "config.toml")
}

// Load builds the configuration. An explicit path must exist; the default
// path is read only if present.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			if explicit || !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
			}
		}
	}

	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	if cfg.DatabaseURL == "" {
		dir, err := util.GetXDGDataDir()
		if err != nil {
			return nil, err
		}
		cfg.DatabaseURL = filepath.Join(dir, DefaultDatabaseFile)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks ranges that would otherwise fail late.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.RateLimit <= 0 {
		return fmt.Errorf("rate limit must be positive, got %d", c.RateLimit)
	}
	if c.RateWindow <= 0 {
		return fmt.Errorf("rate window must be positive, got %s", c.RateWindow)
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// Level returns the slog level named by LogLevel.
func (c *Config) Level() slog.Level {
	level, _ := parseLevel(c.LogLevel)
	return level
}

func parseLevel(s string) (slog.Level, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return slog.LevelInfo, nil
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q", s)
	}
	return level, nil
}

// NewLogger returns a text logger on stderr at the configured level.
func (c *Config) NewLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: c.Level()}))
}
