package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type AppConfig struct {
	OpenWeatherAPIKey string `env:"OPENWEATHER_API_KEY"`
	UnsplashAccessKey string `env:"UNSPLASH_ACCESS_KEY"`

	// BackdropQuery is the image search term used before the first search.
	BackdropQuery string `env:"DEFAULT_BACKDROP_QUERY" envDefault:"weather"`

	HTTPTimeout time.Duration `env:"HTTP_TIMEOUT" envDefault:"10s"`

	// Session retention.
	SessionMaxCount      int           `env:"SESSION_MAX_COUNT"      envDefault:"1000"` // 0 = unlimited
	SessionMaxAge        time.Duration `env:"SESSION_MAX_AGE"        envDefault:"30m"`  // idle time, 0 = unlimited
	SessionSweepInterval time.Duration `env:"SESSION_SWEEP_INTERVAL" envDefault:"5m"`

	Port     string `env:"PORT"      envDefault:"8080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// Load reads configuration from the environment (and a .env file if present).
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found or error loading it", slog.Any("error", err))
	}

	cfg, err := env.ParseAs[AppConfig]()
	if err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	if cfg.HTTPTimeout <= 0 {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: must be positive, got %s", cfg.HTTPTimeout)
	}
	if cfg.SessionMaxCount < 0 {
		return nil, fmt.Errorf("invalid SESSION_MAX_COUNT: %d", cfg.SessionMaxCount)
	}

	// Providers answer 401 without a key, which users see as "Invalid API key".
	if cfg.OpenWeatherAPIKey == "" {
		slog.Warn("OPENWEATHER_API_KEY is not set")
	}
	if cfg.UnsplashAccessKey == "" {
		slog.Warn("UNSPLASH_ACCESS_KEY is not set")
	}

	return &cfg, nil
}

// SlogLevel converts LogLevel to a slog.Level, defaulting to Info.
func (c *AppConfig) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
