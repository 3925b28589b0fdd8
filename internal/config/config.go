// Package config loads server configuration from the environment,
// with .env.local and .env as optional fallbacks.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/settleroom/settleroom/internal/ledger"
)

// Config holds all server settings.
type Config struct {
	// Port is the HTTP listen port.
	Port string

	// DBPath is the sqlite database file path. Parent directories are
	// created on startup.
	DBPath string

	// JWTSecret signs session tokens. Required.
	JWTSecret string

	// TokenTTL is the session token lifetime.
	TokenTTL time.Duration

	// RedisURL enables the balance cache and resolution notifications
	// when set. Empty disables both.
	RedisURL string

	// LogLevel is debug, info, warn, or error.
	LogLevel string

	// Tolerance is the absolute money comparison tolerance.
	Tolerance float64
}

// Load reads configuration from the environment. .env.local takes
// precedence over .env; both are optional.
func Load() (*Config, error) {
	if err := godotenv.Load(".env.local"); err != nil {
		if err := godotenv.Load(); err != nil {
			slog.Debug("no .env file found, using environment variables")
		}
	}

	cfg := &Config{
		Port:      getEnv("PORT", "8080"),
		DBPath:    getEnv("DB_PATH", "./data/settleroom.db"),
		JWTSecret: os.Getenv("JWT_SECRET"),
		RedisURL:  os.Getenv("REDIS_URL"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		Tolerance: ledger.DefaultTolerance,
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	ttl, err := time.ParseDuration(getEnv("TOKEN_TTL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid TOKEN_TTL: %w", err)
	}
	cfg.TokenTTL = ttl

	if raw := os.Getenv("SETTLE_TOLERANCE"); raw != "" {
		tol, err := strconv.ParseFloat(raw, 64)
		if err != nil || tol <= 0 {
			return nil, fmt.Errorf("invalid SETTLE_TOLERANCE %q", raw)
		}
		cfg.Tolerance = tol
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
