// Package config loads service configuration from the environment,
// optionally seeded from a .env file.
package config

import (
	"errors"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
)

type Config struct {
	ServerAddr  string
	DatabaseURL string
	JWTSecret   string

	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration

	LogMode     string // "production" or "development"
	AutoMigrate bool

	MaxOpenConns int
	MaxIdleConns int
}

// Load reads configuration. DATABASE_URL is the only required variable.
func Load() (*Config, error) {
	// Missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := &Config{
		ServerAddr:      getenv("SERVER_ADDR", ":8080"),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		JWTSecret:       getenv("JWT_SECRET", "local_dev_secret"),
		AccessTokenTTL:  time.Duration(cast.ToInt(getenv("ACCESS_TOKEN_TTL_MINUTES", "30"))) * time.Minute,
		RefreshTokenTTL: time.Duration(cast.ToInt(getenv("REFRESH_TOKEN_TTL_HOURS", "24"))) * time.Hour,
		LogMode:         getenv("LOG_MODE", "development"),
		AutoMigrate:     cast.ToBool(getenv("AUTO_MIGRATE", "false")),
		MaxOpenConns:    cast.ToInt(getenv("DB_MAX_OPEN_CONNS", "20")),
		MaxIdleConns:    cast.ToInt(getenv("DB_MAX_IDLE_CONNS", "10")),
	}
	if cfg.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL environment variable is required")
	}
	return cfg, nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
