package config

import (
	"os"
	"time"

	"github.com/spf13/cast"
)

type Config struct {
	Port            int
	DatabaseURL     string
	JWTSecret       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	LogLevel        string
}

func Load() *Config {
	return &Config{
		Port:            envInt("PORT", 8080),
		DatabaseURL:     env("DATABASE_URL", "postgres://movieapi:movieapi@db:5432/movieapi?sslmode=disable"),
		JWTSecret:       env("JWT_SECRET", "change-me-in-production"),
		AccessTokenTTL:  envMinutes("ACCESS_TOKEN_TTL_MINUTES", 30),
		RefreshTokenTTL: envMinutes("REFRESH_TOKEN_TTL_MINUTES", 24*60),
		LogLevel:        env("LOG_LEVEL", "info"),
	}
}

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := cast.ToIntE(v); err == nil {
			return i
		}
	}
	return fallback
}

func envMinutes(key string, fallback int) time.Duration {
	return time.Duration(envInt(key, fallback)) * time.Minute
}
