package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds everything the application reads from the environment.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Auth     AuthConfig
	Cleanup  CleanupConfig
}

type ServerConfig struct {
	Port string
}

type DatabaseConfig struct {
	Driver string // "sqlite", "postgres" or "mysql"
	DSN    string
}

type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration // lifetime of tokens issued to registered users
	GuestTTL  time.Duration // lifetime of guest tokens and guest accounts
}

type CleanupConfig struct {
	Interval time.Duration // how often expired guest accounts are purged
}

// Load reads the configuration from the environment. JWT_SECRET is required;
// everything else falls back to development defaults.
func Load() (*Config, error) {
	cfg, err := load()
	if err != nil {
		return nil, err
	}

	if cfg.Auth.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is not set")
	}

	return cfg, nil
}

// LoadWithDefaults is Load with a hardcoded development secret. Never use it
// outside local development and tests.
func LoadWithDefaults() (*Config, error) {
	cfg, err := load()
	if err != nil {
		return nil, err
	}

	if cfg.Auth.JWTSecret == "" {
		cfg.Auth.JWTSecret = "dev-secret-do-not-use-in-production"
	}

	return cfg, nil
}

func load() (*Config, error) {
	tokenTTL, err := getEnvInt("TOKEN_TTL_HOURS", 168)
	if err != nil {
		return nil, err
	}

	guestTTL, err := getEnvInt("GUEST_TTL_HOURS", 24)
	if err != nil {
		return nil, err
	}

	cleanupInterval, err := getEnvInt("CLEANUP_INTERVAL_MINUTES", 60)
	if err != nil {
		return nil, err
	}

	return &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "3000"),
		},
		Database: DatabaseConfig{
			Driver: getEnv("DB_DRIVER", "sqlite"),
			DSN:    getEnv("DB_DSN", "taskboard.db"),
		},
		Auth: AuthConfig{
			JWTSecret: os.Getenv("JWT_SECRET"),
			TokenTTL:  time.Duration(tokenTTL) * time.Hour,
			GuestTTL:  time.Duration(guestTTL) * time.Hour,
		},
		Cleanup: CleanupConfig{
			Interval: time.Duration(cleanupInterval) * time.Minute,
		},
	}, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}

	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid value for %s: %q", key, value)
	}

	return parsed, nil
}

// String renders the configuration for startup logs with the secret masked.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{Port: %s, Driver: %s, TokenTTL: %s, GuestTTL: %s, CleanupInterval: %s, JWTSecret: %s}",
		c.Server.Port,
		c.Database.Driver,
		c.Auth.TokenTTL,
		c.Auth.GuestTTL,
		c.Cleanup.Interval,
		mask(c.Auth.JWTSecret),
	)
}

func mask(secret string) string {
	if secret == "" {
		return "(unset)"
	}
	return "****"
}
