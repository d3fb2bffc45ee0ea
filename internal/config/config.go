package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds the whole application configuration, populated from
// environment variables.
type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Session  SessionConfig
	Auth     AuthConfig
	Google   GoogleConfig
}

type AppConfig struct {
	Name        string
	Environment string // development, staging, production
	Port        string
	Version     string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
	MaxConns int
	MinConns int
}

type RedisConfig struct {
	Host     string
	Password string
	DB       int
}

// SessionConfig selects and parameterizes the session strategy.
// Strategy is fixed at startup; "jwt" issues signed stateless tokens,
// "store" issues opaque tokens persisted in Redis.
type SessionConfig struct {
	Strategy string
	Secret   string
	TTL      time.Duration
}

type AuthConfig struct {
	BcryptCost int
}

// GoogleConfig parameterizes the OAuth authorization-code exchange.
type GoogleConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

const (
	SessionStrategyJWT   = "jwt"
	SessionStrategyStore = "store"

	defaultSessionSecret = "your-secret-key-change-in-production"
)

// Load reads config from environment variables.
func Load() (*Config, error) {
	sessionTTL, err := time.ParseDuration(getEnv("SESSION_TTL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid SESSION_TTL: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "Bookshelf API"),
			Environment: getEnv("APP_ENV", "development"),
			Port:        getEnv("APP_PORT", "8080"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "bookshelf"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			MaxConns: getEnvInt("DB_MAX_CONNS", 25),
			MinConns: getEnvInt("DB_MIN_CONNS", 5),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Session: SessionConfig{
			Strategy: getEnv("SESSION_STRATEGY", SessionStrategyJWT),
			Secret:   getEnv("SESSION_SECRET", defaultSessionSecret),
			TTL:      sessionTTL,
		},
		Auth: AuthConfig{
			BcryptCost: getEnvInt("BCRYPT_COST", 12),
		},
		Google: GoogleConfig{
			ClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
			ClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
			RedirectURL:  getEnv("GOOGLE_REDIRECT_URL", "http://localhost:8080/api/v1/auth/google/callback"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks config consistency before the server starts.
func (c *Config) Validate() error {
	if c.Session.Strategy != SessionStrategyJWT && c.Session.Strategy != SessionStrategyStore {
		return fmt.Errorf("SESSION_STRATEGY must be %q or %q, got %q",
			SessionStrategyJWT, SessionStrategyStore, c.Session.Strategy)
	}

	if c.Session.TTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}

	if c.App.Environment == "production" {
		if c.Session.Secret == defaultSessionSecret {
			return fmt.Errorf("SESSION_SECRET must be set in production")
		}
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD must be set in production")
		}
		if c.Google.ClientID == "" {
			fmt.Println("WARNING: Google ClientID not set - Google login will not work")
		}
	}

	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
