// Package config provides configuration management for the asset dashboard.
// It loads configuration from environment variables and .env files.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig
	Source    SourceConfig
	Database  DatabaseConfig
	Session   SessionConfig
	RateLimit RateLimitConfig
	Logging   LoggingConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port string
	Host string
}

// SourceKind names the collaborator the asset store loads from
type SourceKind string

const (
	SourceFile     SourceKind = "file"
	SourceHTTP     SourceKind = "http"
	SourcePostgres SourceKind = "postgres"
	SourceRedis    SourceKind = "redis"
)

// SourceConfig selects and configures the asset data source
type SourceConfig struct {
	Kind        SourceKind
	FilePath    string
	URL         string
	HTTPTimeout time.Duration
	RedisKey    string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Postgres PostgresConfig
	Redis    RedisConfig
}

// PostgresConfig holds Postgres configuration
type PostgresConfig struct {
	Host           string
	Port           string
	Database       string
	User           string
	Password       string
	MaxConnections int
}

// URL returns the postgres:// URL used by migrations
func (c PostgresConfig) URL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.User, c.Password, c.Host, c.Port, c.Database)
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host           string
	Port           string
	Password       string
	DB             int
	MaxConnections int
}

// SessionConfig holds dashboard session behaviour
type SessionConfig struct {
	SettleDelay  time.Duration // Delay between a successful load and isLoaded
	LoadTimeout  time.Duration // Upper bound on the single initial fetch
	StubIdentity string        // Identity assigned by the simulated wallet connect
}

// RateLimitConfig holds per-client request limits for the API
type RateLimitConfig struct {
	RequestsPerSecond int
	Burst             int
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string
	Format string
}

// LoadConfig loads configuration from .env file and environment variables
func LoadConfig() (*Config, error) {
	// .env is optional; environment variables can be set directly
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	config := &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8080"),
			Host: getEnv("SERVER_HOST", "127.0.0.1"),
		},
		Source: SourceConfig{
			Kind:        SourceKind(strings.ToLower(getEnv("ASSET_SOURCE", string(SourceFile)))),
			FilePath:    getEnv("ASSET_FILE", "assets.json"),
			URL:         getEnv("ASSET_URL", ""),
			HTTPTimeout: getEnvAsDuration("ASSET_HTTP_TIMEOUT", 10*time.Second),
			RedisKey:    getEnv("ASSET_REDIS_KEY", "assets"),
		},
		Database: DatabaseConfig{
			Postgres: PostgresConfig{
				Host:           getEnv("POSTGRES_HOST", "localhost"),
				Port:           getEnv("POSTGRES_PORT", "5432"),
				Database:       getEnv("POSTGRES_DB", "asset_dashboard"),
				User:           getEnv("POSTGRES_USER", "dashboard"),
				Password:       getEnv("POSTGRES_PASSWORD", ""),
				MaxConnections: getEnvAsInt("POSTGRES_MAX_CONNECTIONS", 4),
			},
			Redis: RedisConfig{
				Host:           getEnv("REDIS_HOST", "localhost"),
				Port:           getEnv("REDIS_PORT", "6379"),
				Password:       getEnv("REDIS_PASSWORD", ""),
				DB:             getEnvAsInt("REDIS_DB", 0),
				MaxConnections: getEnvAsInt("REDIS_MAX_CONNECTIONS", 4),
			},
		},
		Session: SessionConfig{
			SettleDelay:  getEnvAsDuration("SETTLE_DELAY", 300*time.Millisecond),
			LoadTimeout:  getEnvAsDuration("LOAD_TIMEOUT", 30*time.Second),
			StubIdentity: getEnv("WALLET_STUB_IDENTITY", "0x1111"),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: getEnvAsInt("RATE_LIMIT_RPS", 50),
			Burst:             getEnvAsInt("RATE_LIMIT_BURST", 20),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks settings that would otherwise fail late at start-up
func (c *Config) Validate() error {
	switch c.Source.Kind {
	case SourceFile:
		if c.Source.FilePath == "" {
			return fmt.Errorf("ASSET_FILE is required for the file source")
		}
	case SourceHTTP:
		if c.Source.URL == "" {
			return fmt.Errorf("ASSET_URL is required for the http source")
		}
	case SourcePostgres:
	case SourceRedis:
		if c.Source.RedisKey == "" {
			return fmt.Errorf("ASSET_REDIS_KEY is required for the redis source")
		}
	default:
		return fmt.Errorf("unknown ASSET_SOURCE %q (want file, http, postgres or redis)", c.Source.Kind)
	}

	if c.Session.SettleDelay < 0 {
		return fmt.Errorf("SETTLE_DELAY must not be negative")
	}
	if c.Session.StubIdentity == "" {
		return fmt.Errorf("WALLET_STUB_IDENTITY must not be empty")
	}
	return nil
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an environment variable as an integer with a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsDuration gets an environment variable as a duration with a default value
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
