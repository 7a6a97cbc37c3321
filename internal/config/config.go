// Package config provides centralized configuration management for the application.
// It loads configuration from environment variables with sensible defaults and
// validates all settings on startup to fail fast on misconfiguration.
package config

import (
	"net"
	"strconv"
	"time"
)

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Server   ServerConfig
	Seed     SeedConfig
	Table    TableConfig
	Rate     RateLimitConfig
	Security SecurityConfig
	Confirm  ConfirmConfig
	Export   ExportConfig
	Logging  LoggingConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" default:"8080"`

	// ReadTimeout is the maximum duration for reading request body (default: 15s)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`

	// WriteTimeout is the maximum duration for writing response (default: 30s)
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"30s"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout is the middleware timeout for requests (default: 30s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"30s"`
}

// SeedConfig selects where the users table is seeded from at startup.
// SEED_FILE wins over DATABASE_URL; with neither set the built-in users
// are used.
type SeedConfig struct {
	// File is a YAML seed file path (optional)
	File string `env:"SEED_FILE"`

	// DatabaseURL is a PostgreSQL connection string read once at startup (optional)
	// Supports both DATABASE_URL and DB_URL env vars for compatibility
	DatabaseURL string `env:"DATABASE_URL" envAlt:"DB_URL"`

	// Table is the Postgres table holding the seed rows (default: users)
	Table string `env:"SEED_TABLE" default:"users"`

	// Timeout bounds the Postgres seed read (default: 10s)
	Timeout time.Duration `env:"SEED_TIMEOUT" default:"10s"`
}

// TableConfig holds paging defaults for table views.
type TableConfig struct {
	// DefaultPageSize is used when a request names no size (default: 5)
	DefaultPageSize int `env:"TABLE_DEFAULT_PAGE_SIZE" default:"5"`

	// MaxPageSize caps requested page sizes (default: 100)
	MaxPageSize int `env:"TABLE_MAX_PAGE_SIZE" default:"100"`
}

// RateLimitConfig holds per-IP rate limiting settings.
type RateLimitConfig struct {
	// Enabled controls whether rate limiting is active (default: true)
	Enabled bool `env:"RATE_LIMIT_ENABLED" default:"true"`

	// RequestsPerMinute is the sustained rate per IP (default: 100)
	RequestsPerMinute int `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" default:"100"`

	// Burst is how many requests an IP may make at once (default: 20)
	Burst int `env:"RATE_LIMIT_BURST" default:"20"`
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	// TrustedProxies is a comma-separated list of trusted proxy CIDRs
	TrustedProxies []string `env:"TRUSTED_PROXIES"`

	// RequireAPIKey protects mutating routes with X-API-Key (default: false)
	RequireAPIKey bool `env:"REQUIRE_API_KEY" default:"false"`

	// APIKeys is a comma-separated list of accepted API keys
	APIKeys []string `env:"API_KEYS"`

	// EnableCSP enables Content-Security-Policy headers (default: true)
	EnableCSP bool `env:"SECURITY_ENABLE_CSP" default:"true"`
}

// ConfirmConfig holds settings for the delete-everything confirmation.
type ConfirmConfig struct {
	// TokenTTL is how long a confirmation token stays valid (default: 2m)
	TokenTTL time.Duration `env:"CONFIRM_TOKEN_TTL" default:"2m"`
}

// ExportConfig bounds concurrent full-table CSV exports.
type ExportConfig struct {
	// MaxConcurrent is how many exports may run at once (default: 4)
	MaxConcurrent int `env:"EXPORT_MAX_CONCURRENT" default:"4"`

	// MaxWait is how long an export waits for a free slot (default: 5s)
	MaxWait time.Duration `env:"EXPORT_MAX_WAIT" default:"5s"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// SeedSource names the seed source the configuration selects:
// "file", "postgres" or "builtin".
func (c *SeedConfig) SeedSource() string {
	switch {
	case c.File != "":
		return "file"
	case c.DatabaseURL != "":
		return "postgres"
	default:
		return "builtin"
	}
}
