// Package config provides centralized configuration management for the application.
// It loads configuration from environment variables with sensible defaults and
// validates all settings on startup to fail fast on misconfiguration.
package config

import (
	"strconv"
	"time"
	"unicode/utf8"
)

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Columns  ColumnsConfig
	Decade   DecadeConfig
	Output   OutputConfig
	Server   ServerConfig
	Upload   UploadConfig
	History  HistoryConfig
	Database DatabaseConfig
	Rate     RateLimitConfig
	Security SecurityConfig
	Logging  LoggingConfig
}

// ColumnsConfig names the input columns.
type ColumnsConfig struct {
	MasterCountry        string `env:"MASTER_COUNTRY_COL" default:"origin_country_std"`
	MasterStartYear      string `env:"MASTER_START_YEAR_COL" default:"creation_start_year_std"`
	MasterEndYear        string `env:"MASTER_END_YEAR_COL" default:"creation_end_year_std"`
	MasterClassification string `env:"MASTER_CLASS_COL" default:"classification_std"`
	MasterMedium         string `env:"MASTER_MEDIUM_COL" default:"medium_std"`

	LookupCountry string `env:"LOOKUP_COUNTRY_COL" envAlt:"FLOWS_COUNTRY_COL" default:"origin_country"`
	LookupRegion  string `env:"LOOKUP_REGION_COL" envAlt:"FLOWS_REGION_COL" default:"region"`
}

// DecadeConfig bounds the decades kept in the summary (inclusive).
type DecadeConfig struct {
	Min int `env:"DECADE_MIN" default:"1400"`
	Max int `env:"DECADE_MAX" default:"2020"`
}

// OutputConfig holds file format settings.
type OutputConfig struct {
	// Delimiter separates fields in input and output files (default: ",")
	Delimiter string `env:"CSV_DELIMITER" default:","`

	// DefaultName is the file name suggested at the output prompt
	DefaultName string `env:"OUTPUT_DEFAULT_NAME" default:"counts_by_country_decade_medium.csv"`
}

// ServerConfig holds HTTP server settings for the upload page.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" default:"8080"`

	// ReadTimeout is the maximum duration for reading request body (default: 15s)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout is the middleware timeout for requests (default: 60s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"60s"`
}

// UploadConfig holds web upload settings.
type UploadConfig struct {
	// MaxFileSize is the maximum allowed request size in bytes (default: 100MB)
	MaxFileSize int64 `env:"UPLOAD_MAX_FILE_SIZE" default:"104857600"`

	// MaxConcurrent is the maximum number of runs in flight (default: 2)
	MaxConcurrent int `env:"UPLOAD_MAX_CONCURRENT" default:"2"`

	// MaxWaitTime is how long a request waits for a run slot (default: 30s)
	MaxWaitTime time.Duration `env:"UPLOAD_MAX_WAIT_TIME" default:"30s"`
}

// HistoryConfig holds run history settings.
type HistoryConfig struct {
	// Path is the SQLite database file; empty disables history
	Path string `env:"HISTORY_DB_PATH"`

	// ListLimit is how many runs the history page shows (default: 50)
	ListLimit int `env:"HISTORY_LIST_LIMIT" default:"50"`
}

// DatabaseConfig holds settings for publishing counts to PostgreSQL.
type DatabaseConfig struct {
	// URL is the PostgreSQL connection string; empty disables publishing
	// Supports both DATABASE_URL and DB_URL env vars for compatibility
	URL string `env:"DATABASE_URL" envAlt:"DB_URL"`

	// MaxConns is the maximum number of connections in the pool (default: 4)
	MaxConns int `env:"DB_MAX_CONNS" default:"4"`

	// Table receives the published rows (default: object_counts)
	Table string `env:"DB_PUBLISH_TABLE" default:"object_counts"`

	// ConnectTimeout bounds the initial connection and ping (default: 10s)
	ConnectTimeout time.Duration `env:"DB_CONNECT_TIMEOUT" default:"10s"`
}

// RateLimitConfig holds per-IP request limits for the upload endpoint.
type RateLimitConfig struct {
	// Enabled controls whether rate limiting is active (default: true)
	Enabled bool `env:"RATE_LIMIT_ENABLED" default:"true"`

	// UploadsPerMinute is how many runs one client may start per minute (default: 10)
	UploadsPerMinute int `env:"RATE_LIMIT_UPLOAD" default:"10"`
}

// SecurityConfig holds settings for the upload API.
type SecurityConfig struct {
	// TrustedProxies is a comma-separated list of proxy CIDRs whose
	// X-Real-IP / X-Forwarded-For headers are believed
	TrustedProxies []string `env:"TRUSTED_PROXIES"`

	// RequireAPIKey guards /api routes with the X-API-Key header (default: false)
	RequireAPIKey bool `env:"REQUIRE_API_KEY" default:"false"`

	// APIKeys is a comma-separated list of accepted keys
	APIKeys []string `env:"API_KEYS"`
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
	return c.Host + ":" + strconv.Itoa(c.Port)
}

// Rune returns the delimiter as a rune. Validate guarantees a single character.
func (c *OutputConfig) Rune() rune {
	if c.Delimiter == `\t` {
		return '\t'
	}
	r, _ := utf8.DecodeRuneInString(c.Delimiter)
	return r
}
