package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Storage backends
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Config holds process-level settings for the binaries
type Config struct {
	// Storage. DataPath is a directory for the file backend and a
	// database file for sqlite.
	StorageBackend string
	DataPath       string

	// Exchange rates
	RatesURL     string
	RatesRetries int

	// Derived-state cache
	CacheSize int
	CacheTTL  time.Duration

	// Logging
	LogLevel  string
	LogFormat string

	// Error reporting
	SentryDSN         string
	SentryEnvironment string
}

// Load reads configuration from the environment
func Load() *Config {
	backend := strings.ToLower(getEnv("FINTRACK_STORAGE", BackendFile))

	return &Config{
		StorageBackend: backend,
		DataPath:       getEnv("FINTRACK_DATA_PATH", defaultDataPath(backend)),

		RatesURL:     getEnv("FINTRACK_RATES_URL", "https://api.exchangerate-api.com"),
		RatesRetries: getEnvInt("FINTRACK_RATES_RETRIES", 0),

		CacheSize: getEnvInt("FINTRACK_CACHE_SIZE", 16),
		CacheTTL:  getEnvDuration("FINTRACK_CACHE_TTL", 10*time.Minute),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),

		SentryDSN:         getEnv("SENTRY_DSN", ""),
		SentryEnvironment: getEnv("SENTRY_ENVIRONMENT", "production"),
	}
}

// LoadWithDotEnv loads the given .env files (or ./.env when none are given)
// into the environment without overriding existing variables, then calls Load.
// A missing .env file is not an error.
func LoadWithDotEnv(files ...string) *Config {
	_ = godotenv.Load(files...)
	return Load()
}

func defaultDataPath(backend string) string {
	switch backend {
	case BackendSQLite:
		return "./data/fintrack.db"
	case BackendMemory:
		return ""
	default:
		return "./data"
	}
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	switch c.StorageBackend {
	case BackendMemory:
	case BackendFile, BackendSQLite:
		if c.DataPath == "" {
			errors = append(errors, fmt.Sprintf("data path cannot be empty when using %s storage", c.StorageBackend))
			break
		}
		// file storage takes a directory, sqlite a database file
		dir := c.DataPath
		if c.StorageBackend == BackendSQLite {
			dir = filepath.Dir(c.DataPath)
		}
		if dir != "." && dir != "" {
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				if err := os.MkdirAll(dir, 0700); err != nil {
					errors = append(errors, fmt.Sprintf("cannot create data directory '%s': %v", dir, err))
				}
			}
		}
	default:
		errors = append(errors, fmt.Sprintf("invalid storage backend '%s': must be one of [%s %s %s]",
			c.StorageBackend, BackendMemory, BackendFile, BackendSQLite))
	}

	if c.RatesURL != "" {
		if parsed, err := url.Parse(c.RatesURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid rates URL '%s': %v", c.RatesURL, err))
		} else if parsed.Scheme != "http" && parsed.Scheme != "https" {
			errors = append(errors, fmt.Sprintf("invalid rates URL scheme '%s': must be 'http' or 'https'", parsed.Scheme))
		}
	}

	if c.RatesRetries < 0 || c.RatesRetries > 10 {
		errors = append(errors, fmt.Sprintf("invalid rates retries %d: must be between 0 and 10", c.RatesRetries))
	}

	if c.CacheSize < 1 {
		errors = append(errors, fmt.Sprintf("invalid cache size %d: must be at least 1", c.CacheSize))
	}

	if c.CacheTTL < 0 {
		errors = append(errors, fmt.Sprintf("invalid cache TTL %v: must not be negative", c.CacheTTL))
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be debug, info, warn or error", c.LogLevel))
	}

	if c.LogFormat != "text" && c.LogFormat != "json" {
		errors = append(errors, fmt.Sprintf("invalid log format '%s': must be 'text' or 'json'", c.LogFormat))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
