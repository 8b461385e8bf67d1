// Package config loads and validates application configuration from environment variables.
// A .env file in the working directory, when present, is loaded first; real
// environment variables always win over its values.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/pkordes/stepsync/internal/upload"
)

// Config holds all configuration values for the CLI and API server.
// Values are populated by Load from environment variables.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "8080".
	Port string

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Defaults to ["http://localhost:5173"].
	// Set CORS_ORIGINS to a comma-separated list to override.
	CORSOrigins []string

	// MediaRoot overrides where step media folders are looked up.
	// Empty means "the parent of the trip directory".
	MediaRoot string

	// Upload configures the remote steps API.
	Upload UploadConfig

	// DatabaseURL is the Postgres connection string. Only the import command
	// needs it; see RequireDatabase.
	DatabaseURL string
}

// UploadConfig holds the remote steps API settings.
type UploadConfig struct {
	// URL defaults to the public steps endpoint (UPLOAD_URL).
	URL string
	// Token is sent as a bearer token when non-empty (UPLOAD_TOKEN).
	Token string
	// Timeout bounds each upload request (UPLOAD_TIMEOUT, Go duration). Defaults to 30s.
	Timeout time.Duration
}

// Load reads configuration from environment variables and returns a Config.
// Returns an error listing any variables that hold invalid values.
func Load() (Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return Config{}, err
	}

	cfg := Config{
		Port:        getEnv("PORT", "8080"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		CORSOrigins: splitCSV(getEnv("CORS_ORIGINS", "http://localhost:5173")),
		MediaRoot:   strings.TrimSpace(os.Getenv("MEDIA_ROOT")),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		Upload: UploadConfig{
			URL:   getEnv("UPLOAD_URL", upload.DefaultURL),
			Token: strings.TrimSpace(os.Getenv("UPLOAD_TOKEN")),
		},
	}

	var invalid []string

	timeout, err := time.ParseDuration(getEnv("UPLOAD_TIMEOUT", "30s"))
	if err != nil || timeout <= 0 {
		invalid = append(invalid, "UPLOAD_TIMEOUT")
	}
	cfg.Upload.Timeout = timeout

	switch strings.ToLower(cfg.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		invalid = append(invalid, "LOG_LEVEL")
	}

	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("invalid environment variables: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}

// RequireDatabase returns an error when DATABASE_URL is not set.
func (c Config) RequireDatabase() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("required environment variables not set: DATABASE_URL")
	}
	return nil
}

// loadDotEnv loads path into the environment without overriding variables
// that are already set. A missing file is not an error.
func loadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// getEnv returns the value of the environment variable named by key,
// or fallback if the variable is not set or is empty.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
