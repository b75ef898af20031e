// Package config loads and validates application configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Storage backends accepted by STORAGE_BACKEND.
const (
	BackendFile     = "file"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

// DefaultMaxBodyBytes bounds request bodies. A sync snapshot of a whole trip
// is far below it.
const DefaultMaxBodyBytes int64 = 5 << 20

// Config holds all configuration values for the API server.
// Values are populated by Load from environment variables.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "8080".
	Port string

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Defaults to ["http://localhost:5173"] (Vite dev server).
	// Set CORS_ORIGINS to a comma-separated list to override.
	CORSOrigins []string

	// StorageBackend selects where the trip is kept: file (default),
	// postgres or memory.
	StorageBackend string

	// DataFile is the JSON file used by the file backend.
	// Defaults to "trip-data.json".
	DataFile string

	// DatabaseURL is the Postgres connection string. Required with the
	// postgres backend only.
	DatabaseURL string

	// PublicBaseURL, when set, is the base of every generated sync link.
	PublicBaseURL string

	// MaxBodyBytes limits request bodies. Defaults to 5 MiB.
	MaxBodyBytes int64
}

// LoadDotEnv loads variables from a .env file at path into the process
// environment. Variables already set win. A missing file is not an error.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("config: load %s: %w", path, err)
	}
	return nil
}

// Load reads configuration from environment variables and returns a Config.
// Returns an error listing every problem found.
func Load() (Config, error) {
	cfg := Config{
		Port:           getEnv("PORT", "8080"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		CORSOrigins:    splitCSV(getEnv("CORS_ORIGINS", "http://localhost:5173")),
		StorageBackend: strings.ToLower(getEnv("STORAGE_BACKEND", BackendFile)),
		DataFile:       getEnv("DATA_FILE", "trip-data.json"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		PublicBaseURL:  os.Getenv("PUBLIC_BASE_URL"),
		MaxBodyBytes:   DefaultMaxBodyBytes,
	}

	var problems []string

	switch cfg.StorageBackend {
	case BackendFile, BackendMemory:
	case BackendPostgres:
		if cfg.DatabaseURL == "" {
			problems = append(problems, "DATABASE_URL is required when STORAGE_BACKEND=postgres")
		}
	default:
		problems = append(problems, fmt.Sprintf("STORAGE_BACKEND must be one of file, postgres, memory (got %q)", cfg.StorageBackend))
	}

	if v := os.Getenv("MAX_BODY_BYTES"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n <= 0 {
			problems = append(problems, fmt.Sprintf("MAX_BODY_BYTES must be a positive integer (got %q)", v))
		} else {
			cfg.MaxBodyBytes = n
		}
	}

	if cfg.PublicBaseURL != "" {
		u, err := url.Parse(cfg.PublicBaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			problems = append(problems, fmt.Sprintf("PUBLIC_BASE_URL must be an absolute URL (got %q)", cfg.PublicBaseURL))
		}
	}

	if len(problems) > 0 {
		return Config{}, fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}

	return cfg, nil
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
	for part := range strings.SplitSeq(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
