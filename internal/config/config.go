// Package config contains everything related to configuration
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/jclabaut/GarminDashboard/internal/models"
)

// HealthAccess selects how the health store asks for read consent.
type HealthAccess string

const (
	// HealthAccessPrompt asks on the terminal once, before the UI starts.
	HealthAccessPrompt HealthAccess = "prompt"
	// HealthAccessGrant grants read access without asking.
	HealthAccessGrant HealthAccess = "grant"
	// HealthAccessDeny refuses read access.
	HealthAccessDeny HealthAccess = "deny"
)

// Config holds the application configuration.
type Config struct {
	DatabasePath    string
	ImportDir       string
	Category        models.WorkoutCategory
	HealthAccess    HealthAccess
	WeeklyGoalKm    float64
	RefreshInterval time.Duration
	ImportDebounce  time.Duration
	LogFile         string
	LogLevel        string
	MetricsAddr     string
}

// Default values
const (
	defaultRefreshInterval = 15 * time.Minute
	defaultImportDebounce  = 500 * time.Millisecond
)

// Load reads configuration from .env files and environment variables.
func Load() (*Config, error) {
	// Try loading .env from multiple locations
	for _, path := range getEnvPaths() {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			break
		}
	}

	cfg := &Config{
		DatabasePath:    getEnvString("DATABASE_PATH", getDefaultDatabasePath()),
		ImportDir:       getEnvString("IMPORT_DIR", getDefaultImportDir()),
		Category:        models.WorkoutCategory(strings.ToLower(getEnvString("WORKOUT_CATEGORY", string(models.CategoryRunning)))),
		HealthAccess:    HealthAccess(strings.ToLower(getEnvString("HEALTH_ACCESS", string(HealthAccessPrompt)))),
		WeeklyGoalKm:    getEnvFloat("WEEKLY_GOAL_KM", 0),
		RefreshInterval: getEnvDuration("AUTO_REFRESH_INTERVAL", defaultRefreshInterval),
		ImportDebounce:  getEnvDuration("IMPORT_DEBOUNCE", defaultImportDebounce),
		LogFile:         getEnvString("LOG_FILE", getDefaultLogFile()),
		LogLevel:        getEnvString("LOG_LEVEL", "info"),
		MetricsAddr:     getEnvString("METRICS_ADDR", ""),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// Ensure database directory exists
	if err := ensureDir(filepath.Dir(cfg.DatabasePath)); err != nil {
		return nil, err
	}

	// Ensure import directory exists so it can be watched
	if err := ensureDir(cfg.ImportDir); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks values that have no sensible fallback.
func (c *Config) Validate() error {
	switch c.HealthAccess {
	case HealthAccessPrompt, HealthAccessGrant, HealthAccessDeny:
	default:
		return fmt.Errorf("HEALTH_ACCESS must be one of prompt, grant, deny (got %q)", c.HealthAccess)
	}

	if c.Category == "" {
		return fmt.Errorf("WORKOUT_CATEGORY must not be empty")
	}

	if c.WeeklyGoalKm < 0 {
		return fmt.Errorf("WEEKLY_GOAL_KM must not be negative (got %v)", c.WeeklyGoalKm)
	}

	return nil
}

// getEnvPaths returns a list of paths to check for .env files.
func getEnvPaths() []string {
	var paths []string

	// Current directory
	if cwd, err := os.Getwd(); err == nil {
		paths = append(paths, filepath.Join(cwd, ".env"))
	}

	// Home directory locations
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths,
			filepath.Join(home, ".config", "garmindash", ".env"),
			filepath.Join(home, ".garmindash", ".env"),
		)
	}

	return paths
}

// configDir returns the base directory for application files.
func configDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "garmindash")
}

// getDefaultDatabasePath returns the default path for the SQLite workout store.
func getDefaultDatabasePath() string {
	dir := configDir()
	if dir == "" {
		return "workouts.db"
	}
	return filepath.Join(dir, "workouts.db")
}

// getDefaultImportDir returns the default directory watched for workout exports.
func getDefaultImportDir() string {
	dir := configDir()
	if dir == "" {
		return "import"
	}
	return filepath.Join(dir, "import")
}

// getDefaultLogFile returns the default log file path.
func getDefaultLogFile() string {
	dir := configDir()
	if dir == "" {
		return "garmindash.log"
	}
	return filepath.Join(dir, "garmindash.log")
}

// getEnvString retrieves a string environment variable or returns the default.
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvFloat retrieves a float environment variable or returns the default.
func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

// getEnvDuration retrieves a duration environment variable or returns the default.
// Accepts values like "30s", "1m", "500ms".
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		// Try parsing as seconds if no unit specified
		if secs, err := strconv.Atoi(value); err == nil {
			return time.Duration(secs) * time.Second
		}
	}
	return defaultValue
}

// ensureDir creates a directory and all parent directories if they don't exist.
func ensureDir(path string) error {
	if path == "" || path == "." {
		return nil
	}
	return os.MkdirAll(path, 0o750)
}
