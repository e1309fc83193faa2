package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Config keeps runtime settings for the tracker.
type Config struct {
	DatabasePath     string
	CommuteMinutes   int
	ReminderInterval time.Duration
}

// Load reads configuration from environment variables with sane
// defaults. It never fails: bad values fall back to defaults.
func Load() Config {
	cfg := Config{
		DatabasePath:     strings.TrimSpace(os.Getenv("WORKDAY_DB")),
		CommuteMinutes:   parseMinutes(os.Getenv("WORKDAY_COMMUTE_MINUTES")),
		ReminderInterval: parseInterval(os.Getenv("WORKDAY_REMINDER_INTERVAL")),
	}

	if cfg.DatabasePath == "" {
		cfg.DatabasePath = defaultDatabasePath()
	}
	if cfg.CommuteMinutes <= 0 {
		cfg.CommuteMinutes = 30
	}
	if cfg.ReminderInterval <= 0 {
		cfg.ReminderInterval = time.Hour
	}
	return cfg
}

// defaultDatabasePath is ~/.workday/workday.db, falling back to the
// working directory when the home dir cannot be resolved.
func defaultDatabasePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "workday.db"
	}
	return filepath.Join(homeDir, ".workday", "workday.db")
}

func parseMinutes(raw string) int {
	minutes, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || minutes < 0 {
		return 0
	}
	return minutes
}

func parseInterval(raw string) time.Duration {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	interval, err := time.ParseDuration(raw)
	if err != nil || interval <= 0 {
		return 0
	}
	return interval
}
