package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr                   string
	DBPath                 string
	DatasetPath            string
	LogLevel               string
	DefaultTags            []string
	VisibleCards           int
	DefaultViewportHeight  int
	RefreshIntervalMinutes int
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying sensible defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	return Config{
		Addr:                   envOr("ADDR", ":8080"),
		DBPath:                 envOr("DB_PATH", "file:kantoku.db"),
		DatasetPath:            envOr("DATASET_PATH", "dataset.csv"),
		LogLevel:               envOr("LOG_LEVEL", "INFO"),
		DefaultTags:            envListOr("DEFAULT_TAGS", []string{"JLPT N5", "JLPT N4", "JLPT N3", "JLPT N2", "JLPT N1"}),
		VisibleCards:           envIntOr("VISIBLE_CARDS", 2),
		DefaultViewportHeight:  envIntOr("DEFAULT_VIEWPORT_HEIGHT", 800),
		RefreshIntervalMinutes: envIntOr("REFRESH_INTERVAL_MINUTES", 0),
	}
}

// Validate checks the configuration for values that would break startup.
func (c Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("ADDR cannot be empty")
	}
	if c.DBPath == "" {
		return fmt.Errorf("DB_PATH cannot be empty")
	}
	if c.VisibleCards < 1 {
		return fmt.Errorf("VISIBLE_CARDS must be at least 1, got %d", c.VisibleCards)
	}
	if c.DefaultViewportHeight <= 0 {
		return fmt.Errorf("DEFAULT_VIEWPORT_HEIGHT must be positive, got %d", c.DefaultViewportHeight)
	}
	if c.RefreshIntervalMinutes < 0 {
		return fmt.Errorf("REFRESH_INTERVAL_MINUTES cannot be negative, got %d", c.RefreshIntervalMinutes)
	}
	switch strings.ToUpper(c.LogLevel) {
	case "DEBUG", "INFO", "WARN", "WARNING", "ERROR":
	default:
		return fmt.Errorf("LOG_LEVEL must be one of DEBUG, INFO, WARN, ERROR, got %q", c.LogLevel)
	}
	return nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}

func envListOr(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
