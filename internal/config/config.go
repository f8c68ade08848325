package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application defaults. CLI flags override these.
type Config struct {
	Headless     bool
	Width        int
	Height       int
	NavTimeout   time.Duration // bound on post-click navigation waits
	ClickTimeout time.Duration // bound on individual driver calls
	Output       string        // default JSON export path; empty means no export
}

// Load reads configuration from a .env file (if present) and CLICKMAP_*
// environment variables.
func Load() (*Config, error) {
	// .env file is optional
	_ = godotenv.Load()

	cfg := &Config{
		Headless:     getEnvBool("CLICKMAP_HEADLESS", false),
		Output:       getEnvOrDefault("CLICKMAP_OUTPUT", ""),
		NavTimeout:   10 * time.Second,
		ClickTimeout: 5 * time.Second,
	}

	var err error
	if cfg.Width, err = getEnvInt("CLICKMAP_WIDTH", 1280); err != nil {
		return nil, err
	}
	if cfg.Height, err = getEnvInt("CLICKMAP_HEIGHT", 800); err != nil {
		return nil, err
	}
	if cfg.NavTimeout, err = getEnvDuration("CLICKMAP_NAV_TIMEOUT", cfg.NavTimeout); err != nil {
		return nil, err
	}
	if cfg.ClickTimeout, err = getEnvDuration("CLICKMAP_CLICK_TIMEOUT", cfg.ClickTimeout); err != nil {
		return nil, err
	}

	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return parsed, nil
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue, nil
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return parsed, nil
}
