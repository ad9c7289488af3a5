// Package config loads the static runtime configuration from the
// environment. Everything is read once at process start; there is no
// dynamic reconfiguration.
package config

import (
	"errors"
	"os"
	"strconv"
	"time"
)

// Defaults match the deployed EnviroSense feed and its dashboard.
const (
	DefaultSourceURL  = "https://envirosense-b9386-default-rtdb.asia-southeast1.firebasedatabase.app/sensor_data.json"
	DefaultWindowSize = 12
	DefaultRefresh    = 5000 * time.Millisecond
	DefaultHTTPBind   = ":8080"
)

// Config holds the process configuration.
type Config struct {
	SourceURL  string        // data source endpoint (JSON object keyed by record id)
	SourceAuth string        // optional auth token appended to the query
	WindowSize int           // max readings retained for display
	Refresh    time.Duration // interval between fetch cycles
	HTTPBind   string        // bind address for serve mode
	LogDir     string        // diagnostic log directory
}

// FromEnv builds a Config from environment variables, falling back to
// the defaults above.
func FromEnv() (*Config, error) {
	cfg := &Config{
		SourceURL:  getEnv("ENVIROSENSE_SOURCE_URL", DefaultSourceURL),
		SourceAuth: os.Getenv("ENVIROSENSE_SOURCE_AUTH"),
		WindowSize: getEnvInt("ENVIROSENSE_WINDOW", DefaultWindowSize),
		HTTPBind:   getEnv("ENVIROSENSE_HTTP_BIND", DefaultHTTPBind),
		LogDir:     getEnv("ENVIROSENSE_LOG_DIR", "./logs"),
	}

	refreshMs := getEnvInt("ENVIROSENSE_REFRESH_MS", int(DefaultRefresh/time.Millisecond))
	cfg.Refresh = time.Duration(refreshMs) * time.Millisecond

	if cfg.SourceURL == "" {
		return nil, errors.New("config: source URL must not be empty")
	}
	if cfg.WindowSize <= 0 {
		return nil, errors.New("config: window size must be positive")
	}
	if cfg.Refresh <= 0 {
		return nil, errors.New("config: refresh interval must be positive")
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
