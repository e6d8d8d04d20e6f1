// Package config centralises runtime configuration for adminctl.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"
)

// Config captures everything the API client and CLI need at startup. Values
// come from environment variables; command-line flags override them.
type Config struct {
	BaseURL       string        // Backend REST API base URL
	APIKey        string        // Static API key sent with every request
	CookieSession bool          // Cookie-based sessions instead of bearer tokens
	Timeout       time.Duration // Per-request HTTP timeout
	SessionFile   string        // Path of the persisted session tokens
	Timezone      string        // Display timezone for dates
	Output        string        // Default output format (table, json, csv)
}

// Load reads environment variables into Config, applying defaults suitable
// for talking to a local backend.
func Load() Config {
	return Config{
		BaseURL:       getEnv("ADMINCTL_BASE_URL", "http://localhost:8080/api/v1"),
		APIKey:        getEnv("ADMINCTL_API_KEY", ""),
		CookieSession: getBoolEnv("ADMINCTL_COOKIE_SESSION", false),
		Timeout:       getDurationEnv("ADMINCTL_TIMEOUT", 30*time.Second),
		SessionFile:   getEnv("ADMINCTL_SESSION_FILE", ""),
		Timezone:      getEnv("ADMINCTL_TIMEZONE", "Local"),
		Output:        getEnv("ADMINCTL_OUTPUT", "table"),
	}
}

// Validate checks the fields a request cannot be issued without.
func (c Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base URL is required (set --base-url or ADMINCTL_BASE_URL)")
	}
	if _, err := url.Parse(c.BaseURL); err != nil {
		return fmt.Errorf("invalid base URL %q: %w", c.BaseURL, err)
	}
	switch c.Output {
	case "table", "json", "csv":
	default:
		return fmt.Errorf("invalid output format %q (expected table, json or csv)", c.Output)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getBoolEnv(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return fallback
}
