// Package config loads application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	APIBaseURL string
	SecretKey  string
	SessionTTL time.Duration
	ListenAddr string
	DBPath     string
}

// Load reads configuration from environment variables and returns a validated
// Config. VAULTPANEL_API_URL and VAULTPANEL_SECRET_KEY are required; the
// secret key signs and encrypts session cookies and the CSRF token. Optional
// variables with defaults: VAULTPANEL_SESSION_TTL (168h),
// VAULTPANEL_LISTEN_ADDR (127.0.0.1:8080), VAULTPANEL_DB_PATH (vaultpanel.db).
func Load() (*Config, error) {
	apiURL := strings.TrimSpace(os.Getenv("VAULTPANEL_API_URL"))
	if apiURL == "" {
		return nil, fmt.Errorf("VAULTPANEL_API_URL is required")
	}
	if !strings.HasPrefix(apiURL, "http://") && !strings.HasPrefix(apiURL, "https://") {
		return nil, fmt.Errorf("VAULTPANEL_API_URL must be an http(s) URL, got %q", apiURL)
	}

	secret := os.Getenv("VAULTPANEL_SECRET_KEY")
	if secret == "" {
		return nil, fmt.Errorf("VAULTPANEL_SECRET_KEY is required")
	}
	if len(secret) < 16 {
		return nil, fmt.Errorf("VAULTPANEL_SECRET_KEY must be at least 16 characters")
	}

	sessionTTL := 168 * time.Hour
	if v, ok := os.LookupEnv("VAULTPANEL_SESSION_TTL"); ok {
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("VAULTPANEL_SESSION_TTL has invalid duration %q: %w", v, err)
		}
		if parsed <= 0 {
			return nil, fmt.Errorf("VAULTPANEL_SESSION_TTL must be positive, got %q", v)
		}
		sessionTTL = parsed
	}

	listenAddr := "127.0.0.1:8080"
	if v, ok := os.LookupEnv("VAULTPANEL_LISTEN_ADDR"); ok {
		listenAddr = v
	}

	dbPath := "vaultpanel.db"
	if v, ok := os.LookupEnv("VAULTPANEL_DB_PATH"); ok {
		dbPath = v
	}

	return &Config{
		APIBaseURL: strings.TrimRight(apiURL, "/"),
		SecretKey:  secret,
		SessionTTL: sessionTTL,
		ListenAddr: listenAddr,
		DBPath:     dbPath,
	}, nil
}
