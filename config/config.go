package config

import (
	"errors"
	"fmt"
	"os"
	"time"
)

// Config carries everything main needs to wire the dashboard together.
// Values come from the environment (loaded from .env by main before this
// package is asked to read them).
type Config struct {
	// APIBaseURL is the remote restaurant API serving the raw order data.
	APIBaseURL string
	// APIToken is the bearer token for the remote API; its JWT claims also
	// identify the owner for the push channel.
	APIToken string
	// PushURL is the push-notification endpoint the live channel dials.
	PushURL string
	// CachePath is the sqlite file holding the notification feed.
	CachePath string
	// Port for the local dashboard API.
	Port string
	// RefreshInterval between analytics re-polls.
	RefreshInterval time.Duration
}

func Load() Config {
	cfg := Config{
		APIBaseURL:      os.Getenv("API_BASE_URL"),
		APIToken:        os.Getenv("API_TOKEN"),
		PushURL:         os.Getenv("PUSH_URL"),
		CachePath:       os.Getenv("CACHE_PATH"),
		Port:            os.Getenv("PORT"),
		RefreshInterval: 30 * time.Second,
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.CachePath == "" {
		cfg.CachePath = "dashboard_cache.db"
	}
	if raw := os.Getenv("REFRESH_INTERVAL"); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil && d > 0 {
			cfg.RefreshInterval = d
		}
	}
	return cfg
}

// Validate rejects configurations that would make the channel or the
// fetcher dial nowhere. A literal "undefined" shows up when the deploy
// tooling stringifies a missing variable, so it counts as absent.
func (c Config) Validate() error {
	if c.APIBaseURL == "" || c.APIBaseURL == "undefined" {
		return errors.New("API_BASE_URL is not set")
	}
	if c.APIToken == "" {
		return errors.New("API_TOKEN is not set")
	}
	if c.PushURL == "" || c.PushURL == "undefined" {
		return fmt.Errorf("PUSH_URL is not set (expected e.g. PUSH_URL=wss://your-backend-url.com)")
	}
	return nil
}
