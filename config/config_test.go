package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func validEnv(t *testing.T) {
	t.Helper()
	t.Setenv("API_BASE_URL", "https://api.example.com")
	t.Setenv("API_TOKEN", "some-token")
	t.Setenv("PUSH_URL", "wss://push.example.com")
}

func TestLoadDefaults(t *testing.T) {
	validEnv(t)
	t.Setenv("PORT", "")
	t.Setenv("CACHE_PATH", "")
	t.Setenv("REFRESH_INTERVAL", "")

	cfg := Load()
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "dashboard_cache.db", cfg.CachePath)
	assert.Equal(t, 30*time.Second, cfg.RefreshInterval)
	assert.NoError(t, cfg.Validate())
}

func TestLoadRefreshInterval(t *testing.T) {
	validEnv(t)
	t.Setenv("REFRESH_INTERVAL", "5s")
	assert.Equal(t, 5*time.Second, Load().RefreshInterval)

	// Garbage keeps the default rather than failing startup.
	t.Setenv("REFRESH_INTERVAL", "soon")
	assert.Equal(t, 30*time.Second, Load().RefreshInterval)
}

func TestValidateRejectsMissingOrPlaceholderValues(t *testing.T) {
	validEnv(t)

	t.Setenv("PUSH_URL", "")
	assert.Error(t, Load().Validate())

	// The deploy tooling stringifies missing vars to "undefined".
	t.Setenv("PUSH_URL", "undefined")
	assert.Error(t, Load().Validate())

	validEnv(t)
	t.Setenv("API_BASE_URL", "undefined")
	assert.Error(t, Load().Validate())

	validEnv(t)
	t.Setenv("API_TOKEN", "")
	assert.Error(t, Load().Validate())
}
