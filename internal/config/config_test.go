package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "support-desk", cfg.App.Name)
	assert.Equal(t, "0.0.0.0:8080", cfg.App.Addr())
	assert.Equal(t, MirrorSQLite, cfg.Mirror.Backend)
	assert.Equal(t, "gemini-2.5-flash", cfg.Advisor.Model)
	assert.InDelta(t, 0.4, cfg.Advisor.Temperature, 1e-9)
	assert.Equal(t, 500, cfg.Desk.ActivityLogLimit)
	assert.True(t, cfg.Desk.SeedOnEmpty)
	assert.Equal(t, "json", cfg.Logger.Format)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("MIRROR_BACKEND", "Redis")
	t.Setenv("APP_PORT", "9090")
	t.Setenv("KNOWLEDGE_MAX_CHARS", "1000")
	t.Setenv("ADVISOR_USE_KEYRING", "true")
	t.Setenv("HTTP_REQUEST_TIMEOUT_SECONDS", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, MirrorRedis, cfg.Mirror.Backend)
	assert.Equal(t, "9090", cfg.App.Port)
	assert.Equal(t, 1000, cfg.Advisor.MaxChars)
	assert.True(t, cfg.Advisor.UseKeyring)
	assert.Equal(t, 30, cfg.App.RequestTimeoutSeconds)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Run("backend", func(t *testing.T) {
		t.Setenv("MIRROR_BACKEND", "s3")
		_, err := Load()
		assert.Error(t, err)
	})
	t.Run("redis db", func(t *testing.T) {
		t.Setenv("REDIS_DB", "zero")
		_, err := Load()
		assert.Error(t, err)
	})
	t.Run("temperature", func(t *testing.T) {
		t.Setenv("ADVISOR_TEMPERATURE", "warm")
		_, err := Load()
		assert.Error(t, err)
	})
}
