package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("API_KEY", "")
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, StorageSQLite, cfg.Storage)
	assert.Equal(t, "mangatheque_v3_data", cfg.StorageKey)
	assert.Equal(t, "gemini-3-flash-preview", cfg.GeminiModel)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, int64(8<<20), cfg.ImageMaxBytes)
	assert.False(t, cfg.IsProduction())
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("MANGATHEQUE_STORAGE", "Badger")
	t.Setenv("MANGATHEQUE_ENV", "production")
	t.Setenv("MANGATHEQUE_GEMINI_API_KEY", "k1")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, StorageBadger, cfg.Storage)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "k1", cfg.GeminiAPIKey)
}

func TestLoadConfig_LegacyAPIKey(t *testing.T) {
	t.Setenv("MANGATHEQUE_GEMINI_API_KEY", "")
	t.Setenv("API_KEY", "legacy")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "legacy", cfg.GeminiAPIKey)
}

func TestLoadConfig_UnknownStorage(t *testing.T) {
	t.Setenv("MANGATHEQUE_STORAGE", "postgres")
	_, err := LoadConfig()
	require.Error(t, err)
}

func TestNewLogger_BadLevelFallsBack(t *testing.T) {
	logger, err := NewLogger(Config{LogLevel: "loud"})
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(0))
}
