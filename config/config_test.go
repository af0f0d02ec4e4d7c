package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigCreatesDefaults(t *testing.T) {
	// Setup
	path := filepath.Join(t.TempDir(), "nested", "config.json")

	// Test case 1: A missing file is created with the defaults
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Game, cfg.Game)
	_, err = os.Stat(path)
	assert.NoError(t, err)

	// Test case 2: Loading again reads the file back
	cfg.Server.Port = "9090"
	require.NoError(t, SaveConfig(cfg, path))
	reloaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "9090", reloaded.Server.Port)
}

func TestEnvOverrides(t *testing.T) {
	// Setup
	path := filepath.Join(t.TempDir(), "config.json")
	t.Setenv("GEMINI_API_KEY", "secret-key")
	t.Setenv("STORAGE_DRIVER", "sqlite3")
	t.Setenv("GAME_SEED", "42")

	// Test case 1: Environment wins over the file
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "secret-key", cfg.Gateway.APIKey)
	assert.Equal(t, "sqlite3", cfg.Storage.Driver)
	assert.Equal(t, int64(42), cfg.Game.Seed)
	assert.Equal(t, "gemini-2.5-flash", cfg.Gateway.Model)

	// Test case 2: The API key never lands on disk
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "secret-key")
}

func TestParseEnvInvalidValue(t *testing.T) {
	t.Setenv("GATEWAY_ATTEMPTS", "muitas")

	cfg := DefaultConfig()
	err := ParseEnv(&cfg)
	assert.Error(t, err)
}
