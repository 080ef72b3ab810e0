package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("CONFIG_DIR", dir)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "local", cfg.Env)
	assert.Equal(t, "localhost:8080", cfg.ServerAddress)
	assert.Equal(t, dir, cfg.ConfigDir)
	assert.Equal(t, filepath.Join(dir, "offline.db"), cfg.DataPath)
	assert.Equal(t, 300*time.Second, cfg.SyncInterval)
	assert.Equal(t, 15*time.Second, cfg.DeliveryTimeout)
	assert.Equal(t, 24*time.Hour, cfg.CacheMaxAge)
	assert.False(t, cfg.StorageDisabled)
	assert.False(t, cfg.EnableTLS)
	assert.Equal(t, "http://localhost:8080", cfg.BaseURL())
}

func TestLoad_EnvOverrides(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("CONFIG_DIR", dir)
	t.Setenv("SERVER_ADDRESS", "api.example.org")
	t.Setenv("DATA_PATH", filepath.Join(dir, "custom.db"))
	t.Setenv("DELIVERY_TIMEOUT_SECONDS", "3")
	t.Setenv("APP_ENV", "prod")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "custom.db"), cfg.DataPath)
	assert.Equal(t, 3*time.Second, cfg.DeliveryTimeout)
	assert.Equal(t, "http://api.example.org", cfg.BaseURL())
	assert.Equal(t, "prod", cfg.Env)
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("CONFIG_DIR", dir)
	yaml := "server_address: sync.example.org:9443\nsync_interval_seconds: 60\nenable_tls: true\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0600))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sync.example.org:9443", cfg.ServerAddress)
	assert.Equal(t, time.Minute, cfg.SyncInterval)
	assert.Equal(t, "https://sync.example.org:9443", cfg.BaseURL())
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv("CONFIG_DIR", t.TempDir())
	t.Setenv("SYNC_INTERVAL_SECONDS", "0")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_EnableTLS(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantURL string
	}{
		{name: "enabled", value: "true", wantURL: "https://localhost:8080"},
		{name: "disabled", value: "false", wantURL: "http://localhost:8080"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("CONFIG_DIR", t.TempDir())
			t.Setenv("ENABLE_TLS", tt.value)

			cfg, err := Load()
			require.NoError(t, err)
			assert.Equal(t, tt.wantURL, cfg.BaseURL())
		})
	}
}
