package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("FULFILLMENT_API_URL", "http://localhost:8080")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8080", cfg.API.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.API.RequestTimeout)
	assert.Equal(t, 10, cfg.API.RequestsPerSecond)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, 20, cfg.Paging.PageSize)
	assert.Empty(t, cfg.Redis.Addr)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := writeConfigFile(t, `
api:
  base_url: https://commerce.example.com
  request_timeout: 10s
  requests_per_second: 50
redis:
  addr: localhost:6379
  token_ttl: 1h
logging:
  level: debug
  pretty: true
paging:
  page_size: 50
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://commerce.example.com", cfg.API.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.API.RequestTimeout)
	assert.Equal(t, 50, cfg.API.RequestsPerSecond)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, time.Hour, cfg.Redis.TokenTTL)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.Logging.Pretty)
	assert.Equal(t, 50, cfg.Paging.PageSize)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfigFile(t, `
api:
  base_url: https://from-file.example.com
logging:
  level: warn
`)
	t.Setenv("FULFILLMENT_API_URL", "https://from-env.example.com")
	t.Setenv("FULFILLMENT_LOG_LEVEL", "debug")
	t.Setenv("FULFILLMENT_REDIS_ADDR", "redis.internal:6379")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://from-env.example.com", cfg.API.BaseURL)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "redis.internal:6379", cfg.Redis.Addr)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid",
			mutate: func(c *Config) { c.API.BaseURL = "http://localhost:8080" },
		},
		{
			name:    "missing base url",
			mutate:  func(c *Config) {},
			wantErr: "api.base_url is required",
		},
		{
			name: "bad rate",
			mutate: func(c *Config) {
				c.API.BaseURL = "http://localhost:8080"
				c.API.RequestsPerSecond = 0
			},
			wantErr: "api.requests_per_second must be > 0 (got 0)",
		},
		{
			name: "bad page size",
			mutate: func(c *Config) {
				c.API.BaseURL = "http://localhost:8080"
				c.Paging.PageSize = -1
			},
			wantErr: "paging.page_size must be > 0 (got -1)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.EqualError(t, err, tt.wantErr)
			}
		})
	}
}
