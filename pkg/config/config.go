// Package config handles configuration for the fulfillment client binaries.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the complete configuration structure.
type Config struct {
	API     APIConfig     `yaml:"api"`
	Redis   RedisConfig   `yaml:"redis"`
	Logging LoggingConfig `yaml:"logging"`
	Paging  PagingConfig  `yaml:"paging"`
}

// APIConfig contains commerce backend settings.
type APIConfig struct {
	BaseURL           string        `yaml:"base_url"`
	RequestTimeout    time.Duration `yaml:"request_timeout"`
	RequestsPerSecond int           `yaml:"requests_per_second"`
	Burst             int           `yaml:"burst"`
}

// RedisConfig contains the optional shared credential store settings.
// An empty Addr keeps credentials in process memory.
type RedisConfig struct {
	Addr     string        `yaml:"addr"`
	DB       int           `yaml:"db"`
	TokenTTL time.Duration `yaml:"token_ttl"`
}

// LoggingConfig contains log output settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Pretty bool   `yaml:"pretty"`
}

// PagingConfig contains order list paging settings.
type PagingConfig struct {
	PageSize int `yaml:"page_size"`
}

// Default returns the baseline configuration applied before file and
// environment overrides.
func Default() Config {
	return Config{
		API: APIConfig{
			RequestTimeout:    30 * time.Second,
			RequestsPerSecond: 10,
			Burst:             20,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Paging: PagingConfig{
			PageSize: 20,
		},
	}
}

// Load reads the configuration file at path on top of the defaults, then
// applies environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file: %w", err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// applyEnv overrides settings that commonly differ per deployment.
func (c *Config) applyEnv() {
	if v := os.Getenv("FULFILLMENT_API_URL"); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv("FULFILLMENT_REDIS_ADDR"); v != "" {
		c.Redis.Addr = v
	}
	if v := os.Getenv("FULFILLMENT_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
}

// Validate checks the configuration for usability.
func (c Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("api.base_url is required")
	}
	if c.API.RequestsPerSecond <= 0 {
		return fmt.Errorf("api.requests_per_second must be > 0 (got %d)", c.API.RequestsPerSecond)
	}
	if c.Paging.PageSize <= 0 {
		return fmt.Errorf("paging.page_size must be > 0 (got %d)", c.Paging.PageSize)
	}
	return nil
}
