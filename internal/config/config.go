package config

import (
	"fmt"
	"time"

	"github.com/Typas/GW2-api-img/internal/gw2api"
)

type Config struct {
	API APIConfig
	Log LogConfig
}

type APIConfig struct {
	BaseURL   string
	ChunkSize int
	Lang      string
	// Timeout is a Go duration string. Empty means requests never time out.
	Timeout string
}

type LogConfig struct {
	Level string
}

func defaults() Config {
	return Config{
		API: APIConfig{
			BaseURL:   gw2api.DefaultBaseURL,
			ChunkSize: gw2api.MaxChunkSize,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads configuration from the JSON file at
// $XDG_CONFIG_HOME/gw2ref/config.json and applies GW2REF_* environment
// variable overrides on top.
func Load() (Config, error) {
	return loadWith(newPlatformBackend())
}

func loadWith(b ConfigBackend) (Config, error) {
	cfg := defaults()

	if err := applyBackend(&cfg, b); err != nil {
		return Config{}, err
	}

	applyEnvOverrides(&cfg)

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.API.ChunkSize < 1 || c.API.ChunkSize > gw2api.MaxChunkSize {
		return fmt.Errorf("invalid config: api.chunk_size must be between 1 and %d, got %d", gw2api.MaxChunkSize, c.API.ChunkSize)
	}
	if _, err := c.RequestTimeout(); err != nil {
		return err
	}
	return nil
}

// RequestTimeout parses API.Timeout. An empty value yields zero.
func (c Config) RequestTimeout() (time.Duration, error) {
	if c.API.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.API.Timeout)
	if err != nil {
		return 0, fmt.Errorf("invalid config: api.timeout: %w", err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid config: api.timeout must not be negative, got %s", d)
	}
	return d, nil
}
