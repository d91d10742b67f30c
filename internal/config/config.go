// Package config loads runtime settings from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds settings shared by the CLI and the store.
type Config struct {
	DataDir          string        `env:"JAMI_DATA_DIR"`
	LogLevel         string        `env:"JAMI_LOG_LEVEL" envDefault:"info"`
	StoreRetries     uint64        `env:"JAMI_STORE_RETRIES" envDefault:"3"`
	StoreBackoff     time.Duration `env:"JAMI_STORE_BACKOFF" envDefault:"50ms"`
	StoreBusyTimeout time.Duration `env:"JAMI_STORE_BUSY_TIMEOUT" envDefault:"5s"`
}

// Load parses Config from environment variables.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Debug reports whether development logging was requested.
func (c Config) Debug() bool { return c.LogLevel == "debug" }
