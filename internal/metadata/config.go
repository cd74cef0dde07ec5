// Package metadata serves the content materialization RPC.
package metadata

import (
	"errors"
	"os"
	"time"

	"github.com/syntrixbase/crm/internal/relay"
)

// Config configures the content catalog and its optional Redis cache.
type Config struct {
	// ContentAgeDays is how long ago generated content was created.
	ContentAgeDays int         `yaml:"content_age_days"`
	RelayCapacity  int         `yaml:"relay_capacity"`
	Redis          RedisConfig `yaml:"redis"`
}

type RedisConfig struct {
	Enabled bool          `yaml:"enabled"`
	URL     string        `yaml:"url"`
	TTL     time.Duration `yaml:"ttl"`
}

func DefaultConfig() Config {
	return Config{
		ContentAgeDays: 100,
		RelayCapacity:  relay.DefaultCapacity,
		Redis: RedisConfig{
			URL: "redis://localhost:6379/0",
			TTL: 10 * time.Minute,
		},
	}
}

func (c *Config) ApplyDefaults() {
	d := DefaultConfig()
	if c.ContentAgeDays == 0 {
		c.ContentAgeDays = d.ContentAgeDays
	}
	if c.RelayCapacity == 0 {
		c.RelayCapacity = d.RelayCapacity
	}
	if c.Redis.URL == "" {
		c.Redis.URL = d.Redis.URL
	}
	if c.Redis.TTL == 0 {
		c.Redis.TTL = d.Redis.TTL
	}
}

func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("CRM_REDIS_URL"); v != "" {
		c.Redis.URL = v
		c.Redis.Enabled = true
	}
}

func (c *Config) ResolvePaths(_ string) {}

func (c *Config) Validate() error {
	if c.RelayCapacity < 1 {
		return errors.New("metadata.relay_capacity must be positive")
	}
	if c.ContentAgeDays < 0 {
		return errors.New("metadata.content_age_days must not be negative")
	}
	return nil
}
