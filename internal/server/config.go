package server

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/syntrixbase/crm/internal/server/ratelimit"
)

// Config holds the configuration for the unified server module.
type Config struct {
	Host string `yaml:"host"`

	// HTTP serves metrics and health probes only.
	HTTPPort         int           `yaml:"http_port"`
	HTTPReadTimeout  time.Duration `yaml:"http_read_timeout"`
	HTTPWriteTimeout time.Duration `yaml:"http_write_timeout"`
	HTTPIdleTimeout  time.Duration `yaml:"http_idle_timeout"`

	GRPCPort          int  `yaml:"grpc_port"`
	GRPCMaxConcurrent uint `yaml:"grpc_max_concurrent"`

	// RateLimit throttles campaign invocations per caller.
	RateLimit ratelimit.Config `yaml:"rate_limit"`

	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// DefaultConfig returns safe defaults for development.
func DefaultConfig() Config {
	return Config{
		Host:              "0.0.0.0",
		HTTPPort:          8080,
		HTTPReadTimeout:   10 * time.Second,
		HTTPWriteTimeout:  10 * time.Second,
		HTTPIdleTimeout:   60 * time.Second,
		GRPCPort:          50000,
		GRPCMaxConcurrent: 1000,
		RateLimit:         ratelimit.DefaultConfig(),
		ShutdownTimeout:   10 * time.Second,
	}
}

func (c *Config) ApplyDefaults() {
	d := DefaultConfig()
	if c.Host == "" {
		c.Host = d.Host
	}
	if c.HTTPPort == 0 {
		c.HTTPPort = d.HTTPPort
	}
	if c.HTTPReadTimeout == 0 {
		c.HTTPReadTimeout = d.HTTPReadTimeout
	}
	if c.HTTPWriteTimeout == 0 {
		c.HTTPWriteTimeout = d.HTTPWriteTimeout
	}
	if c.HTTPIdleTimeout == 0 {
		c.HTTPIdleTimeout = d.HTTPIdleTimeout
	}
	if c.GRPCPort == 0 {
		c.GRPCPort = d.GRPCPort
	}
	if c.GRPCMaxConcurrent == 0 {
		c.GRPCMaxConcurrent = d.GRPCMaxConcurrent
	}
	if c.RateLimit.Requests == 0 {
		c.RateLimit.Requests = d.RateLimit.Requests
	}
	if c.RateLimit.Window == 0 {
		c.RateLimit.Window = d.RateLimit.Window
	}
	if c.ShutdownTimeout == 0 {
		c.ShutdownTimeout = d.ShutdownTimeout
	}
}

func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("CRM_HOST"); v != "" {
		c.Host = v
	}
	if v, err := strconv.Atoi(os.Getenv("CRM_GRPC_PORT")); err == nil {
		c.GRPCPort = v
	}
	if v, err := strconv.Atoi(os.Getenv("CRM_HTTP_PORT")); err == nil {
		c.HTTPPort = v
	}
}

func (c *Config) ResolvePaths(_ string) {}

func (c *Config) Validate() error {
	for name, p := range map[string]int{"grpc_port": c.GRPCPort, "http_port": c.HTTPPort} {
		if p < 0 || p > 65535 {
			return fmt.Errorf("server.%s out of range: %d", name, p)
		}
	}
	if c.GRPCPort != 0 && c.GRPCPort == c.HTTPPort {
		return fmt.Errorf("server.grpc_port and server.http_port must differ")
	}
	if c.ShutdownTimeout < 0 {
		return fmt.Errorf("server.shutdown_timeout must not be negative")
	}
	return nil
}

// GRPCAddr is the listen address of the gRPC server.
func (c Config) GRPCAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.GRPCPort)
}

// HTTPAddr is the listen address of the HTTP server.
func (c Config) HTTPAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.HTTPPort)
}
