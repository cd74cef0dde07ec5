package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level    string         `yaml:"level"`  // debug, info, warn, error
	Format   string         `yaml:"format"` // text, json
	Dir      string         `yaml:"dir"`    // log directory path
	Rotation RotationConfig `yaml:"rotation"`
	Console  OutputConfig   `yaml:"console"`
	File     OutputConfig   `yaml:"file"`

	// DedupWindow collapses identical warn/error records in the error log
	// that repeat within the window. Zero disables it.
	DedupWindow time.Duration `yaml:"dedup_window"`
}

// RotationConfig holds log rotation settings
type RotationConfig struct {
	MaxSize    int  `yaml:"max_size"`    // MB
	MaxBackups int  `yaml:"max_backups"` // number of files
	MaxAge     int  `yaml:"max_age"`     // days
	Compress   bool `yaml:"compress"`
}

// OutputConfig configures one log destination.
type OutputConfig struct {
	Enabled bool   `yaml:"enabled"`
	Level   string `yaml:"level"`  // optional override
	Format  string `yaml:"format"` // optional override
}

// DefaultLoggingConfig returns default logging configuration
func DefaultLoggingConfig() LoggingConfig {
	return LoggingConfig{
		Level:  "info",
		Format: "text",
		Dir:    "logs",
		Rotation: RotationConfig{
			MaxSize:    100,
			MaxBackups: 10,
			MaxAge:     30,
			Compress:   true,
		},
		Console:     OutputConfig{Enabled: true, Level: "info", Format: "text"},
		File:        OutputConfig{Enabled: true, Level: "info", Format: "text"},
		DedupWindow: 10 * time.Second,
	}
}

func (c *LoggingConfig) ApplyDefaults() {
	d := DefaultLoggingConfig()
	if c.Level == "" {
		c.Level = d.Level
	}
	if c.Format == "" {
		c.Format = d.Format
	}
	if c.Dir == "" {
		c.Dir = d.Dir
	}
	if c.Rotation.MaxSize == 0 {
		c.Rotation.MaxSize = d.Rotation.MaxSize
	}
	if c.Rotation.MaxBackups == 0 {
		c.Rotation.MaxBackups = d.Rotation.MaxBackups
	}
	if c.Rotation.MaxAge == 0 {
		c.Rotation.MaxAge = d.Rotation.MaxAge
	}

	// An untouched output section means "enabled, inherit the top level".
	if c.Console == (OutputConfig{}) {
		c.Console.Enabled = true
	}
	if c.File == (OutputConfig{}) {
		c.File.Enabled = true
	}
	for _, o := range []*OutputConfig{&c.Console, &c.File} {
		if o.Level == "" {
			o.Level = c.Level
		}
		if o.Format == "" {
			o.Format = c.Format
		}
	}
}

func (c *LoggingConfig) ApplyEnvOverrides() {
	if v := os.Getenv("CRM_LOG_LEVEL"); v != "" {
		v = strings.ToLower(v)
		c.Level, c.Console.Level, c.File.Level = v, v, v
	}
	if v := os.Getenv("CRM_LOG_FORMAT"); v != "" {
		v = strings.ToLower(v)
		c.Format, c.Console.Format, c.File.Format = v, v, v
	}
	if v := os.Getenv("CRM_LOG_DIR"); v != "" {
		c.Dir = v
	}
}

// ResolvePaths makes a relative log dir relative to the parent of configDir,
// so logs/ ends up next to config/ rather than inside it.
func (c *LoggingConfig) ResolvePaths(configDir string) {
	if c.Dir == "" || filepath.IsAbs(c.Dir) {
		return
	}
	if strings.HasPrefix(c.Dir, "..") {
		c.Dir = filepath.Clean(filepath.Join(configDir, c.Dir))
		return
	}
	c.Dir = filepath.Clean(filepath.Join(filepath.Dir(configDir), c.Dir))
}

var (
	validLevels  = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	validFormats = map[string]bool{"text": true, "json": true}
)

func (c *LoggingConfig) Validate() error {
	if !validLevels[c.Level] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Level)
	}
	if !validFormats[c.Format] {
		return fmt.Errorf("invalid log format: %s (must be text or json)", c.Format)
	}
	if c.File.Enabled && c.Dir == "" {
		return fmt.Errorf("log directory cannot be empty")
	}
	if c.DedupWindow < 0 {
		return fmt.Errorf("logging.dedup_window must not be negative")
	}
	for name, o := range map[string]OutputConfig{"console": c.Console, "file": c.File} {
		if !o.Enabled {
			continue
		}
		if o.Level != "" && !validLevels[o.Level] {
			return fmt.Errorf("invalid %s log level: %s", name, o.Level)
		}
		if o.Format != "" && !validFormats[o.Format] {
			return fmt.Errorf("invalid %s log format: %s", name, o.Format)
		}
	}
	return nil
}
