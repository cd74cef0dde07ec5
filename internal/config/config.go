package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/syntrixbase/crm/internal/auth"
	"github.com/syntrixbase/crm/internal/crm"
	"github.com/syntrixbase/crm/internal/metadata"
	"github.com/syntrixbase/crm/internal/notification"
	"github.com/syntrixbase/crm/internal/server"
	services "github.com/syntrixbase/crm/internal/services/config"
	"github.com/syntrixbase/crm/internal/userstate"
	"gopkg.in/yaml.v3"
)

// DefaultDir is the config directory used unless CRM_CONFIG_DIR says otherwise.
const DefaultDir = "config"

// Config holds the application configuration
type Config struct {
	Services services.Config `yaml:"services"`
	Server   server.Config   `yaml:"server"`
	Logging  LoggingConfig   `yaml:"logging"`
	Auth     auth.Config     `yaml:"auth"`

	CRM          crm.Config          `yaml:"crm"`
	UserState    userstate.Config    `yaml:"user_state"`
	Metadata     metadata.Config     `yaml:"metadata"`
	Notification notification.Config `yaml:"notification"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Services:     services.DefaultConfig(),
		Server:       server.DefaultConfig(),
		Logging:      DefaultLoggingConfig(),
		Auth:         auth.DefaultConfig(),
		CRM:          crm.DefaultConfig(),
		UserState:    userstate.DefaultConfig(),
		Metadata:     metadata.DefaultConfig(),
		Notification: notification.DefaultConfig(),
	}
}

// LoadConfig loads configuration from files and environment variables and
// exits the process when it is invalid.
func LoadConfig() *Config {
	cfg, err := Load(configDir())
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}
	return cfg
}

// Load reads dir/config.yml and dir/config.local.yml over the defaults, then
// runs every section through its lifecycle.
// Order: defaults -> config.yml -> config.local.yml -> ApplyEnvOverrides -> ResolvePaths -> Validate
func Load(dir string) (*Config, error) {
	cfg := Default()

	if err := loadFile(filepath.Join(dir, "config.yml"), cfg); err != nil {
		return nil, err
	}
	if err := loadFile(filepath.Join(dir, "config.local.yml"), cfg); err != nil {
		return nil, err
	}

	if err := ApplyServiceConfigs(dir,
		&cfg.Services,
		&cfg.Server,
		&cfg.Logging,
		&cfg.Auth,
		&cfg.CRM,
		&cfg.UserState,
		&cfg.Metadata,
		&cfg.Notification,
	); err != nil {
		return nil, err
	}
	return cfg, nil
}

func configDir() string {
	if v := os.Getenv("CRM_CONFIG_DIR"); v != "" {
		return v
	}
	return DefaultDir
}

// A missing file is skipped; an unreadable or malformed one is an error.
func loadFile(filename string, cfg *Config) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read %s: %w", filename, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", filename, err)
	}
	return nil
}
