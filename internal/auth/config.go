package auth

import (
	"errors"
	"os"
	"path/filepath"
	"time"
)

// Config locates the token keys. The CRM service needs only the public key;
// the client needs the private key to sign.
type Config struct {
	Enabled        bool          `yaml:"enabled"`
	PublicKeyFile  string        `yaml:"public_key_file"`
	PrivateKeyFile string        `yaml:"private_key_file"`
	Issuer         string        `yaml:"issuer"`
	Audience       string        `yaml:"audience"`
	TokenTTL       time.Duration `yaml:"token_ttl"`
}

func DefaultConfig() Config {
	return Config{
		Enabled:        true,
		PublicKeyFile:  filepath.Join("keys", PublicKeyFile),
		PrivateKeyFile: filepath.Join("keys", PrivateKeyFile),
		Issuer:         DefaultIssuer,
		Audience:       DefaultAudience,
		TokenTTL:       24 * time.Hour,
	}
}

func (c *Config) ApplyDefaults() {
	d := DefaultConfig()
	if c.PublicKeyFile == "" {
		c.PublicKeyFile = d.PublicKeyFile
	}
	if c.PrivateKeyFile == "" {
		c.PrivateKeyFile = d.PrivateKeyFile
	}
	if c.Issuer == "" {
		c.Issuer = d.Issuer
	}
	if c.Audience == "" {
		c.Audience = d.Audience
	}
	if c.TokenTTL == 0 {
		c.TokenTTL = d.TokenTTL
	}
}

func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("CRM_AUTH_PUBLIC_KEY"); v != "" {
		c.PublicKeyFile = v
	}
	if v := os.Getenv("CRM_AUTH_PRIVATE_KEY"); v != "" {
		c.PrivateKeyFile = v
	}
	if os.Getenv("CRM_AUTH_DISABLED") == "true" {
		c.Enabled = false
	}
}

func (c *Config) ResolvePaths(configDir string) {
	if c.PublicKeyFile != "" && !filepath.IsAbs(c.PublicKeyFile) {
		c.PublicKeyFile = filepath.Join(configDir, c.PublicKeyFile)
	}
	if c.PrivateKeyFile != "" && !filepath.IsAbs(c.PrivateKeyFile) {
		c.PrivateKeyFile = filepath.Join(configDir, c.PrivateKeyFile)
	}
}

func (c *Config) Validate() error {
	if c.Enabled && c.PublicKeyFile == "" {
		return errors.New("auth.public_key_file is required when auth is enabled")
	}
	if c.TokenTTL < 0 {
		return errors.New("auth.token_ttl must not be negative")
	}
	return nil
}
