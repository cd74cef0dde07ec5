package notification

import (
	"fmt"
	"os"
	"time"

	"github.com/syntrixbase/crm/internal/relay"
)

const (
	SenderLog  = "log"
	SenderNats = "nats"
)

// Config selects the sender behind the Send RPC.
type Config struct {
	Sender        string     `yaml:"sender"`
	RelayCapacity int        `yaml:"relay_capacity"`
	Log           LogConfig  `yaml:"log"`
	Nats          NatsConfig `yaml:"nats"`
}

type LogConfig struct {
	QueueSize int `yaml:"queue_size"`
	// Throttle is the pause after each delivered message.
	Throttle time.Duration `yaml:"throttle"`
}

type NatsConfig struct {
	URL           string `yaml:"url"`
	Stream        string `yaml:"stream"`
	SubjectPrefix string `yaml:"subject_prefix"`
	// Storage is memory or file.
	Storage       string `yaml:"storage"`
	RetryAttempts int    `yaml:"retry_attempts"`
	// DuplicateWindow is how long the stream drops resent message ids.
	DuplicateWindow time.Duration `yaml:"duplicate_window"`
}

func DefaultConfig() Config {
	return Config{
		Sender:        SenderLog,
		RelayCapacity: relay.DefaultCapacity,
		Log: LogConfig{
			QueueSize: 1024 * 100,
		},
		Nats: NatsConfig{
			URL:           "nats://localhost:4222",
			Stream:        "NOTIFICATIONS",
			SubjectPrefix: "notifications",
			Storage:       "file",
			RetryAttempts:   3,
			DuplicateWindow: 2 * time.Minute,
		},
	}
}

func (c *Config) ApplyDefaults() {
	d := DefaultConfig()
	if c.Sender == "" {
		c.Sender = d.Sender
	}
	if c.RelayCapacity == 0 {
		c.RelayCapacity = d.RelayCapacity
	}
	if c.Log.QueueSize == 0 {
		c.Log.QueueSize = d.Log.QueueSize
	}
	if c.Nats.URL == "" {
		c.Nats.URL = d.Nats.URL
	}
	if c.Nats.Stream == "" {
		c.Nats.Stream = d.Nats.Stream
	}
	if c.Nats.SubjectPrefix == "" {
		c.Nats.SubjectPrefix = d.Nats.SubjectPrefix
	}
	if c.Nats.Storage == "" {
		c.Nats.Storage = d.Nats.Storage
	}
	if c.Nats.DuplicateWindow == 0 {
		c.Nats.DuplicateWindow = d.Nats.DuplicateWindow
	}
}

func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("CRM_NOTIFICATION_SENDER"); v != "" {
		c.Sender = v
	}
	if v := os.Getenv("CRM_NATS_URL"); v != "" {
		c.Nats.URL = v
	}
}

func (c *Config) ResolvePaths(_ string) {}

func (c *Config) Validate() error {
	switch c.Sender {
	case SenderLog, SenderNats:
	default:
		return fmt.Errorf("notification.sender must be log or nats: got %q", c.Sender)
	}
	if c.RelayCapacity < 1 {
		return fmt.Errorf("notification.relay_capacity must be positive")
	}
	if c.Log.QueueSize < 1 {
		return fmt.Errorf("notification.log.queue_size must be positive")
	}
	if c.Nats.Storage != "memory" && c.Nats.Storage != "file" {
		return fmt.Errorf("notification.nats.storage must be memory or file: got %q", c.Nats.Storage)
	}
	if c.Nats.DuplicateWindow < 0 {
		return fmt.Errorf("notification.nats.duplicate_window must not be negative")
	}
	return nil
}
