package crm

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/syntrixbase/crm/internal/relay"
	"github.com/syntrixbase/crm/internal/windowquery"
)

// Config configures the campaign orchestrator and its collaborators.
type Config struct {
	SenderEmail string `yaml:"sender_email"`

	UserStateAddr    string `yaml:"user_state_addr"`
	MetadataAddr     string `yaml:"metadata_addr"`
	NotificationAddr string `yaml:"notification_addr"`

	RelayCapacity int `yaml:"relay_capacity"`

	// ContentTimeout bounds the collection of materialized content.
	ContentTimeout time.Duration `yaml:"content_timeout"`

	// DrainTimeout bounds how long shutdown waits for in-flight dispatches.
	DrainTimeout time.Duration `yaml:"drain_timeout"`

	Workflows WorkflowsConfig `yaml:"workflows"`
}

type WorkflowsConfig struct {
	Welcome WorkflowConfig `yaml:"welcome"`
	Recall  WorkflowConfig `yaml:"recall"`
	Remind  WorkflowConfig `yaml:"remind"`
}

// WorkflowConfig picks the user field a workflow windows on, how the window
// is shaped and the message subject.
type WorkflowConfig struct {
	Field   string `yaml:"field"`
	Policy  string `yaml:"policy"`
	Subject string `yaml:"subject"`
}

func DefaultConfig() Config {
	return Config{
		SenderEmail:      "crm@example.com",
		UserStateAddr:    "localhost:50000",
		MetadataAddr:     "localhost:50000",
		NotificationAddr: "localhost:50000",
		RelayCapacity:    relay.DefaultCapacity,
		ContentTimeout:   10 * time.Second,
		DrainTimeout:     30 * time.Second,
		Workflows: WorkflowsConfig{
			Welcome: WorkflowConfig{Field: "created_at", Policy: string(windowquery.PolicyDay), Subject: "Welcome"},
			Recall:  WorkflowConfig{Field: "last_visited_at", Policy: string(windowquery.PolicyUntil), Subject: "Recall"},
			Remind:  WorkflowConfig{Field: "last_visited_at", Policy: string(windowquery.PolicyUntil), Subject: "Remind!!!"},
		},
	}
}

func (w *WorkflowConfig) applyDefaults(d WorkflowConfig) {
	if w.Field == "" {
		w.Field = d.Field
	}
	if w.Policy == "" {
		w.Policy = d.Policy
	}
	if w.Subject == "" {
		w.Subject = d.Subject
	}
}

func (c *Config) ApplyDefaults() {
	d := DefaultConfig()
	if c.SenderEmail == "" {
		c.SenderEmail = d.SenderEmail
	}
	if c.UserStateAddr == "" {
		c.UserStateAddr = d.UserStateAddr
	}
	if c.MetadataAddr == "" {
		c.MetadataAddr = d.MetadataAddr
	}
	if c.NotificationAddr == "" {
		c.NotificationAddr = d.NotificationAddr
	}
	if c.RelayCapacity == 0 {
		c.RelayCapacity = d.RelayCapacity
	}
	if c.ContentTimeout == 0 {
		c.ContentTimeout = d.ContentTimeout
	}
	if c.DrainTimeout == 0 {
		c.DrainTimeout = d.DrainTimeout
	}
	c.Workflows.Welcome.applyDefaults(d.Workflows.Welcome)
	c.Workflows.Recall.applyDefaults(d.Workflows.Recall)
	c.Workflows.Remind.applyDefaults(d.Workflows.Remind)
}

func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("CRM_SENDER_EMAIL"); v != "" {
		c.SenderEmail = v
	}
	if v := os.Getenv("CRM_USER_STATE_ADDR"); v != "" {
		c.UserStateAddr = v
	}
	if v := os.Getenv("CRM_METADATA_ADDR"); v != "" {
		c.MetadataAddr = v
	}
	if v := os.Getenv("CRM_NOTIFICATION_ADDR"); v != "" {
		c.NotificationAddr = v
	}
}

func (c *Config) ResolvePaths(_ string) {}

func (c *Config) Validate() error {
	if c.SenderEmail == "" {
		return errors.New("crm.sender_email is required")
	}
	if c.RelayCapacity < 1 {
		return errors.New("crm.relay_capacity must be positive")
	}
	if c.ContentTimeout <= 0 {
		return errors.New("crm.content_timeout must be positive")
	}
	for name, w := range map[string]WorkflowConfig{
		"welcome": c.Workflows.Welcome,
		"recall":  c.Workflows.Recall,
		"remind":  c.Workflows.Remind,
	} {
		if w.Field == "" {
			return fmt.Errorf("crm.workflows.%s.field is required", name)
		}
		if _, err := windowquery.ParsePolicy(w.Policy); err != nil {
			return fmt.Errorf("crm.workflows.%s.policy: %w", name, err)
		}
	}
	return nil
}
