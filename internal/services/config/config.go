package config

import (
	"fmt"
	"os"
	"strings"
)

// Service names one gRPC service the process can host.
type Service string

const (
	ServiceCRM          Service = "crm"
	ServiceUserState    Service = "user_state"
	ServiceMetadata     Service = "metadata"
	ServiceNotification Service = "notification"
)

// AllServices lists every hostable service in start order: collaborators
// first so that an all-in-one process can dial itself.
var AllServices = []Service{ServiceUserState, ServiceMetadata, ServiceNotification, ServiceCRM}

// Config selects the services this process runs.
type Config struct {
	CRM          bool `yaml:"crm"`
	UserState    bool `yaml:"user_state"`
	Metadata     bool `yaml:"metadata"`
	Notification bool `yaml:"notification"`
}

// DefaultConfig runs everything in one process.
func DefaultConfig() Config {
	return Config{CRM: true, UserState: true, Metadata: true, Notification: true}
}

// Enabled reports whether s is selected.
func (c Config) Enabled(s Service) bool {
	switch s {
	case ServiceCRM:
		return c.CRM
	case ServiceUserState:
		return c.UserState
	case ServiceMetadata:
		return c.Metadata
	case ServiceNotification:
		return c.Notification
	}
	return false
}

// Set selects or deselects s.
func (c *Config) Set(s Service, on bool) error {
	switch s {
	case ServiceCRM:
		c.CRM = on
	case ServiceUserState:
		c.UserState = on
	case ServiceMetadata:
		c.Metadata = on
	case ServiceNotification:
		c.Notification = on
	default:
		return fmt.Errorf("unknown service %q", s)
	}
	return nil
}

// Selected returns the enabled services in start order.
func (c Config) Selected() []Service {
	var out []Service
	for _, s := range AllServices {
		if c.Enabled(s) {
			out = append(out, s)
		}
	}
	return out
}

// ApplyDefaults is a no-op: an empty selection is rejected by Validate rather
// than silently widened.
func (c *Config) ApplyDefaults() {}

// ApplyEnvOverrides reads CRM_SERVICES, a comma separated list of service
// names or "all", which replaces the selection.
func (c *Config) ApplyEnvOverrides() {
	v := strings.TrimSpace(os.Getenv("CRM_SERVICES"))
	if v == "" {
		return
	}
	if v == "all" {
		*c = DefaultConfig()
		return
	}
	*c = Config{}
	for _, name := range strings.Split(v, ",") {
		// Unknown names surface through Validate on the flag path; here they are ignored.
		_ = c.Set(Service(strings.TrimSpace(name)), true)
	}
}

func (c *Config) ResolvePaths(_ string) {}

func (c *Config) Validate() error {
	if len(c.Selected()) == 0 {
		return fmt.Errorf("services: at least one service must be enabled")
	}
	return nil
}
