package config

import (
	"fmt"
	"os"
	"time"
)

// Config holds all application configuration
type Config struct {
	// Database configuration
	Database DatabaseConfig

	// Discovery configuration
	Discovery DiscoveryConfig

	// Registry configuration
	Registry RegistryConfig

	// Daemon configuration
	Daemon DaemonConfig

	// Report configuration
	Report ReportConfig

	// Web server configuration
	Web WebConfig
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	Path string // Path to SQLite database file
}

// DiscoveryConfig holds discovery-cycle behavior configuration
type DiscoveryConfig struct {
	PollInterval     time.Duration // How often the daemon runs a discovery cycle
	MinPollInterval  time.Duration // Minimum allowed poll interval
	MaxPollInterval  time.Duration // Maximum allowed poll interval
	TransportTimeout time.Duration // Budget for one transport-session discovery pass
	SessionTimeout   time.Duration // Budget for one session's property fetch
	WindowTimeout    time.Duration // Budget for one window enumeration pass
}

// RegistryConfig holds grammar registry configuration
type RegistryConfig struct {
	GrammarFile string // Optional TOML file with extra app grammars
}

// DaemonConfig holds daemon process configuration
type DaemonConfig struct {
	PIDFile string // Path to PID file for daemon management
}

// ReportConfig holds report generation configuration
type ReportConfig struct {
	TimeZone string
}

// WebConfig holds web server configuration
type WebConfig struct {
	Host string // Host to bind web server to
	Port int    // Port for web server
}

// Default returns a Config with sensible default values
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path: "", // Empty means use default ~/.config/mediactl/mediactl.db
		},
		Discovery: DiscoveryConfig{
			PollInterval:     2 * time.Second,
			MinPollInterval:  time.Second,
			MaxPollInterval:  60 * time.Second,
			TransportTimeout: 4 * time.Second,
			SessionTimeout:   time.Second,
			WindowTimeout:    2 * time.Second,
		},
		Registry: RegistryConfig{
			GrammarFile: "", // Empty means builtin grammars only
		},
		Daemon: DaemonConfig{
			PIDFile: fmt.Sprintf("/tmp/mediactl-%d.pid", os.Getuid()),
		},
		Report: ReportConfig{
			TimeZone: "Local",
		},
		Web: WebConfig{
			Host: "localhost",
			Port: 10000 + os.Getuid(), // Default port based on user id
		},
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Discovery.PollInterval < c.Discovery.MinPollInterval {
		return fmt.Errorf("poll interval (%v) cannot be less than minimum (%v)",
			c.Discovery.PollInterval, c.Discovery.MinPollInterval)
	}

	if c.Discovery.PollInterval > c.Discovery.MaxPollInterval {
		return fmt.Errorf("poll interval (%v) cannot be greater than maximum (%v)",
			c.Discovery.PollInterval, c.Discovery.MaxPollInterval)
	}

	if c.Discovery.TransportTimeout <= 0 {
		return fmt.Errorf("transport timeout must be positive")
	}

	if c.Discovery.SessionTimeout <= 0 {
		return fmt.Errorf("session timeout must be positive")
	}

	if c.Discovery.SessionTimeout > c.Discovery.TransportTimeout {
		return fmt.Errorf("session timeout (%v) cannot exceed transport timeout (%v)",
			c.Discovery.SessionTimeout, c.Discovery.TransportTimeout)
	}

	if c.Discovery.WindowTimeout <= 0 {
		return fmt.Errorf("window timeout must be positive")
	}

	// Validate web config
	if c.Web.Port < 1 || c.Web.Port > 65535 {
		return fmt.Errorf("web port must be between 1 and 65535, got %d", c.Web.Port)
	}

	if c.Web.Host == "" {
		return fmt.Errorf("web host cannot be empty")
	}

	// Validate daemon config
	if c.Daemon.PIDFile == "" {
		return fmt.Errorf("PID file path cannot be empty")
	}

	return nil
}

// SetPollInterval sets the poll interval with validation
func (c *Config) SetPollInterval(interval time.Duration) error {
	if interval < c.Discovery.MinPollInterval {
		return fmt.Errorf("poll interval cannot be less than %v", c.Discovery.MinPollInterval)
	}
	if interval > c.Discovery.MaxPollInterval {
		return fmt.Errorf("poll interval cannot be greater than %v", c.Discovery.MaxPollInterval)
	}
	c.Discovery.PollInterval = interval
	return nil
}

// SetWebPort sets the web server port with validation
func (c *Config) SetWebPort(port int) error {
	if port < 1 || port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", port)
	}
	c.Web.Port = port
	return nil
}

// String returns a string representation of the config
func (c *Config) String() string {
	return fmt.Sprintf(`Configuration:
  Database:
    Path: %s
  Discovery:
    Poll Interval: %v
    Transport Timeout: %v
    Session Timeout: %v
    Window Timeout: %v
  Registry:
    Grammar File: %s
  Daemon:
    PID File: %s
  Web:
    Host: %s
    Port: %d`,
		c.Database.Path,
		c.Discovery.PollInterval,
		c.Discovery.TransportTimeout,
		c.Discovery.SessionTimeout,
		c.Discovery.WindowTimeout,
		c.Registry.GrammarFile,
		c.Daemon.PIDFile,
		c.Web.Host,
		c.Web.Port,
	)
}
