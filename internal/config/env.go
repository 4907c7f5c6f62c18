package config

import (
	"os"
	"strconv"
	"time"
)

// LoadFromEnv loads configuration from environment variables
// Environment variables override default values
func LoadFromEnv(cfg *Config) {
	// Database configuration
	if dbPath := os.Getenv("MEDIACTL_DB_PATH"); dbPath != "" {
		cfg.Database.Path = dbPath
	}

	// Discovery configuration
	if pollInterval := os.Getenv("MEDIACTL_POLL_INTERVAL"); pollInterval != "" {
		if seconds, err := strconv.Atoi(pollInterval); err == nil && seconds > 0 {
			interval := time.Duration(seconds) * time.Second
			if interval >= cfg.Discovery.MinPollInterval && interval <= cfg.Discovery.MaxPollInterval {
				cfg.Discovery.PollInterval = interval
			}
		}
	}

	if timeout := os.Getenv("MEDIACTL_TRANSPORT_TIMEOUT_MS"); timeout != "" {
		if millis, err := strconv.Atoi(timeout); err == nil && millis > 0 {
			cfg.Discovery.TransportTimeout = time.Duration(millis) * time.Millisecond
		}
	}

	if timeout := os.Getenv("MEDIACTL_SESSION_TIMEOUT_MS"); timeout != "" {
		if millis, err := strconv.Atoi(timeout); err == nil && millis > 0 {
			cfg.Discovery.SessionTimeout = time.Duration(millis) * time.Millisecond
		}
	}

	if timeout := os.Getenv("MEDIACTL_WINDOW_TIMEOUT_MS"); timeout != "" {
		if millis, err := strconv.Atoi(timeout); err == nil && millis > 0 {
			cfg.Discovery.WindowTimeout = time.Duration(millis) * time.Millisecond
		}
	}

	// Registry configuration
	if grammarFile := os.Getenv("MEDIACTL_GRAMMAR_FILE"); grammarFile != "" {
		cfg.Registry.GrammarFile = grammarFile
	}

	// Daemon configuration
	if pidFile := os.Getenv("MEDIACTL_PID_FILE"); pidFile != "" {
		cfg.Daemon.PIDFile = pidFile
	}

	// Report configuration
	if timeZone := os.Getenv("MEDIACTL_TIMEZONE"); timeZone != "" {
		cfg.Report.TimeZone = timeZone
	}

	// Web configuration
	if webHost := os.Getenv("MEDIACTL_WEB_HOST"); webHost != "" {
		cfg.Web.Host = webHost
	}

	if webPort := os.Getenv("MEDIACTL_WEB_PORT"); webPort != "" {
		if port, err := strconv.Atoi(webPort); err == nil && port > 0 && port <= 65535 {
			cfg.Web.Port = port
		}
	}
}

// New creates a new Config with default values and loads from environment
func New() *Config {
	cfg := Default()
	LoadFromEnv(cfg)
	return cfg
}
