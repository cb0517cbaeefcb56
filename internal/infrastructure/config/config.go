// Package config loads the process configuration of the dashboard generator.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root process configuration.
// It is loaded from YAML and can be overridden by environment variables.
type Config struct {
	HomeAssistant HomeAssistantConfig `yaml:"home_assistant"`
	Server        ServerConfig        `yaml:"server"`
	Dashboard     DashboardConfig     `yaml:"dashboard"`
	Logging       LoggingConfig       `yaml:"logging"`
}

// HomeAssistantConfig contains the connection settings for the host.
type HomeAssistantConfig struct {
	URL   string `yaml:"url"`
	Token string `yaml:"token"`

	// Timeout bounds a whole snapshot fetch, in seconds.
	Timeout int `yaml:"timeout"`

	// MaxRetries limits dial/auth attempts. 0 means a single attempt.
	MaxRetries int `yaml:"max_retries"`
}

// ServerConfig contains HTTP settings for serve mode.
type ServerConfig struct {
	Listen string `yaml:"listen"`
}

// DashboardConfig points at the persisted dashboard configuration.
type DashboardConfig struct {
	ConfigPath string `yaml:"config_path"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// Load reads configuration from a YAML file and applies environment variable overrides.
//
// The loading order is defaults, then the file, then DASHBOARD_* variables.
// An empty path or a missing file leaves the defaults in place.
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("reading config file: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing config file: %w", err)
			}
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func defaultConfig() *Config {
	return &Config{
		HomeAssistant: HomeAssistantConfig{
			Timeout:    30,
			MaxRetries: 5,
		},
		Server: ServerConfig{
			Listen: ":8099",
		},
		Dashboard: DashboardConfig{
			ConfigPath: "/app/config.json",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
	}
}

// applyEnvOverrides applies DASHBOARD_* environment variables.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("DASHBOARD_HASS_URL"); v != "" {
		cfg.HomeAssistant.URL = v
	}
	if v := os.Getenv("DASHBOARD_HASS_TOKEN"); v != "" {
		cfg.HomeAssistant.Token = v
	}
	if v := os.Getenv("DASHBOARD_LISTEN"); v != "" {
		cfg.Server.Listen = v
	}
	if v := os.Getenv("DASHBOARD_CONFIG_PATH"); v != "" {
		cfg.Dashboard.ConfigPath = v
	}
	if v := os.Getenv("DASHBOARD_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []string

	if c.HomeAssistant.URL != "" &&
		!strings.HasPrefix(c.HomeAssistant.URL, "http://") &&
		!strings.HasPrefix(c.HomeAssistant.URL, "https://") {
		errs = append(errs, "home_assistant.url must start with http:// or https://")
	}
	if c.HomeAssistant.Timeout <= 0 {
		errs = append(errs, "home_assistant.timeout must be positive")
	}
	if c.HomeAssistant.MaxRetries < 0 {
		errs = append(errs, "home_assistant.max_retries must not be negative")
	}
	if c.Dashboard.ConfigPath == "" {
		errs = append(errs, "dashboard.config_path is required")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}
	return nil
}

// FetchTimeout returns the snapshot fetch timeout as a Duration.
func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.HomeAssistant.Timeout) * time.Second
}
