package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Defaults for a stock BrewBlox install.
const (
	DefaultServiceType = "_brewblox._tcp"
	DefaultDomain      = "local."
	DefaultTimeout     = 5 * time.Second
	DefaultHost        = "0.0.0.0"
	DefaultPort        = 5000
	DefaultUSBGlob     = "/dev/serial/by-id/*"
)

// Config holds all runtime settings for brewblox-mdns.
// Values are passed into the discovery and server entry points rather
// than read from globals, so tests can construct their own.
type Config struct {
	// ServiceType is the mDNS service type to browse for
	ServiceType string `yaml:"service_type"`

	// Domain is the mDNS browse domain
	Domain string `yaml:"domain"`

	// TimeoutSeconds is the default discovery window in seconds
	TimeoutSeconds float64 `yaml:"timeout_seconds"`

	// Host is the HTTP listen address
	Host string `yaml:"host"`

	// Port is the HTTP listen port
	Port int `yaml:"port"`

	// LogLevel sets zap verbosity; empty defers to BREWBLOX_LOG_LEVEL
	LogLevel string `yaml:"log_level,omitempty"`

	// USBGlob is the filesystem pattern for USB serial device links
	USBGlob string `yaml:"usb_glob,omitempty"`
}

// Default returns a Config populated with stock values.
func Default() *Config {
	return &Config{
		ServiceType:    DefaultServiceType,
		Domain:         DefaultDomain,
		TimeoutSeconds: DefaultTimeout.Seconds(),
		Host:           DefaultHost,
		Port:           DefaultPort,
		USBGlob:        DefaultUSBGlob,
	}
}

// Load reads a YAML config file and overlays it on the defaults.
// A missing file is not an error; the defaults are returned as-is.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the config for values that cannot work at runtime.
func (c *Config) Validate() error {
	if c.ServiceType == "" {
		return fmt.Errorf("service_type must not be empty")
	}
	if c.TimeoutSeconds < 0 {
		return fmt.Errorf("timeout_seconds must not be negative")
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range 1-65535", c.Port)
	}
	return nil
}

// Timeout returns the default discovery window as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds * float64(time.Second))
}
