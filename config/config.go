package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultPath is where the CLI and server look for configuration
const DefaultPath = "config.yaml"

type Config struct {
	Mirror  MirrorConfig  `yaml:"mirror"`
	Server  ServerConfig  `yaml:"server"`
	Logging LoggingConfig `yaml:"logging"`
	Monitor MonitorConfig `yaml:"monitor"`
	Presets []Preset      `yaml:"presets"`
}

// ServerConfig configures the HTTP API
type ServerConfig struct {
	Port string `yaml:"port"`
}

// Default returns the configuration used when no file is present
func Default() *Config {
	return &Config{
		Mirror:  DefaultMirrorConfig(),
		Server:  ServerConfig{Port: "8080"},
		Logging: DefaultLoggingConfig(),
		Monitor: DefaultMonitorConfig(),
		Presets: DefaultPresets(),
	}
}

// LoadConfig reads a YAML file on top of the defaults and validates the result.
// A presets list in the file replaces the default presets.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("error parsing %s: %w", path, err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration in %s: %w", path, err)
	}

	return config, nil
}

// LoadConfigOrDefault behaves like LoadConfig but falls back to Default when
// path does not exist
func LoadConfigOrDefault(path string) (*Config, error) {
	config, err := LoadConfig(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return config, err
}

// Validate checks every section
func (c *Config) Validate() error {
	if err := c.Mirror.Validate(); err != nil {
		return fmt.Errorf("mirror: %w", err)
	}
	if c.Server.Port == "" {
		return fmt.Errorf("server: port cannot be empty")
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	if err := c.validatePresets(); err != nil {
		return fmt.Errorf("presets: %w", err)
	}
	if err := c.Monitor.Validate(c); err != nil {
		return fmt.Errorf("monitor: %w", err)
	}
	return nil
}
