package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/status-im/token-supply/supply"
)

// Preset is a named aggregation: a fixed source, token and treasury list
type Preset struct {
	Name       string   `yaml:"name"`
	Source     string   `yaml:"source"`     // Mirror node host, defaults to mirror.host
	Token      string   `yaml:"token"`      // HTS token id
	Treasuries []string `yaml:"treasuries"` // Accounts excluded from the circulating supply
}

// DefaultPresets returns the presets available without a configuration file
func DefaultPresets() []Preset {
	return []Preset{
		{
			Name:   "clxy",
			Source: "mainnet-public.mirrornode.hedera.com",
			Token:  "0.0.859814",
			Treasuries: []string{
				"0.0.849428", "0.0.859877", "0.0.859897", "0.0.859903",
				"0.0.859906", "0.0.859908", "0.0.859910", "0.0.859911",
			},
		},
	}
}

// MonitorConfig configures periodic aggregation of presets
type MonitorConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Interval time.Duration `yaml:"interval"`
	Presets  []string      `yaml:"presets"` // Preset names to monitor, empty = all
}

func DefaultMonitorConfig() MonitorConfig {
	return MonitorConfig{
		Enabled:  false,
		Interval: 5 * time.Minute,
	}
}

// Validate validates the MonitorConfig against the configured presets
func (c *MonitorConfig) Validate(cfg *Config) error {
	if !c.Enabled {
		return nil
	}
	if c.Interval <= 0 {
		return fmt.Errorf("interval must be greater than 0")
	}
	for _, name := range c.Presets {
		if _, ok := cfg.Preset(name); !ok {
			return fmt.Errorf("unknown preset %q", name)
		}
	}
	return nil
}

// Preset returns the preset called name with its source resolved
func (c *Config) Preset(name string) (Preset, bool) {
	for _, preset := range c.Presets {
		if preset.Name == name {
			if preset.Source == "" {
				preset.Source = c.Mirror.Host
			}
			return preset, true
		}
	}
	return Preset{}, false
}

// IsAllowedSource reports whether API callers may aggregate against source:
// the default mirror host, a preset source or an entry of mirror.allowed_sources.
// Hosts compare case-insensitively.
func (c *Config) IsAllowedSource(source string) bool {
	if source == "" {
		return false
	}
	if strings.EqualFold(source, c.Mirror.Host) {
		return true
	}
	for _, preset := range c.Presets {
		if preset.Source != "" && strings.EqualFold(source, preset.Source) {
			return true
		}
	}
	for _, allowed := range c.Mirror.AllowedSources {
		if strings.EqualFold(source, strings.TrimSpace(allowed)) {
			return true
		}
	}
	return false
}

// PresetNames returns preset names in configuration order
func (c *Config) PresetNames() []string {
	names := make([]string, 0, len(c.Presets))
	for _, preset := range c.Presets {
		names = append(names, preset.Name)
	}
	return names
}

// MonitoredPresets resolves the presets the monitor aggregates
func (c *Config) MonitoredPresets() []Preset {
	names := c.Monitor.Presets
	if len(names) == 0 {
		names = c.PresetNames()
	}

	presets := make([]Preset, 0, len(names))
	for _, name := range names {
		if preset, ok := c.Preset(name); ok {
			presets = append(presets, preset)
		}
	}
	return presets
}

func (c *Config) validatePresets() error {
	seen := make(map[string]struct{}, len(c.Presets))
	for i, preset := range c.Presets {
		if preset.Name == "" {
			return fmt.Errorf("preset at index %d: name cannot be empty", i)
		}
		if _, dup := seen[preset.Name]; dup {
			return fmt.Errorf("preset '%s' is defined more than once", preset.Name)
		}
		seen[preset.Name] = struct{}{}

		if preset.Source == "" && c.Mirror.Host == "" {
			return fmt.Errorf("preset '%s': source is empty and mirror.host is not set", preset.Name)
		}
		if !supply.IsEntityID(preset.Token) {
			return fmt.Errorf("preset '%s': invalid token id %q", preset.Name, preset.Token)
		}
		for _, treasury := range preset.Treasuries {
			if !supply.IsEntityID(treasury) {
				return fmt.Errorf("preset '%s': invalid treasury id %q", preset.Name, treasury)
			}
		}
	}
	return nil
}
