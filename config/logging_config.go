package config

import "fmt"

// LoggingConfig configures the zap logger and its optional rotated file sink
type LoggingConfig struct {
	Level      string `yaml:"level"`        // debug, info, warn, error
	Encoding   string `yaml:"encoding"`     // json or console
	File       string `yaml:"file"`         // Rotated log file, empty = stderr only
	MaxSizeMB  int    `yaml:"max_size_mb"`  // Rotate after this many megabytes
	MaxBackups int    `yaml:"max_backups"`  // Rotated files to keep
	MaxAgeDays int    `yaml:"max_age_days"` // Days to keep rotated files
	Compress   bool   `yaml:"compress"`     // Gzip rotated files
}

func DefaultLoggingConfig() LoggingConfig {
	return LoggingConfig{
		Level:      "info",
		Encoding:   "json",
		MaxSizeMB:  100,
		MaxBackups: 3,
		MaxAgeDays: 28,
	}
}

func (c *LoggingConfig) Validate() error {
	switch c.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown level %q", c.Level)
	}
	if c.Encoding != "json" && c.Encoding != "console" {
		return fmt.Errorf("encoding must be json or console, got %q", c.Encoding)
	}
	return nil
}
