package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Environment variables that override the configuration file
const (
	EnvMirrorHost      = "MIRROR_HOST"
	EnvMirrorScheme    = "MIRROR_SCHEME"
	EnvMirrorRateLimit = "MIRROR_RATE_LIMIT_PER_MINUTE"
	EnvPort            = "PORT"
	EnvLogLevel        = "LOG_LEVEL"
	EnvLogEncoding     = "LOG_ENCODING"
)

// LoadEnv loads .env style files into the process environment. Missing files
// are ignored; variables already set are left untouched.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, file := range files {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("error loading %s: %w", file, err)
		}
	}
	return nil
}

// ApplyEnv overrides configuration values from the environment and re-validates
func (c *Config) ApplyEnv() error {
	if v := os.Getenv(EnvMirrorHost); v != "" {
		c.Mirror.Host = v
	}
	if v := os.Getenv(EnvMirrorScheme); v != "" {
		c.Mirror.Scheme = v
	}
	if v := os.Getenv(EnvMirrorRateLimit); v != "" {
		perMinute, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvMirrorRateLimit, err)
		}
		c.Mirror.RateLimitPerMinute = perMinute
	}
	if v := os.Getenv(EnvPort); v != "" {
		c.Server.Port = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv(EnvLogEncoding); v != "" {
		c.Logging.Encoding = v
	}
	return c.Validate()
}
