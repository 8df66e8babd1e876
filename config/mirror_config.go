package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/status-im/token-supply/mirror"
)

// MirrorConfig configures access to the Hedera mirror node
type MirrorConfig struct {
	Host                string        `yaml:"host"`                    // Default mirror node for presets and API requests without ?source=
	Scheme              string        `yaml:"scheme"`                  // https unless talking to a plain HTTP mirror
	UserAgent           string        `yaml:"user_agent"`              // User-Agent header sent with every request
	RateLimitPerMinute  int           `yaml:"rate_limit_per_minute"`   // Requests per minute per host, 0 = unlimited
	RateLimitBurst      int           `yaml:"rate_limit_burst"`        // Burst size of the per-host limiter
	ConnectionTimeout   time.Duration `yaml:"connection_timeout"`      // Dial timeout
	RequestTimeout      time.Duration `yaml:"request_timeout"`         // Whole-request timeout, 0 = none
	MaxIdleConnsPerHost int           `yaml:"max_idle_conns_per_host"` // Keep-alive pool size per host
	AllowedSources      []string      `yaml:"allowed_sources"`         // Extra hosts API callers may pick with ?source=
}

// DefaultMirrorConfig mirrors mirror.DefaultClientOptions
func DefaultMirrorConfig() MirrorConfig {
	opts := mirror.DefaultClientOptions()
	return MirrorConfig{
		Host:                "mainnet-public.mirrornode.hedera.com",
		Scheme:              opts.Scheme,
		UserAgent:           opts.UserAgent,
		ConnectionTimeout:   opts.ConnectionTimeout,
		RequestTimeout:      opts.RequestTimeout,
		MaxIdleConnsPerHost: opts.MaxIdleConnsPerHost,
	}
}

// Validate validates the MirrorConfig configuration
func (c *MirrorConfig) Validate() error {
	if c.Scheme != "http" && c.Scheme != "https" {
		return fmt.Errorf("scheme must be http or https, got %q", c.Scheme)
	}
	if c.RateLimitPerMinute < 0 {
		return fmt.Errorf("rate_limit_per_minute cannot be negative")
	}
	if c.RateLimitBurst < 0 {
		return fmt.Errorf("rate_limit_burst cannot be negative")
	}
	if c.ConnectionTimeout < 0 || c.RequestTimeout < 0 {
		return fmt.Errorf("timeouts cannot be negative")
	}
	for i, source := range c.AllowedSources {
		if strings.TrimSpace(source) == "" {
			return fmt.Errorf("allowed_sources[%d] cannot be empty", i)
		}
	}
	return nil
}

// ClientOptions converts the configuration into mirror client options
func (c *MirrorConfig) ClientOptions() mirror.ClientOptions {
	return mirror.ClientOptions{
		Scheme:              c.Scheme,
		UserAgent:           c.UserAgent,
		ConnectionTimeout:   c.ConnectionTimeout,
		RequestTimeout:      c.RequestTimeout,
		MaxIdleConnsPerHost: c.MaxIdleConnsPerHost,
	}
}
