package mirror

import (
	"strings"
	"sync"

	"golang.org/x/time/rate"
)

// IRateLimiterManager hands out the limiter guarding requests to a host
type IRateLimiterManager interface {
	GetLimiterForHost(host string) *rate.Limiter
}

// HostRateLimiter keeps one token bucket per mirror host
type HostRateLimiter struct {
	mu            sync.Mutex
	hostToLimiter map[string]*rate.Limiter
	perMinute     int
	burst         int
}

// NewHostRateLimiter returns nil when perMinute is not positive, meaning unlimited
func NewHostRateLimiter(perMinute, burst int) *HostRateLimiter {
	if perMinute <= 0 {
		return nil
	}
	if burst <= 0 {
		burst = 1
	}
	return &HostRateLimiter{
		hostToLimiter: make(map[string]*rate.Limiter),
		perMinute:     perMinute,
		burst:         burst,
	}
}

// GetLimiterForHost returns the limiter for host, creating it on first use
func (m *HostRateLimiter) GetLimiterForHost(host string) *rate.Limiter {
	if m == nil {
		return nil
	}

	key := strings.ToLower(host)

	m.mu.Lock()
	defer m.mu.Unlock()

	limiter, ok := m.hostToLimiter[key]
	if !ok {
		limiter = rate.NewLimiter(rate.Limit(float64(m.perMinute)/60.0), m.burst)
		m.hostToLimiter[key] = limiter
	}
	return limiter
}
