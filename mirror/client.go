package mirror

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Request statuses reported to IHttpStatusHandler
const (
	StatusSuccess   = "success"
	StatusHTTPError = "http_error"
	StatusError     = "error"
)

// IClient performs a single GET against a mirror node
//
//go:generate mockgen -destination=mocks/client.go . IClient
type IClient interface {
	// Fetch returns the status code and raw body the server sent for host+path.
	// A non-nil error means no HTTP status was obtained.
	Fetch(ctx context.Context, host, path string) (int, []byte, error)
}

// IHttpStatusHandler is notified about the outcome of every request
type IHttpStatusHandler interface {
	OnRequest(status string)
}

// ClientOptions configures the mirror HTTP client
type ClientOptions struct {
	Scheme              string
	UserAgent           string
	ConnectionTimeout   time.Duration // Timeout for establishing connection, 0 = transport default
	RequestTimeout      time.Duration // Total request timeout including reading response, 0 = none
	MaxIdleConnsPerHost int
}

// DefaultClientOptions returns default client options
func DefaultClientOptions() ClientOptions {
	return ClientOptions{
		Scheme:              DefaultScheme,
		UserAgent:           DefaultUserAgent,
		ConnectionTimeout:   30 * time.Second,
		RequestTimeout:      0,
		MaxIdleConnsPerHost: 4,
	}
}

// Client is the net/http implementation of IClient. It is safe for concurrent
// use; connections are kept alive and reused between requests to the same host.
type Client struct {
	httpClient     *http.Client
	opts           ClientOptions
	statusHandler  IHttpStatusHandler
	limiterManager IRateLimiterManager
	logger         *zap.Logger
}

// NewClient creates a new mirror client. handler and limiterManager may be nil.
func NewClient(opts ClientOptions, handler IHttpStatusHandler, limiterManager IRateLimiterManager, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.MaxIdleConnsPerHost <= 0 {
		opts.MaxIdleConnsPerHost = DefaultClientOptions().MaxIdleConnsPerHost
	}

	httpClient := &http.Client{
		Timeout: opts.RequestTimeout,
		Transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout:   opts.ConnectionTimeout,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			ForceAttemptHTTP2:   true,
			MaxIdleConnsPerHost: opts.MaxIdleConnsPerHost,
			IdleConnTimeout:     90 * time.Second,
		},
		// The server's status is reported as-is, redirects included.
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	return &Client{
		httpClient:     httpClient,
		opts:           opts,
		statusHandler:  handler,
		limiterManager: limiterManager,
		logger:         logger.Named("mirror"),
	}
}

// Fetch executes exactly one GET request. No retries are attempted.
func (c *Client) Fetch(ctx context.Context, host, path string) (int, []byte, error) {
	req, err := NewRequestBuilder(host, path).
		WithScheme(c.opts.Scheme).
		WithUserAgent(c.opts.UserAgent).
		Build(ctx)
	if err != nil {
		c.onRequest(StatusError)
		return 0, nil, fmt.Errorf("error creating request: %w", err)
	}

	if c.limiterManager != nil {
		if limiter := c.limiterManager.GetLimiterForHost(host); limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				c.onRequest(StatusError)
				return 0, nil, &TransportError{Host: host, Path: path, Err: fmt.Errorf("rate limiter wait failed: %w", err)}
			}
		}
	}

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.onRequest(StatusError)
		c.logger.Warn("request failed",
			zap.String("host", host),
			zap.String("path", path),
			zap.Duration("elapsed", time.Since(requestStart)),
			zap.Error(err))
		return 0, nil, &TransportError{Host: host, Path: path, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.onRequest(StatusError)
		return 0, nil, &TransportError{Host: host, Path: path, Err: fmt.Errorf("error reading response: %w", err)}
	}

	status := StatusSuccess
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		status = StatusHTTPError
	}
	c.onRequest(status)

	c.logger.Debug("request completed",
		zap.String("host", host),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Int("bytes", len(body)),
		zap.Duration("elapsed", time.Since(requestStart)))

	return resp.StatusCode, body, nil
}

func (c *Client) onRequest(status string) {
	if c.statusHandler != nil {
		c.statusHandler.OnRequest(status)
	}
}
