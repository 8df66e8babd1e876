package mirror

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

const (
	// DefaultScheme is used for every mirror request unless overridden
	DefaultScheme = "https"
	// DefaultUserAgent identifies this client to the mirror node
	DefaultUserAgent = "Mozilla/5.0 Token-Supply"
)

// RequestBuilder implements the Builder pattern for mirror node requests.
// The path is used verbatim: it already carries its encoded query string,
// and pagination cursors handed out by the server must not be re-encoded.
type RequestBuilder struct {
	scheme     string
	host       string
	path       string
	httpMethod string
	userAgent  string
	headers    map[string]string
}

// NewRequestBuilder creates a GET request builder for host and server-relative path
func NewRequestBuilder(host, path string) *RequestBuilder {
	rb := &RequestBuilder{
		scheme:     DefaultScheme,
		host:       host,
		path:       path,
		httpMethod: http.MethodGet,
		userAgent:  DefaultUserAgent,
		headers:    make(map[string]string),
	}

	rb.headers["Accept"] = "application/json"

	return rb
}

// WithScheme overrides the URL scheme (http for local mirrors and tests)
func (rb *RequestBuilder) WithScheme(scheme string) *RequestBuilder {
	if scheme != "" {
		rb.scheme = scheme
	}
	return rb
}

// WithUserAgent sets the User-Agent header
func (rb *RequestBuilder) WithUserAgent(userAgent string) *RequestBuilder {
	if userAgent != "" {
		rb.userAgent = userAgent
	}
	return rb
}

// BuildURL builds the complete URL for the request
func (rb *RequestBuilder) BuildURL() (string, error) {
	if rb.host == "" {
		return "", fmt.Errorf("mirror host must not be empty")
	}

	path := rb.path
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	finalURL := rb.scheme + "://" + rb.host + path
	if _, err := url.Parse(finalURL); err != nil {
		return "", fmt.Errorf("invalid mirror url %q: %w", finalURL, err)
	}

	return finalURL, nil
}

// Build creates an http.Request bound to ctx
func (rb *RequestBuilder) Build(ctx context.Context) (*http.Request, error) {
	finalURL, err := rb.BuildURL()
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, rb.httpMethod, finalURL, nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("User-Agent", rb.userAgent)

	for key, value := range rb.headers {
		req.Header.Set(key, value)
	}

	return req, nil
}
