// Package geocode wraps the Geoapify HTTP APIs used by the estimation flow:
// address autocomplete, drive-time routing, and caller-IP geolocation.
//
// Every method degrades silently. A missing API key, a failed request or a
// malformed body yields an empty/absent result, never an error: upstream
// hiccups must not block the estimate screen.
package geocode

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Cache is the optional read-through store for autocomplete responses.
// Implementations must treat lookup failure as a miss.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
}

// Client calls the Geoapify endpoints.
type Client struct {
	baseURL  string
	apiKey   string
	http     *http.Client
	cache    Cache
	cacheTTL time.Duration
	logger   *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithCache enables read-through caching of autocomplete responses.
func WithCache(cache Cache, ttl time.Duration) Option {
	return func(c *Client) {
		c.cache = cache
		c.cacheTTL = ttl
	}
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// NewClient creates a Geoapify client. An empty apiKey is allowed and makes
// every call degrade immediately.
func NewClient(baseURL, apiKey string, timeout time.Duration, logger *zap.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}
