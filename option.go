package xchain

import (
	"net/http"
	"time"

	"github.com/tokenly/xchain-go/logger"
	"github.com/tokenly/xchain-go/metrics"
)

type Option func(*Client)

// WithLogger sets the logger for request tracing.
func WithLogger(l logger.Logger) Option {
	return func(c *Client) {
		c.log = l
	}
}

// WithMetrics sets the metrics recorder for request counters and latency.
func WithMetrics(r metrics.Recorder) Option {
	return func(c *Client) {
		c.metrics = r
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(t time.Duration) Option {
	return func(c *Client) {
		c.timeout = t
	}
}

// WithRequester replaces the transport entirely. The API mock installs
// itself through this option.
func WithRequester(r Requester) Option {
	return func(c *Client) {
		c.requester = r
	}
}
