package platform

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/okian/ffebridge/pkg/logger"
)

// Default per-call timeouts.
const (
	DefaultBatchTimeout    = 60 * time.Second
	DefaultSettingsTimeout = 15 * time.Second
	DefaultReadTimeout     = 30 * time.Second
	DefaultCheckTimeout    = 5 * time.Second
)

// Observer receives one call per platform request.
type Observer interface {
	ObservePlatformRequest(endpoint string, seconds float64, err error)
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// WithObserver records request latencies and failures.
func WithObserver(o Observer) Option {
	return func(c *Client) { c.obs = o }
}

// WithBatchTimeout bounds a batch send.
func WithBatchTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.batchTimeout = d
		}
	}
}

// WithSettingsTimeout bounds settings calls and the connection test.
func WithSettingsTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.settingsTimeout = d
		}
	}
}

// WithReadTimeout bounds the read APIs.
func WithReadTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.readTimeout = d
		}
	}
}

// WithCheckTimeout bounds one results existence check.
func WithCheckTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.checkTimeout = d
		}
	}
}

// WithTransactionIDs overrides the transaction id generator.
func WithTransactionIDs(gen func() uuid.UUID) Option {
	return func(c *Client) {
		if gen != nil {
			c.newID = gen
		}
	}
}
