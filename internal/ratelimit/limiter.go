// Package ratelimit provides per-identifier request limiting.
package ratelimit

import (
	"context"
	"time"
)

// Result contains the outcome of a rate limit check.
type Result struct {
	Allowed    bool          // Whether the request is allowed
	Remaining  int           // Remaining requests in the current window
	ResetAfter time.Duration // Time until the window resets
	Limit      int           // The configured limit
}

// Limiter defines the rate limiting interface. The composition root scopes
// identifiers per operation family, e.g. "contact:203.0.113.5", so limits on
// different endpoints are independent.
type Limiter interface {
	// Allow checks if a request from the given identifier is allowed.
	Allow(ctx context.Context, identifier string) (*Result, error)

	// Reset clears the rate limit state for an identifier.
	Reset(ctx context.Context, identifier string) error

	// Close releases any resources held by the limiter.
	Close() error
}

// Config holds rate limiter configuration. Values are read once at process
// start and fixed for the process lifetime.
type Config struct {
	Requests int           // Maximum requests per window
	Window   time.Duration // Time window size
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Requests: 10,
		Window:   time.Minute,
	}
}
