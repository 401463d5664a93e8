package ratelimit

import (
	"context"
	"sync"
	"time"
)

// sweepThreshold is the entry-table size past which expired entries are
// swept opportunistically during Allow.
const sweepThreshold = 10_000

// MemoryLimiter implements a fixed-window counter limiter for
// single-instance deployments. The window resets wholesale at its boundary,
// so up to twice the limit can be admitted in close succession around a
// boundary. That imprecision is accepted and pinned by tests.
type MemoryLimiter struct {
	config  Config
	mu      sync.Mutex
	entries map[string]*windowEntry

	// nowFn is replaceable in tests.
	nowFn func() time.Time
}

// windowEntry is the counter for a single identifier.
type windowEntry struct {
	count   int
	resetAt time.Time
}

// NewMemoryLimiter creates a new in-memory fixed-window limiter.
func NewMemoryLimiter(cfg Config) *MemoryLimiter {
	if cfg.Requests <= 0 {
		cfg.Requests = DefaultConfig().Requests
	}
	if cfg.Window <= 0 {
		cfg.Window = DefaultConfig().Window
	}
	return &MemoryLimiter{
		config:  cfg,
		entries: make(map[string]*windowEntry),
		nowFn:   time.Now,
	}
}

// Allow checks if a request from the given identifier is allowed. It never
// returns an error; there is no notion of the memory store being
// unavailable.
func (m *MemoryLimiter) Allow(_ context.Context, identifier string) (*Result, error) {
	now := m.nowFn()

	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[identifier]
	if !ok || now.After(e.resetAt) {
		if !ok && len(m.entries) >= sweepThreshold {
			m.sweepLocked(now)
		}
		m.entries[identifier] = &windowEntry{
			count:   1,
			resetAt: now.Add(m.config.Window),
		}
		return &Result{
			Allowed:    true,
			Remaining:  m.config.Requests - 1,
			ResetAfter: m.config.Window,
			Limit:      m.config.Requests,
		}, nil
	}

	if e.count < m.config.Requests {
		e.count++
		return &Result{
			Allowed:    true,
			Remaining:  m.config.Requests - e.count,
			ResetAfter: e.resetAt.Sub(now),
			Limit:      m.config.Requests,
		}, nil
	}

	return &Result{
		Allowed:    false,
		Remaining:  0,
		ResetAfter: e.resetAt.Sub(now),
		Limit:      m.config.Requests,
	}, nil
}

// Reset clears the rate limit state for an identifier.
func (m *MemoryLimiter) Reset(_ context.Context, identifier string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, identifier)
	return nil
}

// Close releases resources held by the limiter.
func (m *MemoryLimiter) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = make(map[string]*windowEntry)
	return nil
}

// sweepLocked removes expired entries. Caller holds m.mu.
func (m *MemoryLimiter) sweepLocked(now time.Time) {
	for id, e := range m.entries {
		if now.After(e.resetAt) {
			delete(m.entries, id)
		}
	}
}

// size returns the current entry-table size, for tests.
func (m *MemoryLimiter) size() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}
