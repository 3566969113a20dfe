// Package store defines the persistent series cache. Keys are
// composites of source, country code, indicator code and year
// ("worldbank:DE:NY.GDP.MKTP.CD:latest"); values are serialized JSON.
//
// Cache access is best-effort by contract: a read failure of any kind
// is a miss and a write failure is a no-op. The cache never blocks
// correctness.
package store

import (
	"context"
	"sync"
)

// Store is a persistent key-value cache with TTL-on-read semantics.
type Store interface {
	// Get returns the value stored under key, or ok=false when the key
	// is absent, expired, or unreadable.
	Get(ctx context.Context, key string) (value []byte, ok bool)

	// Set stores value under key, replacing any previous entry.
	// Failures are swallowed.
	Set(ctx context.Context, key string, value []byte)

	Close() error
}

// Key builds the composite cache key for one series request.
func Key(source, countryCode, indicatorCode, year string) string {
	if year == "" {
		year = "latest"
	}
	return source + ":" + countryCode + ":" + indicatorCode + ":" + year
}

// Nop is a Store that caches nothing. Used when persistence is
// disabled.
type Nop struct{}

func (Nop) Get(ctx context.Context, key string) ([]byte, bool) { return nil, false }
func (Nop) Set(ctx context.Context, key string, value []byte)  {}
func (Nop) Close() error                                       { return nil }

// Memory is an in-process Store without expiry. It backs tests and the
// snapshot CLI path where a database file is unwanted.
type Memory struct {
	mu      sync.RWMutex
	entries map[string][]byte
}

func NewMemory() *Memory {
	return &Memory{entries: make(map[string][]byte)}
}

func (m *Memory) Get(ctx context.Context, key string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.entries[key]
	return v, ok
}

func (m *Memory) Set(ctx context.Context, key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = append([]byte(nil), value...)
}

func (m *Memory) Close() error { return nil }
