package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Limiter bounds the rate of mutating operations per caller key.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

type memoryEntry struct {
	count     int
	expiresAt time.Time
}

// MemoryLimiter is a process-local fixed-window counter. The first call for
// a key, or any call after the window lapses, resets the counter; the key is
// rejected once the count exceeds the limit within a live window. Suitable
// for single-instance deployments only.
type MemoryLimiter struct {
	mu      sync.Mutex
	entries map[string]*memoryEntry
	limit   int
	window  time.Duration
	now     func() time.Time
}

// NewMemoryLimiter builds an in-process limiter.
func NewMemoryLimiter(limit int, window time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		entries: make(map[string]*memoryEntry),
		limit:   limit,
		window:  window,
		now:     time.Now,
	}
}

// Allow reports whether the caller keyed by key may proceed.
func (l *MemoryLimiter) Allow(_ context.Context, key string) (bool, error) {
	now := l.now()
	l.mu.Lock()
	defer l.mu.Unlock()

	entry, ok := l.entries[key]
	if !ok || !entry.expiresAt.After(now) {
		l.entries[key] = &memoryEntry{count: 1, expiresAt: now.Add(l.window)}
		return true, nil
	}
	entry.count++
	return entry.count <= l.limit, nil
}
