// Package ratelimit implements the per-address sync throttle.
//
// Each key owns a fixed window that opens on its first accepted request.
// Inside the window up to Limit requests are accepted; further requests are
// refused without being counted. The first request at or after Window has
// elapsed opens a fresh window. Entries are never pruned.
package ratelimit

import (
	"sync"
	"time"
)

const (
	DefaultLimit  = 10
	DefaultWindow = time.Minute
)

// Clock returns the current time. Tests substitute a fake.
type Clock func() time.Time

type entry struct {
	windowStart time.Time
	count       int
}

type Limiter struct {
	limit  int
	window time.Duration
	now    Clock

	mu      sync.Mutex
	entries map[string]*entry
}

// New returns a limiter allowing limit requests per window per key.
// Non-positive values fall back to the defaults and a nil clock uses time.Now.
func New(limit int, window time.Duration, clock Clock) *Limiter {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if window <= 0 {
		window = DefaultWindow
	}
	if clock == nil {
		clock = time.Now
	}
	return &Limiter{
		limit:   limit,
		window:  window,
		now:     clock,
		entries: make(map[string]*entry),
	}
}

// Allow reports whether a request from key may proceed and records it if so.
func (l *Limiter) Allow(key string) bool {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries[key]
	if !ok || now.Sub(e.windowStart) >= l.window {
		l.entries[key] = &entry{windowStart: now, count: 1}
		return true
	}
	if e.count >= l.limit {
		return false
	}
	e.count++
	return true
}

// Len returns the number of tracked keys.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// Limit returns the number of requests accepted per window.
func (l *Limiter) Limit() int { return l.limit }

// Window returns the window length.
func (l *Limiter) Window() time.Duration { return l.window }
