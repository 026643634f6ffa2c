// internal/app/rate_limiter.go
package app

import (
	"sync"
	"time"
)

// FixedWindowLimiter throttles calls to a fixed count per fixed window: once
// the ceiling of a window is reached, Acquire sleeps until the window resets
// before proceeding. This is a fixed-window counter, not a token bucket,
// matching the upstream API's per-minute accounting.
//
// The mutex guards the counter against future multi-consumer use; today a
// single worker goroutine calls Acquire.
type FixedWindowLimiter struct {
	mu          sync.Mutex
	limit       int
	window      time.Duration
	count       int
	windowStart time.Time
}

func NewFixedWindowLimiter(limit int, window time.Duration) *FixedWindowLimiter {
	return &FixedWindowLimiter{
		limit:       limit,
		window:      window,
		windowStart: time.Now(),
	}
}

// Acquire blocks until the current window has a free slot, then consumes it.
func (l *FixedWindowLimiter) Acquire() {
	l.mu.Lock()

	now := time.Now()
	if now.Sub(l.windowStart) >= l.window {
		l.count = 0
		l.windowStart = now
	}

	if l.count >= l.limit {
		wait := l.window - now.Sub(l.windowStart)
		l.mu.Unlock()
		time.Sleep(wait)
		l.mu.Lock()
		l.count = 0
		l.windowStart = time.Now()
	}

	l.count++
	l.mu.Unlock()
}
