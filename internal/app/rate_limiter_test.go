package app

import (
	"testing"
	"time"
)

func TestFixedWindowLimiterAllowsBurstUpToLimit(t *testing.T) {
	limiter := NewFixedWindowLimiter(3, time.Second)

	start := time.Now()
	for i := 0; i < 3; i++ {
		limiter.Acquire()
	}
	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Errorf("acquiring within the limit should not block, took %s", elapsed)
	}
}

func TestFixedWindowLimiterBlocksUntilWindowResets(t *testing.T) {
	window := 300 * time.Millisecond
	limiter := NewFixedWindowLimiter(2, window)

	limiter.Acquire()
	limiter.Acquire()

	start := time.Now()
	limiter.Acquire() // third call exceeds the window's ceiling
	elapsed := time.Since(start)

	if elapsed < 150*time.Millisecond {
		t.Errorf("over-limit acquire returned after %s, expected to wait for the window reset", elapsed)
	}
	if elapsed > window+200*time.Millisecond {
		t.Errorf("over-limit acquire waited %s, longer than one window", elapsed)
	}
}

func TestFixedWindowLimiterFreshWindowAfterIdle(t *testing.T) {
	window := 150 * time.Millisecond
	limiter := NewFixedWindowLimiter(1, window)

	limiter.Acquire()
	time.Sleep(window + 50*time.Millisecond)

	start := time.Now()
	limiter.Acquire()
	if elapsed := time.Since(start); elapsed > 50*time.Millisecond {
		t.Errorf("acquire after an idle window should not block, took %s", elapsed)
	}
}
