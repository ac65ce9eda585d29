// Package ratelimit implements per-IP login throttling against brute force.
//
// Each IP gets a fixed window: the first attempt opens it, further attempts
// inside it increment a counter, and once the counter passes maxAttempts the
// IP is refused until the window ends. A successful login calls Reset so a
// legitimate user is never left blocked. A background goroutine drops buckets
// whose window has ended.
//
// The limiter is in-memory, like the catalog cache: one process, one table.
package ratelimit

import (
	"fmt"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
)

type bucket struct {
	count       int
	windowStart time.Time
}

// LoginRateLimiter throttles login attempts per IP.
//
//	limiter := NewLoginRateLimiter(5, 2*time.Minute, nil)
//	defer limiter.Close()
//	if !limiter.Allow(ip) { return 429 }
//	// after a successful login:
//	limiter.Reset(ip)
type LoginRateLimiter struct {
	mu          sync.RWMutex
	buckets     map[string]*bucket
	maxAttempts int
	window      time.Duration
	clock       clock.Clock

	stopCleanup chan struct{}
	closeOnce   sync.Once
}

// NewLoginRateLimiter creates a limiter allowing maxAttempts per window and
// starts its cleanup goroutine. A nil clk uses the wall clock.
func NewLoginRateLimiter(maxAttempts int, window time.Duration, clk clock.Clock) *LoginRateLimiter {
	if clk == nil {
		clk = clock.New()
	}

	rl := &LoginRateLimiter{
		buckets:     make(map[string]*bucket),
		maxAttempts: maxAttempts,
		window:      window,
		clock:       clk,
		stopCleanup: make(chan struct{}),
	}

	go rl.cleanupLoop()

	return rl
}

// Allow records an attempt from ip and reports whether it may proceed.
// Every call counts, successful or not.
func (rl *LoginRateLimiter) Allow(ip string) bool {
	now := rl.clock.Now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	b, exists := rl.buckets[ip]
	if !exists {
		rl.buckets[ip] = &bucket{count: 1, windowStart: now}
		return true
	}

	if now.Sub(b.windowStart) > rl.window {
		b.count = 1
		b.windowStart = now
		return true
	}

	b.count++
	return b.count <= rl.maxAttempts
}

// Reset clears the counter of ip after a successful login.
func (rl *LoginRateLimiter) Reset(ip string) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	delete(rl.buckets, ip)
}

// RetryAfterSeconds returns how long ip has to wait, rounded up, for the
// Retry-After header.
func (rl *LoginRateLimiter) RetryAfterSeconds(ip string) int {
	rl.mu.RLock()
	defer rl.mu.RUnlock()

	b, exists := rl.buckets[ip]
	if !exists {
		return 0
	}

	remaining := rl.window - rl.clock.Since(b.windowStart)
	if remaining < 0 {
		return 0
	}
	return int(remaining.Seconds()) + 1
}

// Close stops the cleanup goroutine. Safe to call more than once.
func (rl *LoginRateLimiter) Close() {
	rl.closeOnce.Do(func() {
		close(rl.stopCleanup)
	})
}

func (rl *LoginRateLimiter) cleanupLoop() {
	ticker := rl.clock.Ticker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanup()
		case <-rl.stopCleanup:
			return
		}
	}
}

func (rl *LoginRateLimiter) cleanup() {
	now := rl.clock.Now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	for ip, b := range rl.buckets {
		if now.Sub(b.windowStart) > rl.window {
			delete(rl.buckets, ip)
		}
	}
}

// FormatRetryMessage renders a wait in seconds for humans, e.g. "2 minute(s)".
func FormatRetryMessage(seconds int) string {
	if seconds >= 60 {
		return fmt.Sprintf("%d minute(s)", seconds/60)
	}
	return fmt.Sprintf("%d second(s)", seconds)
}
