package ratelimit

import (
	"context"
	"sync"
	"time"
)

// TokenLimiter enforces a per-minute token budget for LLM calls. Unlike a
// request limiter, callers report how many tokens each call consumes; once
// the budget for the current window is spent, Wait blocks until the window
// rolls over.
type TokenLimiter struct {
	mu          sync.Mutex
	maxPerMin   int
	used        int
	windowStart time.Time
}

// NewTokenLimiter creates a TokenLimiter with the given per-minute budget.
// A non-positive budget disables limiting.
func NewTokenLimiter(maxPerMinute int) *TokenLimiter {
	return &TokenLimiter{
		maxPerMin:   maxPerMinute,
		windowStart: time.Now(),
	}
}

// Wait consumes the given number of tokens, blocking until the current
// window has room for them. Requests larger than the whole budget are
// admitted alone after a fresh window starts.
func (l *TokenLimiter) Wait(ctx context.Context, tokens int) error {
	if l.maxPerMin <= 0 {
		return nil
	}

	for {
		l.mu.Lock()
		l.rotateLocked()
		if l.used+tokens <= l.maxPerMin || l.used == 0 {
			l.used += tokens
			l.mu.Unlock()
			return nil
		}
		wait := time.Minute - time.Since(l.windowStart)
		l.mu.Unlock()

		if wait <= 0 {
			continue
		}
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// GetRemaining returns the number of tokens left in the current window.
func (l *TokenLimiter) GetRemaining() int {
	if l.maxPerMin <= 0 {
		return 0
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.rotateLocked()
	remaining := l.maxPerMin - l.used
	if remaining < 0 {
		return 0
	}
	return remaining
}

func (l *TokenLimiter) rotateLocked() {
	if time.Since(l.windowStart) >= time.Minute {
		l.windowStart = time.Now()
		l.used = 0
	}
}
