// Package ratelimiter paces summary generation per user so a single
// client cannot burn through the provider quota.
package ratelimiter

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

type RateLimiter struct {
	interval time.Duration
	lastCall map[uuid.UUID]time.Time
	mu       sync.Mutex
	now      func() time.Time
}

func New(interval time.Duration) *RateLimiter {
	return &RateLimiter{
		interval: interval,
		lastCall: make(map[uuid.UUID]time.Time),
		now:      time.Now,
	}
}

// Allow reports whether the user may trigger a generation now. When
// denied it returns how long the user has to wait. Allowed calls count
// as a use immediately.
func (rl *RateLimiter) Allow(userID uuid.UUID) (bool, time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()

	last, exists := rl.lastCall[userID]
	if exists {
		elapsed := now.Sub(last)
		if elapsed < rl.interval {
			return false, rl.interval - elapsed
		}
	}

	rl.lastCall[userID] = now

	return true, 0
}
