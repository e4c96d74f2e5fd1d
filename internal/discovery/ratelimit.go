package discovery

import (
	"context"
	"sync"
	"time"

	"github.com/ajsalpv/job-agent/internal/fetch"
)

// DefaultRequestsPerMinute applies to platforms without an explicit limit.
const DefaultRequestsPerMinute = 10

// minRequestDelay is the floor between consecutive requests to the same
// platform, independent of the per-minute window.
const minRequestDelay = 2 * time.Second

// RateLimiter enforces per-platform request budgets using a fixed one
// minute window plus a minimum inter-request delay. Safe for concurrent
// use by the discovery workers.
type RateLimiter struct {
	mu          sync.Mutex
	limits      map[fetch.Platform]int
	counts      map[fetch.Platform]int
	windowStart map[fetch.Platform]time.Time
	lastRequest map[fetch.Platform]time.Time

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// NewRateLimiter creates a limiter with per-platform requests-per-minute
// overrides. Platforms not in the map get DefaultRequestsPerMinute.
func NewRateLimiter(limits map[fetch.Platform]int) *RateLimiter {
	return &RateLimiter{
		limits:      limits,
		counts:      make(map[fetch.Platform]int),
		windowStart: make(map[fetch.Platform]time.Time),
		lastRequest: make(map[fetch.Platform]time.Time),
		now:         time.Now,
		sleep:       sleepCtx,
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Acquire blocks until a request to the platform is allowed, or the
// context is cancelled.
func (r *RateLimiter) Acquire(ctx context.Context, platform fetch.Platform) error {
	for {
		wait := r.reserve(platform)
		if wait <= 0 {
			return nil
		}
		if err := r.sleep(ctx, wait); err != nil {
			return err
		}
	}
}

// reserve either records a request and returns 0, or returns how long the
// caller must wait before trying again.
func (r *RateLimiter) reserve(platform fetch.Platform) time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()

	// Reset the window when a minute has passed
	start, ok := r.windowStart[platform]
	if !ok || now.Sub(start) > time.Minute {
		r.windowStart[platform] = now
		r.counts[platform] = 0
		start = now
	}

	limit := r.limits[platform]
	if limit <= 0 {
		limit = DefaultRequestsPerMinute
	}

	if r.counts[platform] >= limit {
		remaining := time.Minute - now.Sub(start)
		if remaining < time.Second {
			remaining = time.Second
		}
		return remaining
	}

	// Honor the minimum delay between requests
	if last, ok := r.lastRequest[platform]; ok {
		if since := now.Sub(last); since < minRequestDelay {
			return minRequestDelay - since
		}
	}

	r.counts[platform]++
	r.lastRequest[platform] = now
	return 0
}
