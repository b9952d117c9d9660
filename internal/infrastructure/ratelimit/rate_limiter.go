package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	ActionSubmitReport = "submit_report"
	ActionReviewReport = "review_report"
)

// Policy allows Burst actions per Window, refilled evenly across the window.
type Policy struct {
	Burst  int
	Window time.Duration
}

func (p Policy) limit() rate.Limit {
	if p.Burst <= 0 || p.Window <= 0 {
		return rate.Inf
	}
	return rate.Every(p.Window / time.Duration(p.Burst))
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per user and action.
type RateLimiter struct {
	policies      map[string]Policy
	defaultPolicy Policy
	buckets       map[string]*bucket
	mutex         sync.Mutex
	now           func() time.Time
}

func NewRateLimiter(policies map[string]Policy) *RateLimiter {
	return &RateLimiter{
		policies:      policies,
		defaultPolicy: Policy{Burst: 20, Window: time.Minute},
		buckets:       make(map[string]*bucket),
		now:           time.Now,
	}
}

func (rl *RateLimiter) policyFor(action string) Policy {
	if p, ok := rl.policies[action]; ok {
		return p
	}
	return rl.defaultPolicy
}

// Allow consumes a token for userID's action. When the bucket is empty it
// returns false and how long until the next token.
func (rl *RateLimiter) Allow(userID, action string) (bool, time.Duration) {
	key := userID + ":" + action
	now := rl.now()

	rl.mutex.Lock()
	b, exists := rl.buckets[key]
	if !exists {
		p := rl.policyFor(action)
		b = &bucket{limiter: rate.NewLimiter(p.limit(), p.Burst)}
		rl.buckets[key] = b
	}
	b.lastSeen = now
	rl.mutex.Unlock()

	reservation := b.limiter.ReserveN(now, 1)
	if !reservation.OK() {
		return false, rl.policyFor(action).Window
	}
	if delay := reservation.DelayFrom(now); delay > 0 {
		reservation.CancelAt(now)
		return false, delay
	}
	return true, 0
}

// Cleanup drops buckets idle for longer than maxIdle.
func (rl *RateLimiter) Cleanup(maxIdle time.Duration) {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	now := rl.now()
	for key, b := range rl.buckets {
		if now.Sub(b.lastSeen) > maxIdle {
			delete(rl.buckets, key)
		}
	}
}

func (rl *RateLimiter) Size() int {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()
	return len(rl.buckets)
}

// StartCleanupRoutine runs Cleanup every interval until stop is closed.
func (rl *RateLimiter) StartCleanupRoutine(interval time.Duration, stop <-chan struct{}) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				rl.Cleanup(time.Hour)
			case <-stop:
				return
			}
		}
	}()
}
