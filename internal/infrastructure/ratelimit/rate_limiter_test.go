package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiter_AllowsBurstThenBlocks(t *testing.T) {
	now := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(map[string]Policy{
		ActionSubmitReport: {Burst: 2, Window: time.Minute},
	})
	rl.now = func() time.Time { return now }

	for i := 0; i < 2; i++ {
		ok, wait := rl.Allow("user-1", ActionSubmitReport)
		assert.True(t, ok)
		assert.Zero(t, wait)
	}

	ok, wait := rl.Allow("user-1", ActionSubmitReport)
	assert.False(t, ok)
	assert.InDelta(t, 30*time.Second, wait, float64(time.Second))

	ok, _ = rl.Allow("user-2", ActionSubmitReport)
	assert.True(t, ok, "buckets are per user")

	now = now.Add(31 * time.Second)
	ok, _ = rl.Allow("user-1", ActionSubmitReport)
	assert.True(t, ok, "a token refills after window/burst")
}

func TestRateLimiter_UnknownActionUsesDefault(t *testing.T) {
	rl := NewRateLimiter(nil)
	for i := 0; i < 20; i++ {
		ok, _ := rl.Allow("user-1", "something_else")
		assert.True(t, ok)
	}
	ok, _ := rl.Allow("user-1", "something_else")
	assert.False(t, ok)
}

func TestRateLimiter_Cleanup(t *testing.T) {
	now := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(nil)
	rl.now = func() time.Time { return now }

	rl.Allow("user-1", ActionReviewReport)
	now = now.Add(30 * time.Minute)
	rl.Allow("user-2", ActionReviewReport)
	assert.Equal(t, 2, rl.Size())

	now = now.Add(45 * time.Minute)
	rl.Cleanup(time.Hour)
	assert.Equal(t, 1, rl.Size())
}
