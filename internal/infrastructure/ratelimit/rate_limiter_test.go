package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTokenBucketExhaustion(t *testing.T) {
	bucket := NewTokenBucket(3, 1, time.Minute)

	for i := 0; i < 3; i++ {
		allowed, _ := bucket.Allow()
		assert.True(t, allowed, "request %d should pass", i)
	}

	allowed, wait := bucket.Allow()
	assert.False(t, allowed)
	assert.Greater(t, wait, time.Duration(0))
}

func TestTokenBucketRefill(t *testing.T) {
	bucket := NewTokenBucket(1, 1, 10*time.Millisecond)

	allowed, _ := bucket.Allow()
	assert.True(t, allowed)

	allowed, _ = bucket.Allow()
	assert.False(t, allowed)

	time.Sleep(25 * time.Millisecond)

	allowed, _ = bucket.Allow()
	assert.True(t, allowed)
}

func TestRateLimiterIsolatesUsersAndActions(t *testing.T) {
	rl := NewRateLimiter()

	// Exhaust user-1's send_message budget.
	for {
		allowed, _ := rl.Allow("user-1", ActionSendMessage)
		if !allowed {
			break
		}
	}

	// Other users and other actions are unaffected.
	allowed, _ := rl.Allow("user-2", ActionSendMessage)
	assert.True(t, allowed)

	allowed, _ = rl.Allow("user-1", ActionCreateOffer)
	assert.True(t, allowed)
}

func TestRateLimiterStatus(t *testing.T) {
	rl := NewRateLimiter()

	tokens, maxTokens := rl.GetStatus("user-1", ActionCreateOffer)
	assert.Equal(t, 0, tokens)
	assert.Equal(t, 0, maxTokens)

	rl.Allow("user-1", ActionCreateOffer)

	tokens, maxTokens = rl.GetStatus("user-1", ActionCreateOffer)
	assert.Equal(t, 10, maxTokens)
	assert.Equal(t, 9, tokens)
}
