package http

import (
	"testing"
)

func TestRateLimiter_Allow(t *testing.T) {
	rl := NewRateLimiter(10)

	if !rl.Allow("1.2.3.4") {
		t.Error("first request should be allowed")
	}
	if !rl.Allow("5.6.7.8") {
		t.Error("different IP should be allowed")
	}
}

func TestRateLimiter_Burst(t *testing.T) {
	rl := NewRateLimiter(2) // burst 4

	allowed := 0
	for i := 0; i < 10; i++ {
		if rl.Allow("1.2.3.4") {
			allowed++
		}
	}
	if allowed < 2 || allowed > 5 {
		t.Errorf("allowed %d requests, expected burst-limited count", allowed)
	}
}

func TestRateLimiter_LowRateStillAdmitsOne(t *testing.T) {
	rl := NewRateLimiter(0.5)

	if !rl.Allow("1.2.3.4") {
		t.Error("fractional rates must keep a burst of at least 1")
	}
}
