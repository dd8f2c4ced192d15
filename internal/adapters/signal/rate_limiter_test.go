package signal

import (
	"testing"
	"time"
)

func TestJoinRateLimiter(t *testing.T) {
	rl := NewJoinRateLimiter(3, time.Minute)

	for i := 0; i < 3; i++ {
		if !rl.Allow("u1") {
			t.Fatalf("attempt %d should pass", i+1)
		}
	}
	if rl.Allow("u1") {
		t.Error("attempt over the limit should be blocked")
	}
	if !rl.Allow("u2") {
		t.Error("limits are per connection")
	}

	rl.Forget("u1")
	if !rl.Allow("u1") {
		t.Error("history should reset after Forget")
	}
}

func TestJoinRateLimiterWindowExpiry(t *testing.T) {
	rl := NewJoinRateLimiter(1, 10*time.Millisecond)

	if !rl.Allow("u1") {
		t.Fatal("first attempt should pass")
	}
	if rl.Allow("u1") {
		t.Fatal("second immediate attempt should be blocked")
	}
	time.Sleep(20 * time.Millisecond)
	if !rl.Allow("u1") {
		t.Error("attempt after the window should pass")
	}
}
