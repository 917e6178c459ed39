package shared

import (
	"testing"
	"time"
)

func TestRateLimiterInMemory(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(&Config{RateLimitRPM: 2}, nil)
	rl.now = func() time.Time { return now }

	if ok, remaining := rl.Allow("1.1.1.1"); !ok || remaining != 1 {
		t.Fatalf("first request: ok=%v remaining=%d", ok, remaining)
	}
	if ok, remaining := rl.Allow("1.1.1.1"); !ok || remaining != 0 {
		t.Fatalf("second request: ok=%v remaining=%d", ok, remaining)
	}
	if ok, _ := rl.Allow("1.1.1.1"); ok {
		t.Fatal("third request should be limited")
	}
	if ok, _ := rl.Allow("2.2.2.2"); !ok {
		t.Error("other clients have their own quota")
	}

	now = now.Add(2 * time.Minute)
	if ok, _ := rl.Allow("1.1.1.1"); !ok {
		t.Error("quota should be restored after the window passes")
	}
}

func TestRateLimiterDisabled(t *testing.T) {
	rl := NewRateLimiter(&Config{RateLimitRPM: 0}, nil)
	for i := 0; i < 100; i++ {
		if ok, _ := rl.Allow("1.1.1.1"); !ok {
			t.Fatalf("request %d was limited with rate limiting disabled", i)
		}
	}
}

func TestMinuteKey(t *testing.T) {
	at := time.Unix(120, 0)
	if got := minuteKey("1.2.3.4", at); got != "ratelimit:1.2.3.4:2" {
		t.Errorf("unexpected key %s", got)
	}
	if minuteKey("1.2.3.4", at) != minuteKey("1.2.3.4", at.Add(59*time.Second)) {
		t.Error("requests within one minute should share a key")
	}
}
