package shared

import (
	"context"
	"testing"
)

func TestConnectRedisDisabled(t *testing.T) {
	if client := ConnectRedis(context.Background(), &Config{}); client != nil {
		t.Errorf("expected no client without REDIS_ADDR, got %v", client)
	}
	if client := ConnectRedis(context.Background(), nil); client != nil {
		t.Errorf("expected no client for nil config, got %v", client)
	}
	if err := PingRedis(context.Background(), nil); err != nil {
		t.Errorf("nil client should count as healthy, got %v", err)
	}
}

func TestConnectRedisUnreachable(t *testing.T) {
	// port 1 on loopback refuses connections immediately
	client := ConnectRedis(context.Background(), &Config{RedisAddr: "127.0.0.1:1"})
	if client == nil {
		t.Fatal("expected a client even when the server is down")
	}
	defer client.Close()

	if err := PingRedis(context.Background(), client); err == nil {
		t.Error("expected ping to fail against a closed port")
	}

	rl := NewRateLimiter(&Config{RateLimitRPM: 1}, client)
	if ok, _ := rl.Allow("1.1.1.1"); !ok {
		t.Error("first request should pass through the in-memory fallback")
	}
	if ok, _ := rl.Allow("1.1.1.1"); ok {
		t.Error("second request should be limited by the in-memory fallback")
	}
}
