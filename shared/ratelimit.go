package shared

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	redis "github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

// RateLimiter provides per-IP rate limiting with optional Redis backend
type RateLimiter struct {
	rpm   int
	redis *redis.Client
	now   func() time.Time

	mu          sync.Mutex
	limiters    map[string]*rate.Limiter
	windowStart time.Time
}

func NewRateLimiter(cfg *Config, redisClient *redis.Client) *RateLimiter {
	return &RateLimiter{
		rpm:      cfg.RateLimitRPM,
		redis:    redisClient,
		now:      time.Now,
		limiters: map[string]*rate.Limiter{},
	}
}

// key for the current minute window
func minuteKey(ip string, now time.Time) string {
	return fmt.Sprintf("ratelimit:%s:%d", ip, now.Unix()/60)
}

// Allow returns whether the request is allowed and remaining quota (best-effort)
func (r *RateLimiter) Allow(ip string) (bool, int) {
	if r.rpm <= 0 {
		return true, r.rpm
	}
	if r.redis != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
		defer cancel()
		key := minuteKey(ip, r.now())
		n, err := r.redis.Incr(ctx, key).Result()
		if err != nil {
			slog.Warn("rate limit counter unavailable, using in-memory limiter", "err", err)
			return r.allowInMem(ip)
		}
		if n == 1 {
			_ = r.redis.Expire(ctx, key, 65*time.Second).Err()
		}
		return int(n) <= r.rpm, r.rpm - int(n)
	}
	return r.allowInMem(ip)
}

// allowInMem keeps one token bucket per IP. Buckets are dropped every minute
// so idle clients do not accumulate.
func (r *RateLimiter) allowInMem(ip string) (bool, int) {
	now := r.now()
	r.mu.Lock()
	defer r.mu.Unlock()
	if now.Sub(r.windowStart) > time.Minute {
		r.limiters = map[string]*rate.Limiter{}
		r.windowStart = now
	}
	lim, ok := r.limiters[ip]
	if !ok {
		lim = rate.NewLimiter(rate.Every(time.Minute/time.Duration(r.rpm)), r.rpm)
		r.limiters[ip] = lim
	}
	allowed := lim.AllowN(now, 1)
	return allowed, int(lim.TokensAt(now))
}
