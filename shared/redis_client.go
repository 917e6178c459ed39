package shared

import (
	"context"
	"log/slog"
	"time"

	redis "github.com/redis/go-redis/v9"
)

const (
	redisClientName  = "video-extract-api"
	redisPingTimeout = 2 * time.Second
)

// ConnectRedis builds the optional Redis client for rate-limit counters and
// checks it once. It returns nil when REDIS_ADDR is unset. An unreachable
// server still yields a client: the limiter falls back to memory per call
// and the health check reports it.
func ConnectRedis(ctx context.Context, cfg *Config) *redis.Client {
	if cfg == nil || cfg.RedisAddr == "" {
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.RedisAddr,
		Password:     cfg.RedisPassword,
		DB:           cfg.RedisDB,
		ClientName:   redisClientName,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	if err := PingRedis(ctx, client); err != nil {
		slog.Warn("redis unavailable, rate limiting falls back to memory", "addr", cfg.RedisAddr, "err", err)
	} else {
		slog.Info("connected to redis", "addr", cfg.RedisAddr, "db", cfg.RedisDB)
	}
	return client
}

// PingRedis reports whether the server answers within redisPingTimeout. A nil
// client counts as healthy.
func PingRedis(ctx context.Context, client *redis.Client) error {
	if client == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, redisPingTimeout)
	defer cancel()
	return client.Ping(ctx).Err()
}
