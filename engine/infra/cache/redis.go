package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/orca-network/orca/pkg/logger"
	"github.com/redis/go-redis/v9"
)

const defaultRedisPingTimeout = 5 * time.Second

// Interface is the subset of the redis client the agent cache needs.
type Interface interface {
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	Ping(ctx context.Context) *redis.StatusCmd
}

// NewRedisClient parses url, connects and pings the server.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	if url == "" {
		return nil, fmt.Errorf("redis url is required")
	}
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parsing Redis URL: %w", err)
	}
	client := redis.NewClient(opt)
	pingCtx, cancel := context.WithTimeout(ctx, defaultRedisPingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("pinging Redis server (timeout=%s): %w", defaultRedisPingTimeout, err)
	}
	logger.FromContext(ctx).Info("Redis connection established",
		"cache_driver", "redis",
		"addr", opt.Addr,
		"db", opt.DB,
	)
	return client, nil
}
