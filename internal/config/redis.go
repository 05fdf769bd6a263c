package config

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient opens the Redis connection that backs live feed
// fan-out and the dashboard stats cache. The caller treats a failure
// here as a degraded mode, not a fatal one.
func NewRedisClient(cfg *Config) (*redis.Client, error) {
	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}

	return client, nil
}
