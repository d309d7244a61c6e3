// File: internal/platform/redis/redis.go
package redis

import (
	"context"
	"fmt"

	"bazaar_onboarding_backend/internal/config"

	"github.com/redis/go-redis/v9"
)

// Client wraps go-redis client to allow future extensions.
type Client struct {
	*redis.Client
}

// New creates a new Redis client and pings it to validate the connection.
func New(cfg *config.Config) (*Client, error) {
	if cfg.RedisAddr == "" {
		return nil, fmt.Errorf("empty redis addr")
	}
	c := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err := c.Ping(context.Background()).Err(); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return &Client{Client: c}, nil
}
