// Package redis dials the shared go-redis client backing the detail cache.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"sanctionwatch/internal/platform/config"
)

const pingTimeout = 5 * time.Second

// Client wraps go-redis so callers can close the pool without importing the
// driver directly.
type Client struct {
	*redis.Client
}

// New dials redis from cfg and verifies the connection with a bounded ping.
// A blank URL means no redis is configured; that is reported as (nil, nil) so
// the server can fall back to the in-process cache.
func New(cfg config.RedisConfig) (*Client, error) {
	if cfg.URL == "" {
		return nil, nil
	}

	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}
	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns
	opts.DialTimeout = cfg.DialTimeout
	opts.ReadTimeout = cfg.ReadTimeout
	opts.WriteTimeout = cfg.WriteTimeout

	client := &Client{Client: redis.NewClient(opts)}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}

// Healthy reports whether the connection still answers.
func (c *Client) Healthy(ctx context.Context) error {
	return c.Ping(ctx).Err()
}
