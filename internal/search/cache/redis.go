package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"sanctionwatch/internal/sanction/models"
)

const recordKeyPrefix = "sw:record:"

// Redis is the redis-backed cache implementation, for deployments where
// several serving instances should share one detail cache.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

type RedisOption func(*Redis)

func WithRedisTTL(ttl time.Duration) RedisOption {
	return func(r *Redis) { r.ttl = ttl }
}

func NewRedis(client *redis.Client, opts ...RedisOption) *Redis {
	r := &Redis{client: client, ttl: DefaultTTL}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

func (r *Redis) Get(ctx context.Context, id string) (*models.Record, error) {
	data, err := r.client.Get(ctx, recordKeyPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var rec models.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		// A corrupt entry behaves like a miss; the next Set repairs it.
		return nil, nil
	}
	return &rec, nil
}

func (r *Redis) Set(ctx context.Context, rec *models.Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, recordKeyPrefix+rec.ID, data, r.ttl).Err()
}

func (r *Redis) Delete(ctx context.Context, id string) error {
	return r.client.Del(ctx, recordKeyPrefix+id).Err()
}
