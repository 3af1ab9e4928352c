// Package cache stores successful prediction responses in redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/elannasinada/AutoPrix/pkg/autoprix/dal"
)

// RedisCache implements predict.Cache on top of a redis client.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// Options mirrors the subset of redis settings the service exposes.
type Options struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// NewRedis creates a client for opts. The connection is checked lazily.
func NewRedis(opts Options) *RedisCache {
	rdb := redis.NewClient(&redis.Options{
		Addr:         opts.Addr,
		Password:     opts.Password,
		DB:           opts.DB,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  500 * time.Millisecond,
		WriteTimeout: 500 * time.Millisecond,
		PoolSize:     10,
	})
	return &RedisCache{client: rdb, ttl: opts.TTL}
}

// Ping tests the redis connection
func (c *RedisCache) Ping(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

// Get returns the cached response for key, if any.
func (c *RedisCache) Get(ctx context.Context, key string) (dal.PredictionResponse, bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return dal.PredictionResponse{}, false, nil
	}
	if err != nil {
		return dal.PredictionResponse{}, false, err
	}
	var resp dal.PredictionResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return dal.PredictionResponse{}, false, fmt.Errorf("decode cached response: %w", err)
	}
	return resp, true, nil
}

// Set stores resp under key for the configured TTL.
func (c *RedisCache) Set(ctx context.Context, key string, resp dal.PredictionResponse) error {
	data, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, data, c.ttl).Err()
}

// Close closes the redis connection
func (c *RedisCache) Close() error {
	return c.client.Close()
}
