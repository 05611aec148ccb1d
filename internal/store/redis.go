package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"storefront/internal/config"
	"storefront/internal/logging"

	redis "github.com/redis/go-redis/v9"
)

const (
	redisPingRetries = 3
	redisPingTimeout = 3 * time.Second
	redisMaxBackoff  = 4 * time.Second
)

// RedisStore keeps values as plain redis strings.
type RedisStore struct {
	rdb *redis.Client
}

// NewRedisStore connects to redis, retrying the initial ping with
// exponential backoff.
func NewRedisStore(ctx context.Context, cfg config.RedisConfig) (*RedisStore, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		DB:       cfg.DB,
		Password: cfg.Password,
	})

	for i := 0; ; i++ {
		pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
		err := rdb.Ping(pingCtx).Err()
		cancel()

		if err == nil {
			logging.Store("Connected to redis at %s (db %d)", cfg.Addr, cfg.DB)
			return &RedisStore{rdb: rdb}, nil
		}

		if i == redisPingRetries-1 {
			rdb.Close()
			return nil, fmt.Errorf("failed to connect to redis after %d retries: %w", redisPingRetries, err)
		}

		backoff := time.Duration(1<<i) * time.Second
		if backoff > redisMaxBackoff {
			backoff = redisMaxBackoff
		}
		logging.Get(logging.CategoryStore).Warn("redis not ready, retry in %v (%d/%d): %v", backoff, i+1, redisPingRetries, err)

		select {
		case <-ctx.Done():
			rdb.Close()
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
	}
}

// Get returns the value stored under key.
func (r *RedisStore) Get(ctx context.Context, key string) (string, error) {
	v, err := r.rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", key, err)
	}
	return v, nil
}

// Set overwrites the value stored under key. No expiry.
func (r *RedisStore) Set(ctx context.Context, key, value string) error {
	if err := r.rdb.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

// Close closes the client.
func (r *RedisStore) Close() error {
	return r.rdb.Close()
}
