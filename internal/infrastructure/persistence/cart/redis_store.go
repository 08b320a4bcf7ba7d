package cart

import (
	"context"
	"fmt"
	"time"

	"github.com/drinkmate/drinkmate-go/internal/domain/repositories"
	"github.com/drinkmate/drinkmate-go/internal/infrastructure/observability/logging"
	"github.com/redis/go-redis/v9"
)

// RedisStore is the key-value substrate backed by redis string keys,
// expiring with the configured cart TTL. Selected with
// CART_STORE_BACKEND=redis.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
	logger *logging.ChanneledLogger
}

var _ repositories.KVStore = (*RedisStore)(nil)

// NewRedisStore connects to redis and verifies the connection.
func NewRedisStore(ctx context.Context, addr string, ttl time.Duration, logger *logging.ChanneledLogger) (*RedisStore, error) {
	opts, err := redis.ParseURL(addr)
	if err != nil {
		// Plain "host:port" form rather than a redis:// URL
		opts = &redis.Options{
			Addr:         addr,
			MinIdleConns: 1,
			DialTimeout:  10 * time.Second,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 5 * time.Second,
		}
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}

	logger.Database().Info("Redis cart store connected", "addr", addr, "ttl", ttl)
	return &RedisStore{client: client, ttl: ttl, logger: logger}, nil
}

// Get reads the raw value under key. The second return reports whether
// the key exists.
func (s *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	raw, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read cart key: %w", err)
	}
	return raw, true, nil
}

// Set writes the raw value under key with the store TTL.
func (s *RedisStore) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, key, value, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write cart key: %w", err)
	}
	return nil
}

// Delete removes the value under key.
func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to delete cart key: %w", err)
	}
	return nil
}

// Ping reports whether redis answers.
func (s *RedisStore) Ping(ctx context.Context) bool {
	return s.client.Ping(ctx).Err() == nil
}

// Close releases the redis connection pool.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
