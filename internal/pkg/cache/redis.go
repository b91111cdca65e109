package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/okwaro/sokopesa/internal/pkg/constants"
	"github.com/okwaro/sokopesa/internal/pkg/models"
)

// RedisStore backs the Coordinator with a shared Redis so multiple edge
// instances observe the same invalidations. Stale marking is implemented
// as deletion: the next read misses and refetches.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects to Redis and verifies the connection
func NewRedisStore(config models.RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", config.Host, config.Port),
		Password: config.Password,
		DB:       config.DB,
		PoolSize: config.PoolSize,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisStore{client: client}, nil
}

func (s *RedisStore) storageKey(key Key) string {
	return constants.CacheNamespace + ":" + key.String()
}

func (s *RedisStore) Read(ctx context.Context, key Key) ([]byte, bool, error) {
	raw, err := s.client.Get(ctx, s.storageKey(key)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return raw, true, nil
}

func (s *RedisStore) Write(ctx context.Context, key Key, value []byte, ttl time.Duration) error {
	return s.client.Set(ctx, s.storageKey(key), value, ttl).Err()
}

func (s *RedisStore) Invalidate(ctx context.Context, prefix Key) (int, error) {
	marked := 0

	// The prefix itself may be a stored key.
	deleted, err := s.client.Del(ctx, s.storageKey(prefix)).Result()
	if err != nil {
		return 0, err
	}
	marked += int(deleted)

	pattern := s.storageKey(prefix) + ":*"
	iter := s.client.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		if err := s.client.Del(ctx, iter.Val()).Err(); err != nil {
			return marked, err
		}
		marked++
	}
	if err := iter.Err(); err != nil {
		return marked, err
	}
	return marked, nil
}

// Ping verifies the Redis connection is alive
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close releases the underlying Redis client
func (s *RedisStore) Close() error {
	return s.client.Close()
}
