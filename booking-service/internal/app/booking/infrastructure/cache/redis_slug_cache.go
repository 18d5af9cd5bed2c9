package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"trahy/pkg/metrics"

	"github.com/redis/go-redis/v9"
)

const (
	serviceName   = "booking-service"
	slugKeyPrefix = "property:slug:"
)

type RedisSlugCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisClient connects and pings Redis.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return client, nil
}

func NewRedisSlugCache(client *redis.Client, ttl time.Duration) *RedisSlugCache {
	return &RedisSlugCache{client: client, ttl: ttl}
}

func (c *RedisSlugCache) GetPropertyID(ctx context.Context, slug string) (string, bool, error) {
	timer := metrics.NewRedisTimer(serviceName, metrics.RedisOpGet)
	defer timer.ObserveDuration()

	id, err := c.client.Get(ctx, slugKeyPrefix+slug).Result()
	if errors.Is(err, redis.Nil) {
		metrics.RecordCacheMiss(serviceName, slugKeyPrefix)
		return "", false, nil
	}
	if err != nil {
		metrics.RecordRedisError(serviceName, metrics.RedisOpGet)
		return "", false, fmt.Errorf("failed to get slug from cache: %w", err)
	}

	metrics.RecordCacheHit(serviceName, slugKeyPrefix)
	return id, true, nil
}

func (c *RedisSlugCache) SetPropertyID(ctx context.Context, slug, propertyID string) error {
	timer := metrics.NewRedisTimer(serviceName, metrics.RedisOpSet)
	defer timer.ObserveDuration()

	if err := c.client.Set(ctx, slugKeyPrefix+slug, propertyID, c.ttl).Err(); err != nil {
		metrics.RecordRedisError(serviceName, metrics.RedisOpSet)
		return fmt.Errorf("failed to set slug in cache: %w", err)
	}

	return nil
}

func (c *RedisSlugCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
