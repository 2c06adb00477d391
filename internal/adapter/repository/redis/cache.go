package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/iho/billingledger/internal/infrastructure/metrics"
	"github.com/iho/billingledger/internal/usecase"
)

// Cache implements usecase.Cache using Redis.
type Cache struct {
	client  *redis.Client
	prefix  string
	metrics *metrics.Metrics
}

// NewCache creates a new Cache whose keys all start with prefix.
func NewCache(client *redis.Client, prefix string, m *metrics.Metrics) *Cache {
	return &Cache{
		client:  client,
		prefix:  prefix,
		metrics: m,
	}
}

// Get retrieves a value by key. A missing key yields usecase.ErrCacheMiss.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := c.client.Get(ctx, c.prefix+key).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		c.observe("miss")
		return nil, usecase.ErrCacheMiss
	case err != nil:
		c.observe("error")
		return nil, err
	}

	c.observe("hit")
	return val, nil
}

// Set stores a value with TTL. A zero TTL keeps the key forever.
func (c *Cache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.client.Set(ctx, c.prefix+key, value, ttl).Err()
}

// Delete removes a key.
func (c *Cache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, c.prefix+key).Err()
}

func (c *Cache) observe(result string) {
	if c.metrics != nil {
		c.metrics.BlockTimeCache.WithLabelValues(result).Inc()
	}
}
