package tenantcache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "tenant"

// Cache is a read-through cache of tenant database names in Redis.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// New creates a cache with entries expiring after ttl.
func New(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

// Get returns the cached database name; found is false on a miss.
func (c *Cache) Get(ctx context.Context, kind string, referenceID int64) (string, bool, error) {
	val, err := c.client.Get(ctx, key(kind, referenceID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("tenantcache: get: %w", err)
	}
	return val, true, nil
}

// Set stores the database name for ttl.
func (c *Cache) Set(ctx context.Context, kind string, referenceID int64, databaseName string) error {
	if err := c.client.Set(ctx, key(kind, referenceID), databaseName, c.ttl).Err(); err != nil {
		return fmt.Errorf("tenantcache: set: %w", err)
	}
	return nil
}

// Invalidate drops the entry, e.g. after a tenant database is moved.
func (c *Cache) Invalidate(ctx context.Context, kind string, referenceID int64) error {
	if err := c.client.Del(ctx, key(kind, referenceID)).Err(); err != nil {
		return fmt.Errorf("tenantcache: del: %w", err)
	}
	return nil
}

func key(kind string, referenceID int64) string {
	return fmt.Sprintf("%s:%s:%d", keyPrefix, kind, referenceID)
}
