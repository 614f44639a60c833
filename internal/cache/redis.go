package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/actuallystonmai/ranking-service/internal/domain"
	"github.com/redis/go-redis/v9"
)

const defaultTTL = 10 * time.Minute

type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Cache{client: client, ttl: ttl}
}

func buildKey(tag string) string {
	return "ranking:tag:" + tag
}

// Get a ranking from cache. found is false on a miss.
func (c *Cache) Get(ctx context.Context, tag string) (entries []domain.Entry, found bool, err error) {
	key := buildKey(tag)
	val, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get ranking from cache: %w", err)
	}

	if err := json.Unmarshal(val, &entries); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal ranking %s: %w", key, err)
	}
	if entries == nil {
		entries = []domain.Entry{}
	}
	return entries, true, nil
}

// Store a ranking in cache
func (c *Cache) Set(ctx context.Context, tag string, entries []domain.Entry) error {
	val, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to marshal ranking: %w", err)
	}

	if err := c.client.Set(ctx, buildKey(tag), val, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set ranking in cache: %w", err)
	}
	return nil
}

// Invalidate drops the cached ranking for tag: used after a harvest replaces it
func (c *Cache) Invalidate(ctx context.Context, tag string) error {
	if err := c.client.Del(ctx, buildKey(tag)).Err(); err != nil {
		return fmt.Errorf("cache delete %s: %w", buildKey(tag), err)
	}
	return nil
}

// Ping connectivity
func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
