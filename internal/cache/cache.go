// Package cache holds the redirect-path cache: slug → destination URL.
// The cache is strictly an optimization. Entries are written on a cache
// miss during a redirect and removed whenever the underlying link changes
// or disappears, and every entry carries a TTL as a backstop.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrMiss is returned by Get when the slug has no cached destination.
var ErrMiss = errors.New("cache: miss")

// DestinationCache caches slug → destination URL lookups.
// A nil *Redis is a valid no-op cache, so callers never branch on
// whether caching is configured.
type DestinationCache interface {
	Get(ctx context.Context, slug string) (string, error)
	Set(ctx context.Context, slug, destination string) error
	Invalidate(ctx context.Context, slug string) error
}

// Redis implements DestinationCache on a Redis instance.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedis connects to the Redis at url and verifies the connection.
func NewRedis(url string, ttl time.Duration) (*Redis, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}

	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Redis{client: client, ttl: ttl}, nil
}

func key(slug string) string {
	return "dest:" + slug
}

// Get returns the cached destination for slug, or ErrMiss.
func (c *Redis) Get(ctx context.Context, slug string) (string, error) {
	if c == nil {
		return "", ErrMiss
	}
	dest, err := c.client.Get(ctx, key(slug)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrMiss
	}
	if err != nil {
		return "", err
	}
	return dest, nil
}

// Set stores the destination for slug with the configured TTL.
func (c *Redis) Set(ctx context.Context, slug, destination string) error {
	if c == nil {
		return nil
	}
	return c.client.Set(ctx, key(slug), destination, c.ttl).Err()
}

// Invalidate drops the cached destination for slug. Dropping an absent
// slug is not an error.
func (c *Redis) Invalidate(ctx context.Context, slug string) error {
	if c == nil {
		return nil
	}
	return c.client.Del(ctx, key(slug)).Err()
}

// Close releases the underlying client.
func (c *Redis) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}
