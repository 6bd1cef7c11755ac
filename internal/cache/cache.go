// Package cache is a best-effort response cache backed by Redis.  A miss or
// a broken connection never fails the caller, it just means another round
// trip to Atlassian.
package cache

import (
	"context"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// TTLs follow what the data tolerates: the space list barely changes, page
// and issue bodies do.
const (
	TTLSpaces  = time.Hour
	TTLDefault = 30 * time.Minute
)

// Cache is what the API clients see.  Get reports found=false on miss or on
// any backend trouble.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, value string, ttl time.Duration)
}

// Key builds a cache key from parts, colon-joined: Key("confluence",
// "page", "123", "storage") == "confluence:page:123:storage".
func Key(parts ...string) string {
	return strings.Join(parts, ":")
}

// Redis is the live implementation.
type Redis struct {
	client *redis.Client
}

// New connects using a REDIS_URL-style string, e.g.
// redis://localhost:6379/0.
func New(redisURL string) (*Redis, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	return &Redis{client: redis.NewClient(opts)}, nil
}

func (r *Redis) Get(ctx context.Context, key string) (string, bool) {
	value, err := r.client.Get(ctx, key).Result()
	if err != nil {
		// redis.Nil on miss, anything else on trouble; either way the
		// caller refetches.
		return "", false
	}
	return value, true
}

func (r *Redis) Set(ctx context.Context, key, value string, ttl time.Duration) {
	r.client.Set(ctx, key, value, ttl)
}

func (r *Redis) Close() error {
	return r.client.Close()
}

// Nop is used when no REDIS_URL is configured.
type Nop struct{}

func (Nop) Get(ctx context.Context, key string) (string, bool) { return "", false }

func (Nop) Set(ctx context.Context, key, value string, _ time.Duration) {}
