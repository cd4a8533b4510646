// Package cache is the Redis acceleration layer: folder listing cache,
// resolved-permission cache and usage counters.
//
// Nothing in here is authoritative. Every entry carries a TTL and can be
// dropped at any moment; readers that miss fall through to Postgres. The
// package absorbs its own failures - a Redis error or timeout surfaces as a
// cache miss, never as a request failure.
package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// keyPrefix namespaces every key this service writes.
const keyPrefix = "ferrum"

const (
	// listingTTL bounds the lifetime of membership lists, metadata
	// snapshots and empty sentinels.
	listingTTL = time.Hour

	// permissionTTL bounds the lifetime of resolved grant entries. A grant
	// revoked directly in the store stays visible for at most this long.
	permissionTTL = 15 * time.Minute

	// opTimeout bounds every Redis call. A slow cache must degrade to a
	// store read, not stall the request.
	opTimeout = 500 * time.Millisecond
)

// NewClient creates a go-redis client from a redis:// URL and verifies
// connectivity.
func NewClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		return nil, err
	}

	return client, nil
}

// opContext derives the bounded context used for a single cache operation.
func opContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, opTimeout)
}
