package cache

import (
	"context"
	"errors"
	"log/slog"
	"strconv"

	"github.com/redis/go-redis/v9"
)

// UsageCounter tracks stored bytes per user. The counter is advisory, like
// everything else in this package; it is bumped on upload registration and
// read by the usage endpoint.
type UsageCounter struct {
	client *redis.Client
	logger *slog.Logger
}

// NewUsageCounter creates a usage counter on an existing client.
func NewUsageCounter(client *redis.Client, logger *slog.Logger) *UsageCounter {
	return &UsageCounter{client: client, logger: logger}
}

func usageKey(userID string) string {
	return keyPrefix + ":usage:" + userID
}

// Add increments a user's stored-bytes counter. Best effort.
func (c *UsageCounter) Add(ctx context.Context, userID string, bytes int64) {
	ctx, cancel := opContext(ctx)
	defer cancel()

	if err := c.client.IncrBy(ctx, usageKey(userID), bytes).Err(); err != nil {
		c.logger.Warn("usage counter update failed", "user", userID, "error", err)
	}
}

// Get returns a user's stored-bytes counter; missing means zero.
func (c *UsageCounter) Get(ctx context.Context, userID string) int64 {
	ctx, cancel := opContext(ctx)
	defer cancel()

	val, err := c.client.Get(ctx, usageKey(userID)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("usage counter read failed", "user", userID, "error", err)
		}
		return 0
	}
	n, _ := strconv.ParseInt(val, 10, 64)
	return n
}
