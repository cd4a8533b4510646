package cache

import (
	"context"
	"errors"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/singulaarityy/Ferrum-Store/internal/domain/models"
)

// noGrantMarker records that the store was consulted and holds no grant.
// Without it an ungranted (folder, user) pair would hit the grant table on
// every request. It can never collide with a real level; levels are
// constrained to viewer/editor.
const noGrantMarker = "none"

// PermissionCache holds resolved grant levels keyed by (folder, user), with a
// 15 minute lifetime. Entries distinguish "checked, no grant" from "not yet
// checked": a missing key means the resolver must consult the grant table.
type PermissionCache struct {
	client *redis.Client
	logger *slog.Logger
}

// NewPermissionCache creates a permission cache on an existing client.
func NewPermissionCache(client *redis.Client, logger *slog.Logger) *PermissionCache {
	return &PermissionCache{client: client, logger: logger}
}

func permKey(folderKey, userID string) string {
	return keyPrefix + ":perm:" + folderKey + ":" + userID
}

// Get returns the cached grant level. found=false means not yet checked;
// found=true with level "" means checked and ungranted.
func (c *PermissionCache) Get(ctx context.Context, ref models.FolderRef, userID string) (level string, found bool) {
	ctx, cancel := opContext(ctx)
	defer cancel()

	val, err := c.client.Get(ctx, permKey(ref.CacheKey(), userID)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("permission cache lookup failed, treating as miss",
				"folder", ref.CacheKey(), "user", userID, "error", err)
		}
		return "", false
	}
	if val == noGrantMarker {
		return "", true
	}
	return val, true
}

// Put records a resolved level; an empty level stores the no-grant marker.
// Population is read-through best effort: failure must not fail the request.
func (c *PermissionCache) Put(ctx context.Context, ref models.FolderRef, userID, level string) {
	ctx, cancel := opContext(ctx)
	defer cancel()

	val := level
	if val == "" {
		val = noGrantMarker
	}
	if err := c.client.Set(ctx, permKey(ref.CacheKey(), userID), val, permissionTTL).Err(); err != nil {
		c.logger.Warn("permission cache populate failed",
			"folder", ref.CacheKey(), "user", userID, "error", err)
	}
}
