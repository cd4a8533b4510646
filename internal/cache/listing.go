package cache

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/singulaarityy/Ferrum-Store/internal/domain/models"
)

// ListingCache is the cache-aside store for folder children. Each folder key
// carries two independent listings, files and subfolders, sharing one layout:
//
//	ferrum:folder:{key}:children          ZSET of file ids, scored by created-at
//	ferrum:folder:{key}:empty             empty sentinel for the file listing
//	ferrum:folder:{key}:subfolders        ZSET of folder ids, scored by created-at
//	ferrum:folder:{key}:subfolders:empty  empty sentinel for the subfolder listing
//	ferrum:file:{id}:meta                 HASH metadata snapshot
//	ferrum:folder:{id}:meta               HASH metadata snapshot
//
// The sentinel keys exist because "confirmed zero children" and "never
// cached" must not be conflated: without them the confirmed-empty case would
// hit the store on every read.
//
// Lookups report (items, ok); ok=false is a genuine miss and the caller owns
// the store fetch. Redis failures and timeouts degrade to misses.
type ListingCache struct {
	client *redis.Client
	logger *slog.Logger
}

// NewListingCache creates a listing cache on an existing client.
func NewListingCache(client *redis.Client, logger *slog.Logger) *ListingCache {
	return &ListingCache{client: client, logger: logger}
}

func filesKey(folderKey string) string {
	return keyPrefix + ":folder:" + folderKey + ":children"
}

func filesEmptyKey(folderKey string) string {
	return keyPrefix + ":folder:" + folderKey + ":empty"
}

func subfoldersKey(folderKey string) string {
	return keyPrefix + ":folder:" + folderKey + ":subfolders"
}

func subfoldersEmptyKey(folderKey string) string {
	return keyPrefix + ":folder:" + folderKey + ":subfolders:empty"
}

func fileMetaKey(fileID string) string {
	return keyPrefix + ":file:" + fileID + ":meta"
}

func folderMetaKey(folderID string) string {
	return keyPrefix + ":folder:" + folderID + ":meta"
}

// createdAtScore derives the ZSET sort key. Entities without a creation time
// sort first.
func createdAtScore(f *models.File, fo *models.Folder) float64 {
	switch {
	case f != nil && f.CreatedAt != nil:
		return float64(f.CreatedAt.Unix())
	case fo != nil && fo.CreatedAt != nil:
		return float64(fo.CreatedAt.Unix())
	}
	return 0
}

// GetFiles returns the cached file listing for a folder ref. ok=false means
// the caller must query the store.
func (c *ListingCache) GetFiles(ctx context.Context, ref models.FolderRef) ([]models.File, bool) {
	ctx, cancel := opContext(ctx)
	defer cancel()

	key := ref.CacheKey()
	ids, state := c.members(ctx, filesKey(key), filesEmptyKey(key))
	switch state {
	case lookupEmpty:
		return []models.File{}, true
	case lookupMiss:
		return nil, false
	}

	maps, err := c.metadata(ctx, ids, fileMetaKey)
	if err != nil {
		c.logger.Warn("file metadata fetch failed, treating as miss", "folder", key, "error", err)
		return nil, false
	}

	files := make([]models.File, 0, len(maps))
	for _, m := range maps {
		if len(m) == 0 {
			// Snapshot expired out from under the membership list;
			// undercount rather than fail.
			continue
		}
		size, _ := strconv.ParseInt(m["size"], 10, 64)
		var folderID *string
		if !ref.IsVirtualRoot() {
			id := ref.ID
			folderID = &id
		}
		files = append(files, models.File{
			ID:         m["id"],
			Name:       m["name"],
			FolderID:   folderID,
			OwnerID:    m["owner_id"],
			StorageKey: m["storage_key"],
			Size:       size,
			MimeType:   m["mime"],
			IsPublic:   m["is_public"] == "1",
		})
	}
	return files, true
}

// GetSubfolders returns the cached subfolder listing for a folder ref.
func (c *ListingCache) GetSubfolders(ctx context.Context, ref models.FolderRef) ([]models.Folder, bool) {
	ctx, cancel := opContext(ctx)
	defer cancel()

	key := ref.CacheKey()
	ids, state := c.members(ctx, subfoldersKey(key), subfoldersEmptyKey(key))
	switch state {
	case lookupEmpty:
		return []models.Folder{}, true
	case lookupMiss:
		return nil, false
	}

	maps, err := c.metadata(ctx, ids, folderMetaKey)
	if err != nil {
		c.logger.Warn("folder metadata fetch failed, treating as miss", "folder", key, "error", err)
		return nil, false
	}

	folders := make([]models.Folder, 0, len(maps))
	for _, m := range maps {
		if len(m) == 0 {
			continue
		}
		var parentID *string
		if !ref.IsVirtualRoot() {
			id := ref.ID
			parentID = &id
		}
		folders = append(folders, models.Folder{
			ID:       m["id"],
			Name:     m["name"],
			ParentID: parentID,
			OwnerID:  m["owner_id"],
			IsPublic: m["is_public"] == "1",
		})
	}
	return folders, true
}

// PutFiles populates the file listing for a folder ref. An empty slice writes
// only the sentinel. Failures are logged and dropped; the next read is a miss.
func (c *ListingCache) PutFiles(ctx context.Context, ref models.FolderRef, files []models.File) {
	ctx, cancel := opContext(ctx)
	defer cancel()

	key := ref.CacheKey()
	if len(files) == 0 {
		if err := c.client.Set(ctx, filesEmptyKey(key), "1", listingTTL).Err(); err != nil {
			c.logger.Warn("cache empty sentinel write failed", "folder", key, "error", err)
		}
		return
	}

	// MULTI/EXEC so a concurrent reader never sees a membership entry
	// without its snapshot.
	pipe := c.client.TxPipeline()
	for i := range files {
		f := &files[i]
		pipe.ZAdd(ctx, filesKey(key), redis.Z{Score: createdAtScore(f, nil), Member: f.ID})

		meta := fileMetaKey(f.ID)
		pipe.HSet(ctx, meta, map[string]interface{}{
			"id":          f.ID,
			"name":        f.Name,
			"owner_id":    f.OwnerID,
			"storage_key": f.StorageKey,
			"size":        strconv.FormatInt(f.Size, 10),
			"mime":        f.MimeType,
			"is_public":   boolField(f.IsPublic),
		})
		pipe.Expire(ctx, meta, listingTTL)
	}
	pipe.Expire(ctx, filesKey(key), listingTTL)

	if _, err := pipe.Exec(ctx); err != nil {
		c.logger.Warn("file listing cache populate failed", "folder", key, "error", err)
	}
}

// PutSubfolders populates the subfolder listing for a folder ref.
func (c *ListingCache) PutSubfolders(ctx context.Context, ref models.FolderRef, folders []models.Folder) {
	ctx, cancel := opContext(ctx)
	defer cancel()

	key := ref.CacheKey()
	if len(folders) == 0 {
		if err := c.client.Set(ctx, subfoldersEmptyKey(key), "1", listingTTL).Err(); err != nil {
			c.logger.Warn("cache empty sentinel write failed", "folder", key, "error", err)
		}
		return
	}

	pipe := c.client.TxPipeline()
	for i := range folders {
		f := &folders[i]
		pipe.ZAdd(ctx, subfoldersKey(key), redis.Z{Score: createdAtScore(nil, f), Member: f.ID})

		meta := folderMetaKey(f.ID)
		pipe.HSet(ctx, meta, map[string]interface{}{
			"id":        f.ID,
			"name":      f.Name,
			"owner_id":  f.OwnerID,
			"is_public": boolField(f.IsPublic),
		})
		pipe.Expire(ctx, meta, listingTTL)
	}
	pipe.Expire(ctx, subfoldersKey(key), listingTTL)

	if _, err := pipe.Exec(ctx); err != nil {
		c.logger.Warn("subfolder listing cache populate failed", "folder", key, "error", err)
	}
}

// Invalidate drops both listings (membership and sentinel, files and
// subfolders) for a folder ref in one batched delete. It must run after every
// successful create or upload commit targeting that parent. Errors are
// swallowed: a stale entry expires with its TTL and the store stays
// authoritative.
func (c *ListingCache) Invalidate(ctx context.Context, ref models.FolderRef) {
	ctx, cancel := opContext(ctx)
	defer cancel()

	key := ref.CacheKey()
	err := c.client.Del(ctx,
		filesKey(key),
		filesEmptyKey(key),
		subfoldersKey(key),
		subfoldersEmptyKey(key),
	).Err()
	if err != nil {
		c.logger.Warn("listing cache invalidation failed", "folder", key, "error", err)
	}
}

type lookupState int

const (
	lookupMiss lookupState = iota
	lookupEmpty
	lookupPopulated
)

// members resolves the membership ZSET for one listing kind, distinguishing
// confirmed-empty from never-cached.
func (c *ListingCache) members(ctx context.Context, zkey, emptyKey string) ([]string, lookupState) {
	isEmpty, err := c.client.Exists(ctx, emptyKey).Result()
	if err == nil && isEmpty > 0 {
		return nil, lookupEmpty
	}

	exists, err := c.client.Exists(ctx, zkey).Result()
	if err != nil {
		c.logger.Warn("cache lookup failed, treating as miss", "key", zkey, "error", err)
		return nil, lookupMiss
	}
	if exists == 0 {
		return nil, lookupMiss
	}

	ids, err := c.client.ZRange(ctx, zkey, 0, -1).Result()
	if err != nil || len(ids) == 0 {
		// A present-but-empty ZSET should have been the sentinel; treat
		// as a miss to stay safe.
		return nil, lookupMiss
	}
	return ids, lookupPopulated
}

// metadata pipelines the HGETALLs for a membership list.
func (c *ListingCache) metadata(ctx context.Context, ids []string, keyFn func(string) string) ([]map[string]string, error) {
	pipe := c.client.Pipeline()
	cmds := make([]*redis.MapStringStringCmd, len(ids))
	for i, id := range ids {
		cmds[i] = pipe.HGetAll(ctx, keyFn(id))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, err
	}

	maps := make([]map[string]string, len(cmds))
	for i, cmd := range cmds {
		maps[i] = cmd.Val()
	}
	return maps, nil
}

func boolField(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
