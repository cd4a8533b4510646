package service

import (
	"context"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/singulaarityy/Ferrum-Store/internal/cache"
	"github.com/singulaarityy/Ferrum-Store/internal/domain"
	"github.com/singulaarityy/Ferrum-Store/internal/domain/models"
	"github.com/singulaarityy/Ferrum-Store/internal/domain/repositories"
)

// In-memory repository fakes. They count store reads so tests can assert
// which requests were served from cache.

type fakeUserRepo struct {
	users     map[string]*models.User // by id
	roleErr   error
	roleReads int
}

func newFakeUserRepo(users ...*models.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[string]*models.User)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	for _, u := range r.users {
		if u.Email == user.Email {
			return fmt.Errorf("user %s: %w", user.Email, domain.ErrConflict)
		}
	}
	now := time.Now()
	user.CreatedAt = now
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", id, domain.ErrNotFound)
	}
	return u, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, fmt.Errorf("user: %w", domain.ErrNotFound)
}

func (r *fakeUserRepo) GetRole(_ context.Context, id string) (string, error) {
	r.roleReads++
	if r.roleErr != nil {
		return "", r.roleErr
	}
	u, ok := r.users[id]
	if !ok {
		return "", fmt.Errorf("user %s: %w", id, domain.ErrNotFound)
	}
	return u.Role, nil
}

type fakePermRepo struct {
	levels map[string]string // "folder|user" -> level
	err    error
	reads  int
}

func newFakePermRepo() *fakePermRepo {
	return &fakePermRepo{levels: make(map[string]string)}
}

func (r *fakePermRepo) grant(folderID, userID, level string) {
	r.levels[folderID+"|"+userID] = level
}

func (r *fakePermRepo) revoke(folderID, userID string) {
	delete(r.levels, folderID+"|"+userID)
}

func (r *fakePermRepo) Create(_ context.Context, perm *models.FolderPermission) error {
	if r.err != nil {
		return r.err
	}
	key := perm.FolderID + "|" + perm.UserID
	if _, ok := r.levels[key]; ok {
		return fmt.Errorf("grant: %w", domain.ErrConflict)
	}
	r.levels[key] = perm.Permission
	return nil
}

func (r *fakePermRepo) GetLevel(_ context.Context, folderID, userID string) (string, error) {
	r.reads++
	if r.err != nil {
		return "", r.err
	}
	return r.levels[folderID+"|"+userID], nil
}

func (r *fakePermRepo) Delete(_ context.Context, folderID, userID string) error {
	delete(r.levels, folderID+"|"+userID)
	return nil
}

type fakeFolderRepo struct {
	folders map[string]*models.Folder
	reads   int
}

func newFakeFolderRepo(folders ...*models.Folder) *fakeFolderRepo {
	r := &fakeFolderRepo{folders: make(map[string]*models.Folder)}
	for _, f := range folders {
		r.folders[f.ID] = f
	}
	return r
}

func (r *fakeFolderRepo) Create(_ context.Context, folder *models.Folder) error {
	if _, ok := r.folders[folder.ID]; ok {
		return fmt.Errorf("folder %s: %w", folder.ID, domain.ErrConflict)
	}
	if folder.ParentID != nil {
		if _, ok := r.folders[*folder.ParentID]; !ok {
			return fmt.Errorf("parent folder: %w", domain.ErrNotFound)
		}
	}
	now := time.Now()
	folder.CreatedAt = &now
	r.folders[folder.ID] = folder
	return nil
}

func (r *fakeFolderRepo) GetByID(_ context.Context, id string) (*models.Folder, error) {
	f, ok := r.folders[id]
	if !ok {
		return nil, fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
	}
	return f, nil
}

func (r *fakeFolderRepo) ListChildren(_ context.Context, parentID string) ([]models.Folder, error) {
	r.reads++
	var out []models.Folder
	for _, f := range r.folders {
		if f.ParentID != nil && *f.ParentID == parentID {
			out = append(out, *f)
		}
	}
	return out, nil
}

func (r *fakeFolderRepo) ListRootOwnedBy(_ context.Context, ownerID string) ([]models.Folder, error) {
	r.reads++
	var out []models.Folder
	for _, f := range r.folders {
		if f.ParentID == nil && f.OwnerID == ownerID {
			out = append(out, *f)
		}
	}
	return out, nil
}

type fakeFileRepo struct {
	files map[string]*models.File
	reads int
}

func newFakeFileRepo(files ...*models.File) *fakeFileRepo {
	r := &fakeFileRepo{files: make(map[string]*models.File)}
	for _, f := range files {
		r.files[f.ID] = f
	}
	return r
}

func (r *fakeFileRepo) Create(_ context.Context, file *models.File) error {
	if _, ok := r.files[file.ID]; ok {
		return fmt.Errorf("file %s: %w", file.ID, domain.ErrConflict)
	}
	now := time.Now()
	file.CreatedAt = &now
	r.files[file.ID] = file
	return nil
}

func (r *fakeFileRepo) GetByID(_ context.Context, id string) (*models.File, error) {
	f, ok := r.files[id]
	if !ok {
		return nil, fmt.Errorf("file %s: %w", id, domain.ErrNotFound)
	}
	return f, nil
}

func (r *fakeFileRepo) ListInFolder(_ context.Context, folderID string) ([]models.File, error) {
	r.reads++
	var out []models.File
	for _, f := range r.files {
		if f.FolderID != nil && *f.FolderID == folderID {
			out = append(out, *f)
		}
	}
	return out, nil
}

func (r *fakeFileRepo) ListRootOwnedBy(_ context.Context, ownerID string) ([]models.File, error) {
	r.reads++
	var out []models.File
	for _, f := range r.files {
		if f.FolderID == nil && f.OwnerID == ownerID {
			out = append(out, *f)
		}
	}
	return out, nil
}

// fakeTxManager runs the function directly; the fakes have no transactions.
type fakeTxManager struct{}

func (fakeTxManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	return fn(ctx)
}

type fakePresigner struct {
	putErr error
	getErr error
}

func (p *fakePresigner) PresignPut(_ context.Context, key, _ string, _ time.Duration) (string, error) {
	if p.putErr != nil {
		return "", p.putErr
	}
	return "https://store.test/put/" + key, nil
}

func (p *fakePresigner) PresignGet(_ context.Context, key string, _ time.Duration) (string, error) {
	if p.getErr != nil {
		return "", p.getErr
	}
	return "https://store.test/get/" + key, nil
}

// testCaches wires real cache layers onto miniredis.
func testCaches(t *testing.T) (*cache.ListingCache, *cache.PermissionCache, *cache.UsageCounter, *miniredis.Miniredis) {
	t.Helper()
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { client.Close() })
	logger := slog.Default()
	return cache.NewListingCache(client, logger),
		cache.NewPermissionCache(client, logger),
		cache.NewUsageCounter(client, logger),
		srv
}

func testIdentity(id, role string) *models.Identity {
	return &models.Identity{UserID: id, Role: role}
}

func strptr(s string) *string { return &s }
