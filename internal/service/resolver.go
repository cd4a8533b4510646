package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/singulaarityy/Ferrum-Store/internal/accesspolicy"
	"github.com/singulaarityy/Ferrum-Store/internal/cache"
	"github.com/singulaarityy/Ferrum-Store/internal/domain"
	"github.com/singulaarityy/Ferrum-Store/internal/domain/models"
	"github.com/singulaarityy/Ferrum-Store/internal/domain/repositories"
)

// AccessResolver decides whether a caller may read or write a folder or
// file. The decision lattice, first match wins:
//
//  1. target is public (read only)
//  2. caller owns the target
//  3. caller is admin
//  4. target is the caller's own virtual root
//  5. role-lateral visibility from the policy table (read only, one
//     owner-role lookup)
//  6. explicit grant, permission cache first, grant table on miss
//  7. denied
//
// An unauthenticated caller fails with ErrUnauthenticated everywhere except
// step 1, so clients can tell "log in and retry" from "never". Ambiguity -
// any store error while resolving steps 5-6 - fails closed as ErrForbidden.
type AccessResolver struct {
	userRepo  repositories.UserRepository
	permRepo  repositories.PermissionRepository
	permCache *cache.PermissionCache
	policy    *accesspolicy.Policy
	logger    *slog.Logger
}

// NewAccessResolver creates a new access resolver.
func NewAccessResolver(
	userRepo repositories.UserRepository,
	permRepo repositories.PermissionRepository,
	permCache *cache.PermissionCache,
	policy *accesspolicy.Policy,
	logger *slog.Logger,
) *AccessResolver {
	return &AccessResolver{
		userRepo:  userRepo,
		permRepo:  permRepo,
		permCache: permCache,
		policy:    policy,
		logger:    logger,
	}
}

// CanReadFolder resolves read access to a folder. A nil error is a grant.
func (r *AccessResolver) CanReadFolder(ctx context.Context, ident *models.Identity, folder *models.Folder, ref models.FolderRef) error {
	if folder.IsPublic {
		return nil
	}
	if ident == nil {
		return domain.ErrUnauthenticated
	}
	if folder.OwnerID == ident.UserID {
		return nil
	}
	if ident.Role == models.RoleAdmin {
		return nil
	}
	if ref.IsVirtualRoot() {
		// A virtual root is only ever addressable by its own user; the
		// owner check above already granted that case.
		return fmt.Errorf("virtual root of another user: %w", domain.ErrForbidden)
	}

	if ok, err := r.lateralVisible(ctx, ident, folder.OwnerID); err != nil {
		return err
	} else if ok {
		return nil
	}

	level, err := r.grantLevel(ctx, ref, ident.UserID)
	if err != nil {
		return err
	}
	if models.AllowsRead(level) {
		return nil
	}

	return fmt.Errorf("folder %s: %w", ref.CacheKey(), domain.ErrForbidden)
}

// CanWriteFolder resolves write access (creating children) to a folder.
// Public visibility and lateral visibility never confer writes.
func (r *AccessResolver) CanWriteFolder(ctx context.Context, ident *models.Identity, folder *models.Folder, ref models.FolderRef) error {
	if ident == nil {
		return domain.ErrUnauthenticated
	}
	if folder.OwnerID == ident.UserID {
		return nil
	}
	if ident.Role == models.RoleAdmin {
		return nil
	}
	if ref.IsVirtualRoot() {
		return fmt.Errorf("virtual root of another user: %w", domain.ErrForbidden)
	}

	level, err := r.grantLevel(ctx, ref, ident.UserID)
	if err != nil {
		return err
	}
	if models.AllowsWrite(level) {
		return nil
	}

	return fmt.Errorf("folder %s: %w", ref.CacheKey(), domain.ErrForbidden)
}

// CanReadFile resolves read access to a file. Files have no grants of
// their own; any grant on the containing folder confers read access.
func (r *AccessResolver) CanReadFile(ctx context.Context, ident *models.Identity, file *models.File) error {
	if file.IsPublic {
		return nil
	}
	if ident == nil {
		return domain.ErrUnauthenticated
	}
	if file.OwnerID == ident.UserID {
		return nil
	}
	if ident.Role == models.RoleAdmin {
		return nil
	}

	if ok, err := r.lateralVisible(ctx, ident, file.OwnerID); err != nil {
		return err
	} else if ok {
		return nil
	}

	// Files in a virtual root belong to exactly one user, handled above.
	if file.FolderID != nil {
		level, err := r.grantLevel(ctx, models.RealFolder(*file.FolderID), ident.UserID)
		if err != nil {
			return err
		}
		if models.AllowsRead(level) {
			return nil
		}
	}

	return fmt.Errorf("file %s: %w", file.ID, domain.ErrForbidden)
}

// lateralVisible evaluates the role-lateral rule with a single lookup of the
// owner's role. A missing owner row means the rule simply does not apply;
// any other store error fails closed.
func (r *AccessResolver) lateralVisible(ctx context.Context, ident *models.Identity, ownerID string) (bool, error) {
	if !r.policy.HasLateralAccess(ident.Role) {
		return false, nil
	}

	ownerRole, err := r.userRepo.GetRole(ctx, ownerID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return false, nil
		}
		r.logger.Warn("owner role lookup failed, failing closed", "owner", ownerID, "error", err)
		return false, fmt.Errorf("resolve owner role: %w", domain.ErrForbidden)
	}

	return r.policy.CanView(ident.Role, ownerRole), nil
}

// grantLevel resolves the explicit grant level for (ref, user), cache first.
// The cache stores a no-grant marker so "checked, ungranted" does not hit
// the grant table again; read-through population is best effort.
func (r *AccessResolver) grantLevel(ctx context.Context, ref models.FolderRef, userID string) (string, error) {
	if level, found := r.permCache.Get(ctx, ref, userID); found {
		return level, nil
	}

	level, err := r.permRepo.GetLevel(ctx, ref.ID, userID)
	if err != nil {
		r.logger.Warn("grant lookup failed, failing closed", "folder", ref.ID, "user", userID, "error", err)
		return "", fmt.Errorf("resolve grant: %w", domain.ErrForbidden)
	}

	r.permCache.Put(ctx, ref, userID, level)
	return level, nil
}
