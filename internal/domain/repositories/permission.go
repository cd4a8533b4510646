package repositories

import (
	"context"

	"github.com/singulaarityy/Ferrum-Store/internal/domain/models"
)

// PermissionRepository defines data access operations for explicit folder
// grants.
type PermissionRepository interface {
	// Create inserts a new grant.
	Create(ctx context.Context, perm *models.FolderPermission) error

	// GetLevel returns the grant level for (folderID, userID), or "" when no
	// grant exists. Absence is not an error; callers fold it into the
	// resolver's decision.
	GetLevel(ctx context.Context, folderID, userID string) (string, error)

	// Delete removes a grant.
	Delete(ctx context.Context, folderID, userID string) error
}
