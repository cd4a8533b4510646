package repositories

import (
	"context"

	"github.com/singulaarityy/Ferrum-Store/internal/domain/models"
)

// FileRepository defines data access operations for file metadata.
// File bytes never pass through here; StorageKey is the link to the
// object store.
type FileRepository interface {
	// Create inserts new file metadata.
	Create(ctx context.Context, file *models.File) error

	// GetByID retrieves file metadata by id.
	GetByID(ctx context.Context, id string) (*models.File, error)

	// ListInFolder lists files whose folder_id equals folderID.
	ListInFolder(ctx context.Context, folderID string) ([]models.File, error)

	// ListRootOwnedBy lists files with a NULL folder owned by a user.
	ListRootOwnedBy(ctx context.Context, ownerID string) ([]models.File, error)
}
