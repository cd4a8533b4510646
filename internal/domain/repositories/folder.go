package repositories

import (
	"context"

	"github.com/singulaarityy/Ferrum-Store/internal/domain/models"
)

// FolderRepository defines data access operations for folders.
type FolderRepository interface {
	// Create inserts a new folder. The parent link is validated by the
	// caller; the store's foreign key is the last line of defense.
	Create(ctx context.Context, folder *models.Folder) error

	// GetByID retrieves a folder by id.
	GetByID(ctx context.Context, id string) (*models.Folder, error)

	// ListChildren lists immediate child folders of a persisted folder.
	ListChildren(ctx context.Context, parentID string) ([]models.Folder, error)

	// ListRootOwnedBy lists top-level folders (NULL parent) owned by a user.
	// This is the children query for a virtual root.
	ListRootOwnedBy(ctx context.Context, ownerID string) ([]models.Folder, error)
}
