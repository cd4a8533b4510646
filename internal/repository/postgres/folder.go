package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/singulaarityy/Ferrum-Store/internal/domain"
	"github.com/singulaarityy/Ferrum-Store/internal/domain/models"
	"github.com/singulaarityy/Ferrum-Store/internal/domain/repositories"
)

// PostgresFolderRepository implements the FolderRepository interface.
type PostgresFolderRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewFolderRepository creates a new folder repository.
func NewFolderRepository(config *RepositoryConfig) repositories.FolderRepository {
	return &PostgresFolderRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Create inserts a new folder row.
func (r *PostgresFolderRepository) Create(ctx context.Context, folder *models.Folder) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, name, parent_id, owner_id, is_public)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`, r.tables.Folders)

	exec := GetExecutor(ctx, r.pool)
	err := exec.QueryRow(ctx, query,
		folder.ID,
		folder.Name,
		folder.ParentID,
		folder.OwnerID,
		folder.IsPublic,
	).Scan(&folder.CreatedAt)

	if err != nil {
		if isPgDuplicateError(err) {
			return fmt.Errorf("folder %s: %w", folder.ID, domain.ErrConflict)
		}
		if isPgForeignKeyError(err) {
			// Parent vanished between the caller's check and the insert.
			return fmt.Errorf("parent folder: %w", domain.ErrNotFound)
		}
		return fmt.Errorf("create folder: %w", err)
	}

	return nil
}

// GetByID retrieves a folder by id.
func (r *PostgresFolderRepository) GetByID(ctx context.Context, id string) (*models.Folder, error) {
	query := fmt.Sprintf(`
		SELECT id, name, parent_id, owner_id, is_public, created_at
		FROM %s
		WHERE id = $1
	`, r.tables.Folders)

	var folder models.Folder
	exec := GetExecutor(ctx, r.pool)
	err := exec.QueryRow(ctx, query, id).Scan(
		&folder.ID,
		&folder.Name,
		&folder.ParentID,
		&folder.OwnerID,
		&folder.IsPublic,
		&folder.CreatedAt,
	)

	if err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get folder: %w", err)
	}

	return &folder, nil
}

// ListChildren lists immediate child folders of a persisted folder, oldest
// first so the order matches the cache's creation-time scoring.
func (r *PostgresFolderRepository) ListChildren(ctx context.Context, parentID string) ([]models.Folder, error) {
	query := fmt.Sprintf(`
		SELECT id, name, parent_id, owner_id, is_public, created_at
		FROM %s
		WHERE parent_id = $1
		ORDER BY created_at ASC
	`, r.tables.Folders)

	return r.list(ctx, query, parentID)
}

// ListRootOwnedBy lists top-level folders owned by a user.
func (r *PostgresFolderRepository) ListRootOwnedBy(ctx context.Context, ownerID string) ([]models.Folder, error) {
	query := fmt.Sprintf(`
		SELECT id, name, parent_id, owner_id, is_public, created_at
		FROM %s
		WHERE parent_id IS NULL AND owner_id = $1
		ORDER BY created_at ASC
	`, r.tables.Folders)

	return r.list(ctx, query, ownerID)
}

func (r *PostgresFolderRepository) list(ctx context.Context, query string, arg interface{}) ([]models.Folder, error) {
	exec := GetExecutor(ctx, r.pool)
	rows, err := exec.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("list folders: %w", err)
	}
	defer rows.Close()

	var folders []models.Folder
	for rows.Next() {
		var folder models.Folder
		err := rows.Scan(
			&folder.ID,
			&folder.Name,
			&folder.ParentID,
			&folder.OwnerID,
			&folder.IsPublic,
			&folder.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan folder: %w", err)
		}
		folders = append(folders, folder)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate folders: %w", err)
	}

	return folders, nil
}
