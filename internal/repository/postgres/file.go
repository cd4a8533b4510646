package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/singulaarityy/Ferrum-Store/internal/domain"
	"github.com/singulaarityy/Ferrum-Store/internal/domain/models"
	"github.com/singulaarityy/Ferrum-Store/internal/domain/repositories"
)

// PostgresFileRepository implements the FileRepository interface.
type PostgresFileRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewFileRepository creates a new file metadata repository.
func NewFileRepository(config *RepositoryConfig) repositories.FileRepository {
	return &PostgresFileRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Create inserts new file metadata.
func (r *PostgresFileRepository) Create(ctx context.Context, file *models.File) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, name, folder_id, owner_id, storage_key, size, mime_type, is_public)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at
	`, r.tables.Files)

	exec := GetExecutor(ctx, r.pool)
	err := exec.QueryRow(ctx, query,
		file.ID,
		file.Name,
		file.FolderID,
		file.OwnerID,
		file.StorageKey,
		file.Size,
		file.MimeType,
		file.IsPublic,
	).Scan(&file.CreatedAt)

	if err != nil {
		if isPgDuplicateError(err) {
			return fmt.Errorf("file %s: %w", file.ID, domain.ErrConflict)
		}
		if isPgForeignKeyError(err) {
			return fmt.Errorf("folder for file %s: %w", file.ID, domain.ErrNotFound)
		}
		return fmt.Errorf("create file: %w", err)
	}

	return nil
}

// GetByID retrieves file metadata by id.
func (r *PostgresFileRepository) GetByID(ctx context.Context, id string) (*models.File, error) {
	query := fmt.Sprintf(`
		SELECT id, name, folder_id, owner_id, storage_key, size, mime_type, is_public, created_at
		FROM %s
		WHERE id = $1
	`, r.tables.Files)

	var file models.File
	exec := GetExecutor(ctx, r.pool)
	err := exec.QueryRow(ctx, query, id).Scan(
		&file.ID,
		&file.Name,
		&file.FolderID,
		&file.OwnerID,
		&file.StorageKey,
		&file.Size,
		&file.MimeType,
		&file.IsPublic,
		&file.CreatedAt,
	)

	if err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("file %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get file: %w", err)
	}

	return &file, nil
}

// ListInFolder lists files contained in a persisted folder, oldest first.
func (r *PostgresFileRepository) ListInFolder(ctx context.Context, folderID string) ([]models.File, error) {
	query := fmt.Sprintf(`
		SELECT id, name, folder_id, owner_id, storage_key, size, mime_type, is_public, created_at
		FROM %s
		WHERE folder_id = $1
		ORDER BY created_at ASC
	`, r.tables.Files)

	return r.list(ctx, query, folderID)
}

// ListRootOwnedBy lists files that live in a user's virtual root.
func (r *PostgresFileRepository) ListRootOwnedBy(ctx context.Context, ownerID string) ([]models.File, error) {
	query := fmt.Sprintf(`
		SELECT id, name, folder_id, owner_id, storage_key, size, mime_type, is_public, created_at
		FROM %s
		WHERE folder_id IS NULL AND owner_id = $1
		ORDER BY created_at ASC
	`, r.tables.Files)

	return r.list(ctx, query, ownerID)
}

func (r *PostgresFileRepository) list(ctx context.Context, query string, arg interface{}) ([]models.File, error) {
	exec := GetExecutor(ctx, r.pool)
	rows, err := exec.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	defer rows.Close()

	var files []models.File
	for rows.Next() {
		var file models.File
		err := rows.Scan(
			&file.ID,
			&file.Name,
			&file.FolderID,
			&file.OwnerID,
			&file.StorageKey,
			&file.Size,
			&file.MimeType,
			&file.IsPublic,
			&file.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan file: %w", err)
		}
		files = append(files, file)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate files: %w", err)
	}

	return files, nil
}
