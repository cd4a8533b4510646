package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/singulaarityy/Ferrum-Store/internal/domain"
	"github.com/singulaarityy/Ferrum-Store/internal/domain/models"
	"github.com/singulaarityy/Ferrum-Store/internal/domain/repositories"
)

// PostgresPermissionRepository implements the PermissionRepository interface.
type PostgresPermissionRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewPermissionRepository creates a new folder grant repository.
func NewPermissionRepository(config *RepositoryConfig) repositories.PermissionRepository {
	return &PostgresPermissionRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Create inserts a new grant.
func (r *PostgresPermissionRepository) Create(ctx context.Context, perm *models.FolderPermission) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, folder_id, user_id, permission)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`, r.tables.Permissions)

	exec := GetExecutor(ctx, r.pool)
	err := exec.QueryRow(ctx, query,
		perm.ID,
		perm.FolderID,
		perm.UserID,
		perm.Permission,
	).Scan(&perm.CreatedAt)

	if err != nil {
		if isPgDuplicateError(err) {
			return fmt.Errorf("grant on folder %s for user %s: %w", perm.FolderID, perm.UserID, domain.ErrConflict)
		}
		if isPgForeignKeyError(err) {
			return fmt.Errorf("grant target: %w", domain.ErrNotFound)
		}
		return fmt.Errorf("create grant: %w", err)
	}

	return nil
}

// GetLevel returns the grant level for (folderID, userID), or "" when absent.
func (r *PostgresPermissionRepository) GetLevel(ctx context.Context, folderID, userID string) (string, error) {
	query := fmt.Sprintf(`
		SELECT permission FROM %s
		WHERE folder_id = $1 AND user_id = $2
	`, r.tables.Permissions)

	var level string
	exec := GetExecutor(ctx, r.pool)
	err := exec.QueryRow(ctx, query, folderID, userID).Scan(&level)
	if err != nil {
		if isPgNoRowsError(err) {
			return "", nil
		}
		return "", fmt.Errorf("get grant: %w", err)
	}

	return level, nil
}

// Delete removes a grant.
func (r *PostgresPermissionRepository) Delete(ctx context.Context, folderID, userID string) error {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE folder_id = $1 AND user_id = $2
	`, r.tables.Permissions)

	exec := GetExecutor(ctx, r.pool)
	result, err := exec.Exec(ctx, query, folderID, userID)
	if err != nil {
		return fmt.Errorf("delete grant: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("grant on folder %s for user %s: %w", folderID, userID, domain.ErrNotFound)
	}

	return nil
}
