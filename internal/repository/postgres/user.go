package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/singulaarityy/Ferrum-Store/internal/domain"
	"github.com/singulaarityy/Ferrum-Store/internal/domain/models"
	"github.com/singulaarityy/Ferrum-Store/internal/domain/repositories"
)

// PostgresUserRepository implements the UserRepository interface.
type PostgresUserRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewUserRepository creates a new user repository.
func NewUserRepository(config *RepositoryConfig) repositories.UserRepository {
	return &PostgresUserRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Create inserts a new user.
func (r *PostgresUserRepository) Create(ctx context.Context, user *models.User) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, name, email, password_hash, role)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`, r.tables.Users)

	exec := GetExecutor(ctx, r.pool)
	err := exec.QueryRow(ctx, query,
		user.ID,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.Role,
	).Scan(&user.CreatedAt)

	if err != nil {
		if isPgDuplicateError(err) {
			return fmt.Errorf("user %s: %w", user.Email, domain.ErrConflict)
		}
		return fmt.Errorf("create user: %w", err)
	}

	return nil
}

// GetByID retrieves a user by id.
func (r *PostgresUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := fmt.Sprintf(`
		SELECT id, name, email, password_hash, role, created_at
		FROM %s
		WHERE id = $1
	`, r.tables.Users)

	return r.get(ctx, query, id)
}

// GetByEmail retrieves a user by email.
func (r *PostgresUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := fmt.Sprintf(`
		SELECT id, name, email, password_hash, role, created_at
		FROM %s
		WHERE email = $1
	`, r.tables.Users)

	return r.get(ctx, query, email)
}

// GetRole returns just the role column for a user. The access resolver's
// role-lateral rule is a single lookup on this.
func (r *PostgresUserRepository) GetRole(ctx context.Context, id string) (string, error) {
	query := fmt.Sprintf(`
		SELECT role FROM %s WHERE id = $1
	`, r.tables.Users)

	var role string
	exec := GetExecutor(ctx, r.pool)
	err := exec.QueryRow(ctx, query, id).Scan(&role)
	if err != nil {
		if isPgNoRowsError(err) {
			return "", fmt.Errorf("user %s: %w", id, domain.ErrNotFound)
		}
		return "", fmt.Errorf("get user role: %w", err)
	}

	return role, nil
}

func (r *PostgresUserRepository) get(ctx context.Context, query string, arg interface{}) (*models.User, error) {
	var user models.User
	exec := GetExecutor(ctx, r.pool)
	err := exec.QueryRow(ctx, query, arg).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.CreatedAt,
	)

	if err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("user: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	return &user, nil
}
