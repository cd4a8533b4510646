package repositories

import (
	"context"

	"github.com/singulaarityy/Ferrum-Store/internal/domain/models"
)

// UserRepository defines data access operations for users. The access
// resolver only ever needs GetRole; the full records serve registration
// and login.
type UserRepository interface {
	// Create inserts a new user.
	Create(ctx context.Context, user *models.User) error

	// GetByID retrieves a user by id.
	GetByID(ctx context.Context, id string) (*models.User, error)

	// GetByEmail retrieves a user by email.
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// GetRole returns the role of a user by id.
	GetRole(ctx context.Context, id string) (string, error)
}
