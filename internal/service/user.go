package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/singulaarityy/Ferrum-Store/internal/auth"
	"github.com/singulaarityy/Ferrum-Store/internal/cache"
	"github.com/singulaarityy/Ferrum-Store/internal/config"
	"github.com/singulaarityy/Ferrum-Store/internal/domain"
	"github.com/singulaarityy/Ferrum-Store/internal/domain/models"
	"github.com/singulaarityy/Ferrum-Store/internal/domain/repositories"
)

// UserService owns registration, login and the usage read path. Credential
// verification produces the opaque identity the rest of the system consumes.
type UserService struct {
	userRepo repositories.UserRepository
	issuer   auth.TokenIssuer
	usage    *cache.UsageCounter
	logger   *slog.Logger
}

// NewUserService creates a new user service.
func NewUserService(
	userRepo repositories.UserRepository,
	issuer auth.TokenIssuer,
	usage *cache.UsageCounter,
	logger *slog.Logger,
) *UserService {
	return &UserService{
		userRepo: userRepo,
		issuer:   issuer,
		usage:    usage,
		logger:   logger,
	}
}

// Register creates a new user. Role defaults to student.
func (s *UserService) Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error) {
	if err := validateRegister(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	role := models.RoleStudent
	if req.Role != nil && *req.Role != "" {
		role = *req.Role
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         role,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user registered", "user_id", user.ID, "role", role)
	return user, nil
}

// Login verifies credentials and issues a token. Unknown email and wrong
// password are indistinguishable to the caller.
func (s *UserService) Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error) {
	if err := validateLogin(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("invalid credentials: %w", domain.ErrUnauthenticated)
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return nil, fmt.Errorf("invalid credentials: %w", domain.ErrUnauthenticated)
	}

	token, err := s.issuer.IssueToken(user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	return &models.AuthResponse{Token: token, User: user}, nil
}

// Usage returns the caller's stored-bytes counter.
func (s *UserService) Usage(ctx context.Context, ident *models.Identity) (int64, error) {
	if ident == nil {
		return 0, domain.ErrUnauthenticated
	}
	return s.usage.Get(ctx, ident.UserID), nil
}

func validateRegister(req *models.RegisterRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Name, validation.Required, validation.Length(1, config.MaxNameLength)),
		validation.Field(&req.Email, validation.Required, is.Email),
		validation.Field(&req.Password, validation.Required,
			validation.Length(config.MinPasswordLength, config.MaxPasswordLength)),
		validation.Field(&req.Role, validation.In(
			models.RoleAdmin, models.RoleStaff, models.RoleStudent,
		)),
	)
}

func validateLogin(req *models.LoginRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Email, validation.Required, is.Email),
		validation.Field(&req.Password, validation.Required),
	)
}
