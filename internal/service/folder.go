package service

import (
	"context"
	"fmt"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/singulaarityy/Ferrum-Store/internal/cache"
	"github.com/singulaarityy/Ferrum-Store/internal/config"
	"github.com/singulaarityy/Ferrum-Store/internal/domain"
	"github.com/singulaarityy/Ferrum-Store/internal/domain/models"
	"github.com/singulaarityy/Ferrum-Store/internal/domain/repositories"
)

// FolderService owns the folder write path: create, then invalidate the
// parent's listing cache.
type FolderService struct {
	folderRepo repositories.FolderRepository
	permRepo   repositories.PermissionRepository
	userRepo   repositories.UserRepository
	txManager  repositories.TransactionManager
	resolver   *AccessResolver
	listings   *cache.ListingCache
	permCache  *cache.PermissionCache
	logger     *slog.Logger
}

// NewFolderService creates a new folder service.
func NewFolderService(
	folderRepo repositories.FolderRepository,
	permRepo repositories.PermissionRepository,
	userRepo repositories.UserRepository,
	txManager repositories.TransactionManager,
	resolver *AccessResolver,
	listings *cache.ListingCache,
	permCache *cache.PermissionCache,
	logger *slog.Logger,
) *FolderService {
	return &FolderService{
		folderRepo: folderRepo,
		permRepo:   permRepo,
		userRepo:   userRepo,
		txManager:  txManager,
		resolver:   resolver,
		listings:   listings,
		permCache:  permCache,
		logger:     logger,
	}
}

// parentTarget normalizes a request parent id ("root", "" and nil all mean
// the caller's virtual root) into the parent folder, its ref, and the value
// stored in parent_id.
func (s *FolderService) parentTarget(ctx context.Context, ident *models.Identity, parentID *string) (*models.Folder, models.FolderRef, *string, error) {
	if parentID == nil || *parentID == "" || *parentID == models.VirtualRootID {
		return models.SyntheticRoot(ident.UserID), models.VirtualRoot(ident.UserID), nil, nil
	}

	parent, err := s.folderRepo.GetByID(ctx, *parentID)
	if err != nil {
		// A dangling parent rejects the write; nothing is applied.
		return nil, models.FolderRef{}, nil, err
	}
	return parent, models.RealFolder(parent.ID), &parent.ID, nil
}

// CreateFolder creates a folder under the given parent after verifying the
// parent exists and the caller may write into it, then invalidates the
// parent's listing cache.
func (s *FolderService) CreateFolder(ctx context.Context, ident *models.Identity, req *models.CreateFolderRequest) (*models.Folder, error) {
	if ident == nil {
		return nil, domain.ErrUnauthenticated
	}
	if err := validateCreateFolder(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	parent, parentRef, dbParentID, err := s.parentTarget(ctx, ident, req.ParentID)
	if err != nil {
		return nil, err
	}
	if err := s.resolver.CanWriteFolder(ctx, ident, parent, parentRef); err != nil {
		return nil, err
	}

	isPublic := false
	if req.IsPublic != nil {
		isPublic = *req.IsPublic
	}

	folder := &models.Folder{
		ID:       uuid.NewString(),
		Name:     req.Name,
		ParentID: dbParentID,
		OwnerID:  ident.UserID,
		IsPublic: isPublic,
	}
	if err := s.folderRepo.Create(ctx, folder); err != nil {
		return nil, err
	}

	s.listings.Invalidate(ctx, parentRef)

	s.logger.Info("folder created",
		"folder_id", folder.ID,
		"parent", parentRef.CacheKey(),
		"owner", ident.UserID,
	)
	return folder, nil
}

// ShareFolder records an explicit grant on a folder. Only the owner or an
// admin may share. The permission cache entry for the grantee is refreshed
// immediately so a cached no-grant marker does not mask the new grant.
func (s *FolderService) ShareFolder(ctx context.Context, ident *models.Identity, folderID string, req *models.ShareFolderRequest) (*models.FolderPermission, error) {
	if ident == nil {
		return nil, domain.ErrUnauthenticated
	}
	if err := validateShareFolder(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	folder, err := s.folderRepo.GetByID(ctx, folderID)
	if err != nil {
		return nil, err
	}
	if folder.OwnerID != ident.UserID && ident.Role != models.RoleAdmin {
		return nil, fmt.Errorf("share folder %s: %w", folderID, domain.ErrForbidden)
	}

	perm := &models.FolderPermission{
		ID:         uuid.NewString(),
		FolderID:   folderID,
		UserID:     req.UserID,
		Permission: req.Permission,
	}

	// The grantee must still exist when the grant commits.
	err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if _, err := s.userRepo.GetByID(txCtx, req.UserID); err != nil {
			return err
		}
		return s.permRepo.Create(txCtx, perm)
	})
	if err != nil {
		return nil, err
	}

	s.permCache.Put(ctx, models.RealFolder(folderID), req.UserID, req.Permission)

	s.logger.Info("folder shared",
		"folder_id", folderID,
		"grantee", req.UserID,
		"level", req.Permission,
	)
	return perm, nil
}

func validateCreateFolder(req *models.CreateFolderRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Name, validation.Required, validation.Length(1, config.MaxNameLength)),
	)
}

func validateShareFolder(req *models.ShareFolderRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.UserID, validation.Required),
		validation.Field(&req.Permission, validation.Required,
			validation.In(models.PermissionViewer, models.PermissionEditor)),
	)
}
