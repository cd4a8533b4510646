package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/singulaarityy/Ferrum-Store/internal/cache"
	"github.com/singulaarityy/Ferrum-Store/internal/domain"
	"github.com/singulaarityy/Ferrum-Store/internal/domain/models"
	"github.com/singulaarityy/Ferrum-Store/internal/domain/repositories"
)

// ListingService answers "what can this caller see inside this folder".
// Per request: auth check, then cache lookup, then store fetch with
// best-effort cache population on miss.
type ListingService struct {
	folderRepo repositories.FolderRepository
	fileRepo   repositories.FileRepository
	resolver   *AccessResolver
	listings   *cache.ListingCache
	logger     *slog.Logger
}

// NewListingService creates a new listing service.
func NewListingService(
	folderRepo repositories.FolderRepository,
	fileRepo repositories.FileRepository,
	resolver *AccessResolver,
	listings *cache.ListingCache,
	logger *slog.Logger,
) *ListingService {
	return &ListingService{
		folderRepo: folderRepo,
		fileRepo:   fileRepo,
		resolver:   resolver,
		listings:   listings,
		logger:     logger,
	}
}

// ListFolder returns a folder and its immediate children for the caller.
// folderID may be the literal "root", which addresses the caller's own
// virtual root and never touches the folder table for its own identity.
func (s *ListingService) ListFolder(ctx context.Context, ident *models.Identity, folderID string) (*models.FolderListing, error) {
	folder, ref, err := s.resolveTarget(ctx, ident, folderID)
	if err != nil {
		return nil, err
	}

	if err := s.resolver.CanReadFolder(ctx, ident, folder, ref); err != nil {
		return nil, err
	}

	subfolders, err := s.subfolders(ctx, ref)
	if err != nil {
		return nil, err
	}

	files, err := s.files(ctx, ref)
	if err != nil {
		return nil, err
	}

	return &models.FolderListing{
		Folder:     folder,
		Subfolders: subfolders,
		Files:      files,
	}, nil
}

// resolveTarget maps a request folder id onto (folder, ref). Virtual roots
// are synthesized; anything else must exist in the store.
func (s *ListingService) resolveTarget(ctx context.Context, ident *models.Identity, folderID string) (*models.Folder, models.FolderRef, error) {
	if folderID == models.VirtualRootID {
		if ident == nil {
			// There is no such thing as an anonymous root.
			return nil, models.FolderRef{}, domain.ErrUnauthenticated
		}
		return models.SyntheticRoot(ident.UserID), models.VirtualRoot(ident.UserID), nil
	}

	folder, err := s.folderRepo.GetByID(ctx, folderID)
	if err != nil {
		return nil, models.FolderRef{}, err
	}
	return folder, models.RealFolder(folderID), nil
}

func (s *ListingService) subfolders(ctx context.Context, ref models.FolderRef) ([]models.Folder, error) {
	if cached, ok := s.listings.GetSubfolders(ctx, ref); ok {
		return cached, nil
	}

	var (
		subfolders []models.Folder
		err        error
	)
	if ref.IsVirtualRoot() {
		subfolders, err = s.folderRepo.ListRootOwnedBy(ctx, ref.OwnerID)
	} else {
		subfolders, err = s.folderRepo.ListChildren(ctx, ref.ID)
	}
	if err != nil {
		return nil, fmt.Errorf("fetch subfolders: %w", err)
	}

	s.listings.PutSubfolders(ctx, ref, subfolders)
	if subfolders == nil {
		subfolders = []models.Folder{}
	}
	return subfolders, nil
}

func (s *ListingService) files(ctx context.Context, ref models.FolderRef) ([]models.File, error) {
	if cached, ok := s.listings.GetFiles(ctx, ref); ok {
		return cached, nil
	}

	var (
		files []models.File
		err   error
	)
	if ref.IsVirtualRoot() {
		files, err = s.fileRepo.ListRootOwnedBy(ctx, ref.OwnerID)
	} else {
		files, err = s.fileRepo.ListInFolder(ctx, ref.ID)
	}
	if err != nil {
		return nil, fmt.Errorf("fetch files: %w", err)
	}

	s.listings.PutFiles(ctx, ref, files)
	if files == nil {
		files = []models.File{}
	}
	return files, nil
}
