package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/singulaarityy/Ferrum-Store/internal/cache"
	"github.com/singulaarityy/Ferrum-Store/internal/config"
	"github.com/singulaarityy/Ferrum-Store/internal/domain"
	"github.com/singulaarityy/Ferrum-Store/internal/domain/models"
	"github.com/singulaarityy/Ferrum-Store/internal/domain/repositories"
)

const (
	uploadURLTTL   = time.Hour
	downloadURLTTL = 5 * time.Minute
)

// ObjectPresigner is the contract the file service needs from the object
// store: time-limited URLs, nothing else.
type ObjectPresigner interface {
	PresignPut(ctx context.Context, key, contentType string, ttl time.Duration) (string, error)
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error)
}

// FileService owns upload registration and download URL issuance. Bytes move
// directly between the client and the object store; this service only writes
// metadata and keeps the listing cache coherent.
type FileService struct {
	fileRepo   repositories.FileRepository
	folderRepo repositories.FolderRepository
	resolver   *AccessResolver
	listings   *cache.ListingCache
	usage      *cache.UsageCounter
	presigner  ObjectPresigner
	logger     *slog.Logger
}

// NewFileService creates a new file service.
func NewFileService(
	fileRepo repositories.FileRepository,
	folderRepo repositories.FolderRepository,
	resolver *AccessResolver,
	listings *cache.ListingCache,
	usage *cache.UsageCounter,
	presigner ObjectPresigner,
	logger *slog.Logger,
) *FileService {
	return &FileService{
		fileRepo:   fileRepo,
		folderRepo: folderRepo,
		resolver:   resolver,
		listings:   listings,
		usage:      usage,
		presigner:  presigner,
		logger:     logger,
	}
}

// Upload registers file metadata and returns a presigned PUT URL. The insert
// is optimistic: the row exists before the client uploads a byte. After the
// commit the parent listing cache is invalidated and the owner's usage
// counter bumped.
func (s *FileService) Upload(ctx context.Context, ident *models.Identity, req *models.UploadFileRequest) (*models.UploadFileResponse, error) {
	if ident == nil {
		return nil, domain.ErrUnauthenticated
	}
	if err := validateUpload(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	parent, parentRef, dbFolderID, err := s.uploadTarget(ctx, ident, req.FolderID)
	if err != nil {
		return nil, err
	}
	if err := s.resolver.CanWriteFolder(ctx, ident, parent, parentRef); err != nil {
		return nil, err
	}

	fileID := uuid.NewString()
	storageKey := parentRef.CacheKey() + "/" + fileID

	presignedURL, err := s.presigner.PresignPut(ctx, storageKey, req.MimeType, uploadURLTTL)
	if err != nil {
		return nil, err
	}

	file := &models.File{
		ID:         fileID,
		Name:       req.Name,
		FolderID:   dbFolderID,
		OwnerID:    ident.UserID,
		StorageKey: storageKey,
		Size:       req.Size,
		MimeType:   req.MimeType,
		IsPublic:   false,
	}
	if err := s.fileRepo.Create(ctx, file); err != nil {
		return nil, err
	}

	s.usage.Add(ctx, ident.UserID, req.Size)
	s.listings.Invalidate(ctx, parentRef)

	s.logger.Info("file registered",
		"file_id", fileID,
		"parent", parentRef.CacheKey(),
		"owner", ident.UserID,
		"size", req.Size,
	)
	return &models.UploadFileResponse{
		FileID:       fileID,
		PresignedURL: presignedURL,
		StorageKey:   storageKey,
	}, nil
}

// Download resolves access to a file and returns a short-lived GET URL.
func (s *FileService) Download(ctx context.Context, ident *models.Identity, fileID string) (*models.DownloadFileResponse, error) {
	file, err := s.fileRepo.GetByID(ctx, fileID)
	if err != nil {
		return nil, err
	}

	if err := s.resolver.CanReadFile(ctx, ident, file); err != nil {
		return nil, err
	}

	url, err := s.presigner.PresignGet(ctx, file.StorageKey, downloadURLTTL)
	if err != nil {
		return nil, err
	}

	return &models.DownloadFileResponse{URL: url}, nil
}

// uploadTarget mirrors FolderService.parentTarget for the file write path.
func (s *FileService) uploadTarget(ctx context.Context, ident *models.Identity, folderID *string) (*models.Folder, models.FolderRef, *string, error) {
	if folderID == nil || *folderID == "" || *folderID == models.VirtualRootID {
		return models.SyntheticRoot(ident.UserID), models.VirtualRoot(ident.UserID), nil, nil
	}

	parent, err := s.folderRepo.GetByID(ctx, *folderID)
	if err != nil {
		return nil, models.FolderRef{}, nil, err
	}
	return parent, models.RealFolder(parent.ID), &parent.ID, nil
}

func validateUpload(req *models.UploadFileRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Name, validation.Required, validation.Length(1, config.MaxNameLength)),
		validation.Field(&req.Size, validation.Min(0)),
		validation.Field(&req.MimeType, validation.Length(0, config.MaxMimeTypeLength)),
	)
}
