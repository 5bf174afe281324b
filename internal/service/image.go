package service

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"clipnest/internal/config"
	"clipnest/internal/domain"
	"clipnest/internal/domain/models"
	"clipnest/internal/domain/repositories"
	"clipnest/internal/domain/services"
	"clipnest/internal/imagetype"
	"clipnest/internal/storage"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

type imageService struct {
	imageRepo      repositories.ImageRepository
	folderRepo     repositories.FolderRepository
	txManager      repositories.TransactionManager
	authorizer     services.ResourceAuthorizer
	objects        services.ObjectStore
	types          *imagetype.Registry
	maxUploadBytes int64
	timeout        time.Duration
	logger         *slog.Logger
}

// NewImageService creates a new image service
func NewImageService(
	imageRepo repositories.ImageRepository,
	folderRepo repositories.FolderRepository,
	txManager repositories.TransactionManager,
	authorizer services.ResourceAuthorizer,
	objects services.ObjectStore,
	types *imagetype.Registry,
	maxUploadBytes int64,
	timeout time.Duration,
	logger *slog.Logger,
) services.ImageService {
	if maxUploadBytes <= 0 {
		maxUploadBytes = config.DefaultMaxUploadBytes
	}
	return &imageService{
		imageRepo:      imageRepo,
		folderRepo:     folderRepo,
		txManager:      txManager,
		authorizer:     authorizer,
		objects:        objects,
		types:          types,
		maxUploadBytes: maxUploadBytes,
		timeout:        timeout,
		logger:         logger,
	}
}

// UploadImage stores the bytes, then records the image and bumps its
// folder's count in one transaction.
func (s *imageService) UploadImage(ctx context.Context, req *services.UploadImageRequest) (*models.Image, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := s.validateUploadRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	contentType, ok := s.types.Detect(req.Data)
	if !ok {
		return nil, fmt.Errorf("%w: unsupported image type %s", domain.ErrValidation, contentType)
	}

	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	req.FolderID = normalizeOptionalID(req.FolderID)
	if req.FolderID != nil {
		if err := s.checkFolder(ctx, req.UserID, *req.FolderID); err != nil {
			return nil, err
		}
	}

	key := storage.NewObjectKey(req.UserID, s.objectFilename(req, contentType))
	locator, err := s.objects.Put(ctx, key, bytes.NewReader(req.Data), int64(len(req.Data)), contentType)
	if err != nil {
		return nil, domain.Unavailable("store image", fmt.Errorf("store image: %w", err))
	}

	image := &models.Image{
		OwnerID:     req.UserID,
		FolderID:    req.FolderID,
		Name:        req.Name,
		Locator:     locator,
		ContentType: contentType,
		Size:        int64(len(req.Data)),
		CreatedAt:   time.Now(),
	}

	err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if err := s.imageRepo.Create(txCtx, image); err != nil {
			return err
		}
		if image.FolderID != nil {
			return s.folderRepo.IncrementFileCount(txCtx, *image.FolderID, 1)
		}
		return nil
	})
	if err != nil {
		s.logger.Warn("orphaned object",
			"locator", locator,
			"owner_id", req.UserID,
			"error", err,
		)
		return nil, err
	}

	s.logger.Info("image uploaded",
		"id", image.ID,
		"name", image.Name,
		"owner_id", image.OwnerID,
		"folder_id", image.FolderID,
		"content_type", image.ContentType,
		"size", image.Size,
	)

	return image, nil
}

// ListImages lists the caller's images; a non-nil folderID must name one of
// the caller's folders.
func (s *imageService) ListImages(ctx context.Context, userID string, folderID *string) ([]models.Image, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	folderID = normalizeOptionalID(folderID)
	if folderID != nil {
		if err := s.checkFolder(ctx, userID, *folderID); err != nil {
			return nil, err
		}
	}

	return s.imageRepo.ListByOwner(ctx, userID, folderID)
}

// SearchImages lists the caller's images whose name contains query,
// ignoring case. An empty query lists everything.
func (s *imageService) SearchImages(ctx context.Context, userID, query string) ([]models.Image, error) {
	if query == "" {
		return s.ListImages(ctx, userID, nil)
	}
	if !isStorableText(query) {
		// no stored name can contain it
		return []models.Image{}, nil
	}

	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	return s.imageRepo.SearchByName(ctx, userID, query)
}

// DeleteImage deletes one of the caller's images and decrements its folder's count
func (s *imageService) DeleteImage(ctx context.Context, userID, imageID string) error {
	if err := parseID("image", imageID); err != nil {
		return err
	}

	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.authorizer.CanAccessImage(ctx, userID, imageID); err != nil {
		return err
	}

	var removed *models.Image
	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		image, err := s.imageRepo.Delete(txCtx, imageID, userID)
		if err != nil {
			return err
		}
		removed = image

		if image.FolderID != nil {
			return s.folderRepo.IncrementFileCount(txCtx, *image.FolderID, -1)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("image deleted",
		"id", removed.ID,
		"owner_id", userID,
		"folder_id", removed.FolderID,
	)

	removeObjects(ctx, s.objects, s.logger, []string{removed.Locator})
	return nil
}

// checkFolder requires folderID to name a folder owned by userID
func (s *imageService) checkFolder(ctx context.Context, userID, folderID string) error {
	if err := parseID("folder", folderID); err != nil {
		return err
	}
	if _, err := s.folderRepo.GetByID(ctx, folderID, userID); err != nil {
		return fmt.Errorf("folder: %w", err)
	}
	return nil
}

// objectFilename picks the stored filename, making its extension agree
// with the sniffed content type.
func (s *imageService) objectFilename(req *services.UploadImageRequest, contentType string) string {
	filename := req.Filename
	if filename == "" {
		filename = req.Name
	}
	if s.types.MatchesExtension(contentType, filename) {
		return filename
	}
	return strings.TrimSuffix(filename, filepath.Ext(filename)) + s.types.Extension(contentType)
}

// validateUploadRequest validates image upload request
func (s *imageService) validateUploadRequest(req *services.UploadImageRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.UserID, validation.Required),
		validation.Field(&req.Name,
			validation.Required.Error("image name is required"),
			validation.RuneLength(1, config.MaxImageNameLength),
			validation.By(checkStorableText),
		),
		validation.Field(&req.Data,
			validation.Required.Error("image file is required"),
			validation.By(s.checkSize),
		),
	)
}

func (s *imageService) checkSize(value any) error {
	data, _ := value.([]byte)
	if int64(len(data)) > s.maxUploadBytes {
		return fmt.Errorf("image exceeds %d bytes", s.maxUploadBytes)
	}
	return nil
}
