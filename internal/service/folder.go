package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"clipnest/internal/config"
	"clipnest/internal/domain"
	"clipnest/internal/domain/models"
	"clipnest/internal/domain/repositories"
	"clipnest/internal/domain/services"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

type folderService struct {
	folderRepo repositories.FolderRepository
	imageRepo  repositories.ImageRepository
	txManager  repositories.TransactionManager
	authorizer services.ResourceAuthorizer
	objects    services.ObjectStore
	timeout    time.Duration
	logger     *slog.Logger
}

// NewFolderService creates a new folder service.
// timeout bounds every operation's storage work (0 disables it).
func NewFolderService(
	folderRepo repositories.FolderRepository,
	imageRepo repositories.ImageRepository,
	txManager repositories.TransactionManager,
	authorizer services.ResourceAuthorizer,
	objects services.ObjectStore,
	timeout time.Duration,
	logger *slog.Logger,
) services.FolderService {
	return &folderService{
		folderRepo: folderRepo,
		imageRepo:  imageRepo,
		txManager:  txManager,
		authorizer: authorizer,
		objects:    objects,
		timeout:    timeout,
		logger:     logger,
	}
}

// CreateFolder creates an empty folder, optionally under one of the caller's folders
func (s *folderService) CreateFolder(ctx context.Context, req *services.CreateFolderRequest) (*models.Folder, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := s.validateCreateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	req.ParentID = normalizeOptionalID(req.ParentID)
	if req.ParentID != nil {
		if err := parseID("parent folder", *req.ParentID); err != nil {
			return nil, err
		}
		if _, err := s.folderRepo.GetByID(ctx, *req.ParentID, req.UserID); err != nil {
			return nil, fmt.Errorf("parent folder: %w", err)
		}
	}

	now := time.Now()
	folder := &models.Folder{
		OwnerID:   req.UserID,
		ParentID:  req.ParentID,
		Name:      req.Name,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.folderRepo.Create(ctx, folder); err != nil {
		return nil, err
	}

	s.logger.Info("folder created",
		"id", folder.ID,
		"name", folder.Name,
		"owner_id", folder.OwnerID,
		"parent_id", folder.ParentID,
	)

	return folder, nil
}

// GetFolder retrieves one of the caller's folders
func (s *folderService) GetFolder(ctx context.Context, userID, folderID string) (*models.Folder, error) {
	if err := parseID("folder", folderID); err != nil {
		return nil, err
	}

	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.authorizer.CanAccessFolder(ctx, userID, folderID); err != nil {
		return nil, err
	}

	return s.folderRepo.GetByID(ctx, folderID, userID)
}

// ListFolders lists the caller's folders in creation order
func (s *folderService) ListFolders(ctx context.Context, userID string) ([]models.Folder, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	return s.folderRepo.ListByOwner(ctx, userID)
}

// RenameFolder changes the name of one of the caller's folders
func (s *folderService) RenameFolder(ctx context.Context, userID, folderID string, req *services.RenameFolderRequest) (*models.Folder, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := s.validateRenameRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	if err := parseID("folder", folderID); err != nil {
		return nil, err
	}

	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.authorizer.CanAccessFolder(ctx, userID, folderID); err != nil {
		return nil, err
	}

	folder, err := s.folderRepo.GetByID(ctx, folderID, userID)
	if err != nil {
		return nil, err
	}

	oldName := folder.Name
	folder.Name = req.Name
	folder.UpdatedAt = time.Now()

	if err := s.folderRepo.Rename(ctx, folder); err != nil {
		return nil, err
	}

	s.logger.Info("folder renamed",
		"id", folder.ID,
		"old_name", oldName,
		"new_name", folder.Name,
	)

	return folder, nil
}

// DeleteFolder deletes a folder together with every image filed in it.
// The folder row is locked first, then image rows go, then the folder row,
// all in one transaction.
func (s *folderService) DeleteFolder(ctx context.Context, userID, folderID string) error {
	if err := parseID("folder", folderID); err != nil {
		return err
	}

	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.authorizer.CanAccessFolder(ctx, userID, folderID); err != nil {
		return err
	}

	var removed []models.Image
	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		// Uploads into the folder either commit before the lock and are
		// removed below, or fail their folder reference after the delete.
		if err := s.folderRepo.LockForUpdate(txCtx, folderID, userID); err != nil {
			return err
		}

		images, err := s.imageRepo.DeleteByFolder(txCtx, folderID)
		if err != nil {
			return fmt.Errorf("delete folder images: %w", err)
		}
		removed = images

		return s.folderRepo.Delete(txCtx, folderID, userID)
	})
	if err != nil {
		return err
	}

	s.logger.Info("folder deleted",
		"id", folderID,
		"owner_id", userID,
		"images_removed", len(removed),
	)

	locators := make([]string, 0, len(removed))
	for _, image := range removed {
		locators = append(locators, image.Locator)
	}
	removeObjects(ctx, s.objects, s.logger, locators)

	return nil
}

// validateCreateRequest validates folder creation request
func (s *folderService) validateCreateRequest(req *services.CreateFolderRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.UserID, validation.Required),
		validation.Field(&req.Name,
			validation.Required.Error("folder name is required"),
			validation.RuneLength(1, config.MaxFolderNameLength),
			validation.By(checkStorableText),
		),
	)
}

// validateRenameRequest validates folder rename request
func (s *folderService) validateRenameRequest(req *services.RenameFolderRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Name,
			validation.Required.Error("folder name is required"),
			validation.RuneLength(1, config.MaxFolderNameLength),
			validation.By(checkStorableText),
		),
	)
}
