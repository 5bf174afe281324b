package auth

import (
	"context"
	"fmt"

	"clipnest/internal/domain"
	"clipnest/internal/domain/repositories"
)

// OwnerBasedAuthorizer implements ResourceAuthorizer using ownership checks.
// A user can act on a folder or image only if they own it.
type OwnerBasedAuthorizer struct {
	folderRepo repositories.FolderRepository
	imageRepo  repositories.ImageRepository
}

// NewOwnerBasedAuthorizer creates a new ownership-based authorizer
func NewOwnerBasedAuthorizer(
	folderRepo repositories.FolderRepository,
	imageRepo repositories.ImageRepository,
) *OwnerBasedAuthorizer {
	return &OwnerBasedAuthorizer{
		folderRepo: folderRepo,
		imageRepo:  imageRepo,
	}
}

// CanAccessFolder checks if user owns the folder
func (a *OwnerBasedAuthorizer) CanAccessFolder(ctx context.Context, userID, folderID string) error {
	// Get folder by UUID only (no owner scoping)
	folder, err := a.folderRepo.GetByIDOnly(ctx, folderID)
	if err != nil {
		return fmt.Errorf("get folder for auth: %w", err)
	}

	if folder.OwnerID != userID {
		return fmt.Errorf("access denied to folder %s: %w", folderID, domain.ErrForbidden)
	}
	return nil
}

// CanAccessImage checks if user owns the image
func (a *OwnerBasedAuthorizer) CanAccessImage(ctx context.Context, userID, imageID string) error {
	image, err := a.imageRepo.GetByIDOnly(ctx, imageID)
	if err != nil {
		return fmt.Errorf("get image for auth: %w", err)
	}

	if image.OwnerID != userID {
		return fmt.Errorf("access denied to image %s: %w", imageID, domain.ErrForbidden)
	}
	return nil
}
