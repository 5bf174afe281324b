package repositories

import (
	"context"

	"clipnest/internal/domain/models"
)

// ImageRepository defines data access operations for image metadata
type ImageRepository interface {
	// Create inserts an image record and fills in ID and CreatedAt
	Create(ctx context.Context, image *models.Image) error

	// GetByIDOnly retrieves an image without owner scoping (for authorization)
	GetByIDOnly(ctx context.Context, id string) (*models.Image, error)

	// ListByOwner lists an owner's images, optionally restricted to one folder
	ListByOwner(ctx context.Context, ownerID string, folderID *string) ([]models.Image, error)

	// SearchByName lists an owner's images whose name contains query (case-insensitive)
	SearchByName(ctx context.Context, ownerID, query string) ([]models.Image, error)

	// Delete removes one image row and returns it, so callers can adjust its folder
	Delete(ctx context.Context, id, ownerID string) (*models.Image, error)

	// DeleteByFolder removes every image referencing folderID and returns the removed rows
	DeleteByFolder(ctx context.Context, folderID string) ([]models.Image, error)
}
