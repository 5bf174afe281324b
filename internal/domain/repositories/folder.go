package repositories

import (
	"context"

	"clipnest/internal/domain/models"
)

// FolderRepository defines data access operations for folders.
// Every method except GetByIDOnly is scoped by owner.
type FolderRepository interface {
	// Create inserts a folder and fills in ID and timestamps
	Create(ctx context.Context, folder *models.Folder) error

	// GetByID retrieves a folder owned by ownerID
	GetByID(ctx context.Context, id, ownerID string) (*models.Folder, error)

	// GetByIDOnly retrieves a folder without owner scoping (for authorization)
	GetByIDOnly(ctx context.Context, id string) (*models.Folder, error)

	// LockForUpdate locks the folder row for the rest of the transaction in
	// ctx, blocking concurrent image inserts that reference it
	LockForUpdate(ctx context.Context, id, ownerID string) error

	// ListByOwner lists all folders of an owner in creation order
	ListByOwner(ctx context.Context, ownerID string) ([]models.Folder, error)

	// Rename updates the folder name
	Rename(ctx context.Context, folder *models.Folder) error

	// Delete removes the folder row
	Delete(ctx context.Context, id, ownerID string) error

	// IncrementFileCount atomically adds delta to file_count (never below zero)
	IncrementFileCount(ctx context.Context, id string, delta int) error
}
