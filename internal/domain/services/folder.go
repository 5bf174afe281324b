package services

import (
	"context"

	"clipnest/internal/domain/models"
)

// FolderService handles folder business logic
type FolderService interface {
	// CreateFolder creates an empty folder owned by the caller
	CreateFolder(ctx context.Context, req *CreateFolderRequest) (*models.Folder, error)

	// GetFolder retrieves one of the caller's folders
	GetFolder(ctx context.Context, userID, folderID string) (*models.Folder, error)

	// ListFolders lists all of the caller's folders
	ListFolders(ctx context.Context, userID string) ([]models.Folder, error)

	// RenameFolder changes a folder's name
	RenameFolder(ctx context.Context, userID, folderID string, req *RenameFolderRequest) (*models.Folder, error)

	// DeleteFolder deletes a folder and every image filed in it
	DeleteFolder(ctx context.Context, userID, folderID string) error
}

// CreateFolderRequest represents a folder creation request
type CreateFolderRequest struct {
	UserID   string  `json:"-"`
	Name     string  `json:"name"`
	ParentID *string `json:"parentId,omitempty"` // null for root folders
}

// RenameFolderRequest represents a folder rename request
type RenameFolderRequest struct {
	Name string `json:"name"`
}
