package services

import "context"

// ResourceAuthorizer checks if a user can act on a resource.
// Current implementation: single-owner isolation.
type ResourceAuthorizer interface {
	// CanAccessFolder checks if user owns the folder
	CanAccessFolder(ctx context.Context, userID, folderID string) error

	// CanAccessImage checks if user owns the image
	CanAccessImage(ctx context.Context, userID, imageID string) error
}
