package services

import (
	"context"

	"clipnest/internal/domain/models"
)

// ImageService handles image catalog business logic
type ImageService interface {
	// UploadImage stores the bytes and records the image
	UploadImage(ctx context.Context, req *UploadImageRequest) (*models.Image, error)

	// ListImages lists the caller's images, optionally only those in one folder
	ListImages(ctx context.Context, userID string, folderID *string) ([]models.Image, error)

	// SearchImages lists the caller's images whose name contains query
	SearchImages(ctx context.Context, userID, query string) ([]models.Image, error)

	// DeleteImage deletes one of the caller's images
	DeleteImage(ctx context.Context, userID, imageID string) error
}

// UploadImageRequest carries a multipart upload after transport decoding
type UploadImageRequest struct {
	UserID   string
	Name     string
	FolderID *string
	Filename string
	Data     []byte
}
