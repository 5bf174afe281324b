package memory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"clipnest/internal/domain"
	"clipnest/internal/domain/models"

	"github.com/google/uuid"
)

type imageRepository struct {
	store *Store
}

func (r *imageRepository) Create(ctx context.Context, image *models.Image) error {
	s := r.store
	defer s.lockWrite(ctx)()

	if image.FolderID != nil && s.folderIndex(*image.FolderID) < 0 {
		return fmt.Errorf("folder: %w", domain.ErrNotFound)
	}

	image.ID = uuid.NewString()
	if image.CreatedAt.IsZero() {
		image.CreatedAt = time.Now()
	}
	s.images = append(s.images, *image)
	return nil
}

func (r *imageRepository) GetByIDOnly(ctx context.Context, id string) (*models.Image, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, img := range s.images {
		if img.ID == id {
			return &img, nil
		}
	}
	return nil, fmt.Errorf("image %s: %w", id, domain.ErrNotFound)
}

func (r *imageRepository) ListByOwner(ctx context.Context, ownerID string, folderID *string) ([]models.Image, error) {
	return r.filter(func(img models.Image) bool {
		if img.OwnerID != ownerID {
			return false
		}
		return folderID == nil || (img.FolderID != nil && *img.FolderID == *folderID)
	}), nil
}

func (r *imageRepository) SearchByName(ctx context.Context, ownerID, query string) ([]models.Image, error) {
	needle := strings.ToLower(query)
	return r.filter(func(img models.Image) bool {
		return img.OwnerID == ownerID && strings.Contains(strings.ToLower(img.Name), needle)
	}), nil
}

func (r *imageRepository) Delete(ctx context.Context, id, ownerID string) (*models.Image, error) {
	s := r.store
	defer s.lockWrite(ctx)()

	for i, img := range s.images {
		if img.ID == id && img.OwnerID == ownerID {
			s.images = append(s.images[:i:i], s.images[i+1:]...)
			return &img, nil
		}
	}
	return nil, fmt.Errorf("image %s: %w", id, domain.ErrNotFound)
}

func (r *imageRepository) DeleteByFolder(ctx context.Context, folderID string) ([]models.Image, error) {
	s := r.store
	defer s.lockWrite(ctx)()

	deleted := []models.Image{}
	kept := s.images[:0:0]
	for _, img := range s.images {
		if img.FolderID != nil && *img.FolderID == folderID {
			deleted = append(deleted, img)
			continue
		}
		kept = append(kept, img)
	}
	s.images = kept
	return deleted, nil
}

func (r *imageRepository) filter(keep func(models.Image) bool) []models.Image {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	images := []models.Image{}
	for _, img := range s.images {
		if keep(img) {
			images = append(images, img)
		}
	}
	return images
}
