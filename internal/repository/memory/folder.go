package memory

import (
	"context"
	"fmt"
	"time"

	"clipnest/internal/domain"
	"clipnest/internal/domain/models"

	"github.com/google/uuid"
)

type folderRepository struct {
	store *Store
}

func (r *folderRepository) Create(ctx context.Context, folder *models.Folder) error {
	s := r.store
	defer s.lockWrite(ctx)()

	if folder.ParentID != nil && s.folderIndex(*folder.ParentID) < 0 {
		return fmt.Errorf("parent folder: %w", domain.ErrNotFound)
	}

	folder.ID = uuid.NewString()
	folder.FileCount = 0
	if folder.CreatedAt.IsZero() {
		folder.CreatedAt = time.Now()
	}
	if folder.UpdatedAt.IsZero() {
		folder.UpdatedAt = folder.CreatedAt
	}
	s.folders = append(s.folders, *folder)
	return nil
}

func (r *folderRepository) GetByID(ctx context.Context, id, ownerID string) (*models.Folder, error) {
	folder, err := r.GetByIDOnly(ctx, id)
	if err != nil {
		return nil, err
	}
	if folder.OwnerID != ownerID {
		return nil, fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
	}
	return folder, nil
}

func (r *folderRepository) GetByIDOnly(ctx context.Context, id string) (*models.Folder, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.folderIndex(id)
	if i < 0 {
		return nil, fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
	}
	folder := s.folders[i]
	return &folder, nil
}

// LockForUpdate only checks existence; ExecTx already serializes writers
func (r *folderRepository) LockForUpdate(ctx context.Context, id, ownerID string) error {
	_, err := r.GetByID(ctx, id, ownerID)
	return err
}

func (r *folderRepository) ListByOwner(ctx context.Context, ownerID string) ([]models.Folder, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	folders := []models.Folder{}
	for _, f := range s.folders {
		if f.OwnerID == ownerID {
			folders = append(folders, f)
		}
	}
	return folders, nil
}

func (r *folderRepository) Rename(ctx context.Context, folder *models.Folder) error {
	s := r.store
	defer s.lockWrite(ctx)()

	i := s.folderIndex(folder.ID)
	if i < 0 || s.folders[i].OwnerID != folder.OwnerID {
		return fmt.Errorf("folder %s: %w", folder.ID, domain.ErrNotFound)
	}
	s.folders[i].Name = folder.Name
	s.folders[i].UpdatedAt = folder.UpdatedAt
	return nil
}

func (r *folderRepository) Delete(ctx context.Context, id, ownerID string) error {
	s := r.store
	defer s.lockWrite(ctx)()

	i := s.folderIndex(id)
	if i < 0 || s.folders[i].OwnerID != ownerID {
		return fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
	}
	s.folders = append(s.folders[:i:i], s.folders[i+1:]...)

	// Mirrors ON DELETE SET NULL on parent_id
	for j := range s.folders {
		if p := s.folders[j].ParentID; p != nil && *p == id {
			s.folders[j].ParentID = nil
		}
	}
	return nil
}

func (r *folderRepository) IncrementFileCount(ctx context.Context, id string, delta int) error {
	s := r.store
	defer s.lockWrite(ctx)()

	i := s.folderIndex(id)
	if i < 0 {
		return fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
	}
	s.folders[i].FileCount = max(s.folders[i].FileCount+delta, 0)
	return nil
}

// folderIndex must be called with s.mu held
func (s *Store) folderIndex(id string) int {
	for i := range s.folders {
		if s.folders[i].ID == id {
			return i
		}
	}
	return -1
}
