// Package memory provides process-local repositories used by the
// STORAGE_BACKEND=memory development mode and by service and handler tests.
package memory

import (
	"context"
	"sync"

	"clipnest/internal/domain/models"
	"clipnest/internal/domain/repositories"
)

// Store holds folders and images in insertion order
type Store struct {
	mu      sync.Mutex
	txMu    sync.Mutex
	folders []models.Folder
	images  []models.Image
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{}
}

// FolderRepository returns a folder repository backed by the store
func (s *Store) FolderRepository() repositories.FolderRepository {
	return &folderRepository{store: s}
}

// ImageRepository returns an image repository backed by the store
func (s *Store) ImageRepository() repositories.ImageRepository {
	return &imageRepository{store: s}
}

// TransactionManager returns a transaction manager backed by the store
func (s *Store) TransactionManager() repositories.TransactionManager {
	return &transactionManager{store: s}
}

type transactionManager struct {
	store *Store
}

type txKey struct{}

// inTx reports whether ctx belongs to a transaction running on this store
func (s *Store) inTx(ctx context.Context) bool {
	owner, _ := ctx.Value(txKey{}).(*Store)
	return owner == s
}

// lockWrite acquires the store for a write. Outside a transaction the write
// also waits on txMu, so a rollback can never discard it.
func (s *Store) lockWrite(ctx context.Context) (unlock func()) {
	if s.inTx(ctx) {
		s.mu.Lock()
		return s.mu.Unlock
	}
	s.txMu.Lock()
	s.mu.Lock()
	return func() {
		s.mu.Unlock()
		s.txMu.Unlock()
	}
}

// ExecTx serializes transactions and restores a snapshot when fn fails.
// A call made with a context that is already inside a transaction joins it.
func (tm *transactionManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	s := tm.store
	if s.inTx(ctx) {
		return fn(ctx)
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	folders := append([]models.Folder(nil), s.folders...)
	images := append([]models.Image(nil), s.images...)
	s.mu.Unlock()

	if err := fn(context.WithValue(ctx, txKey{}, s)); err != nil {
		s.mu.Lock()
		s.folders = folders
		s.images = images
		s.mu.Unlock()
		return err
	}
	return nil
}
