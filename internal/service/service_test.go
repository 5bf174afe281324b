package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"clipnest/internal/domain/models"
	"clipnest/internal/domain/repositories"
	"clipnest/internal/domain/services"
	"clipnest/internal/imagetype"
	"clipnest/internal/repository/memory"
	serviceAuth "clipnest/internal/service/auth"

	"github.com/stretchr/testify/require"
)

var (
	pngBytes  = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")
	jpegBytes = []byte("\xff\xd8\xff\xe0\x00\x10JFIF\x00\x01\x01\x00\x00\x01\x00\x01\x00\x00")
	textBytes = []byte("definitely not an image, just some text")
)

const (
	alice = "user-alice"
	bob   = "user-bob"
)

// fakeObjectStore records objects in memory
type fakeObjectStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	deleted []string
	putErr  error
	block   bool
}

func newFakeObjectStore() *fakeObjectStore {
	return &fakeObjectStore{objects: map[string][]byte{}}
}

func (f *fakeObjectStore) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error) {
	if f.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	if f.putErr != nil {
		return "", f.putErr
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	locator := "mem://" + key
	f.objects[locator] = data
	return locator, nil
}

func (f *fakeObjectStore) Delete(ctx context.Context, locator string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, locator)
	f.deleted = append(f.deleted, locator)
	return nil
}

func (f *fakeObjectStore) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.objects)
}

// failingTxManager runs fn and then reports a commit failure
type failingTxManager struct {
	err error
}

func (m failingTxManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	if err := fn(ctx); err != nil {
		return err
	}
	return m.err
}

type testEnv struct {
	store   *memory.Store
	objects *fakeObjectStore
	folders services.FolderService
	images  services.ImageService
}

type envOptions struct {
	maxUploadBytes int64
	timeout        time.Duration
	txManager      repositories.TransactionManager
	wrapImages     func(repositories.ImageRepository) repositories.ImageRepository
}

func newTestEnv(t *testing.T, opts ...func(*envOptions)) *testEnv {
	t.Helper()

	o := envOptions{timeout: 5 * time.Second}
	for _, opt := range opts {
		opt(&o)
	}

	store := memory.NewStore()
	folderRepo := store.FolderRepository()
	imageRepo := store.ImageRepository()
	if o.wrapImages != nil {
		imageRepo = o.wrapImages(imageRepo)
	}
	txManager := o.txManager
	if txManager == nil {
		txManager = store.TransactionManager()
	}

	registry, err := imagetype.NewRegistry()
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	objects := newFakeObjectStore()
	authorizer := serviceAuth.NewOwnerBasedAuthorizer(folderRepo, imageRepo)

	return &testEnv{
		store:   store,
		objects: objects,
		folders: NewFolderService(folderRepo, imageRepo, txManager, authorizer, objects, o.timeout, logger),
		images:  NewImageService(imageRepo, folderRepo, txManager, authorizer, objects, registry, o.maxUploadBytes, o.timeout, logger),
	}
}

func (e *testEnv) createFolder(t *testing.T, owner, name string, parentID *string) *models.Folder {
	t.Helper()
	folder, err := e.folders.CreateFolder(context.Background(), &services.CreateFolderRequest{
		UserID:   owner,
		Name:     name,
		ParentID: parentID,
	})
	require.NoError(t, err)
	return folder
}

func (e *testEnv) upload(t *testing.T, owner, name string, folderID *string) *models.Image {
	t.Helper()
	image, err := e.images.UploadImage(context.Background(), &services.UploadImageRequest{
		UserID:   owner,
		Name:     name,
		FolderID: folderID,
		Filename: name + ".png",
		Data:     bytes.Clone(pngBytes),
	})
	require.NoError(t, err)
	return image
}

func (e *testEnv) folderCount(t *testing.T, owner, id string) int {
	t.Helper()
	folder, err := e.folders.GetFolder(context.Background(), owner, id)
	require.NoError(t, err)
	return folder.FileCount
}

func ptr(s string) *string { return &s }

var errCommit = errors.New("commit failed")
