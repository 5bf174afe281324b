package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path"
	"strings"

	"github.com/spf13/afero"
)

// LocalStore keeps uploaded bytes on a filesystem and serves them under
// publicPath. Production uses an afero.BasePathFs rooted at UPLOAD_DIR;
// tests use afero.MemMapFs.
type LocalStore struct {
	fs         afero.Fs
	publicPath string
	logger     *slog.Logger
}

// NewLocalStore creates a store writing into fs
func NewLocalStore(fs afero.Fs, publicPath string, logger *slog.Logger) *LocalStore {
	return &LocalStore{
		fs:         fs,
		publicPath: "/" + strings.Trim(publicPath, "/"),
		logger:     logger,
	}
}

// NewDiskStore roots a LocalStore at dir on the OS filesystem
func NewDiskStore(dir, publicPath string, logger *slog.Logger) (*LocalStore, error) {
	osFs := afero.NewOsFs()
	if err := osFs.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload directory: %w", err)
	}
	return NewLocalStore(afero.NewBasePathFs(osFs, dir), publicPath, logger), nil
}

// Put writes body to key and returns "<publicPath>/<key>"
func (s *LocalStore) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	name := path.Clean("/" + key)
	if err := s.fs.MkdirAll(path.Dir(name), 0o755); err != nil {
		return "", fmt.Errorf("create object directory: %w", err)
	}
	if err := afero.WriteReader(s.fs, name, body); err != nil {
		return "", fmt.Errorf("write object: %w", err)
	}

	s.logger.Debug("object stored", "key", name, "size", size, "content_type", contentType)
	return path.Join(s.publicPath, name), nil
}

// Delete removes the object behind locator; a missing object is not an error
func (s *LocalStore) Delete(ctx context.Context, locator string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	name, ok := s.keyFromLocator(locator)
	if !ok {
		return fmt.Errorf("locator %q is outside %s", locator, s.publicPath)
	}
	if err := s.fs.Remove(name); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove object: %w", err)
	}
	return nil
}

// Handler serves stored objects. Mount it at publicPath. Directory
// listings are refused so one owner cannot enumerate another's keys.
func (s *LocalStore) Handler() http.Handler {
	files := http.FileServer(afero.NewHttpFs(s.fs).Dir("/"))
	return http.StripPrefix(s.publicPath, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		files.ServeHTTP(w, r)
	}))
}

// PublicPath is the URL prefix locators start with
func (s *LocalStore) PublicPath() string {
	return s.publicPath
}

func (s *LocalStore) keyFromLocator(locator string) (string, bool) {
	rest, ok := strings.CutPrefix(locator, s.publicPath+"/")
	if !ok || rest == "" {
		return "", false
	}
	return path.Clean("/" + rest), true
}
