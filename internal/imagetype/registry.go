package imagetype

import (
	"embed"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"gopkg.in/yaml.v3"
)

//go:embed config/*.yaml
var configFiles embed.FS

// Registry holds the accepted image formats
type Registry struct {
	formats map[string]Format
}

// NewRegistry loads the embedded format list
func NewRegistry() (*Registry, error) {
	data, err := configFiles.ReadFile("config/types.yaml")
	if err != nil {
		return nil, fmt.Errorf("failed to read types.yaml: %w", err)
	}
	return Parse(data)
}

// Parse builds a registry from YAML in the types.yaml layout
func Parse(data []byte) (*Registry, error) {
	var file registryFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to unmarshal image types: %w", err)
	}
	if len(file.Types) == 0 {
		return nil, fmt.Errorf("no image types configured")
	}

	r := &Registry{formats: make(map[string]Format, len(file.Types))}
	for mime, format := range file.Types {
		format.MIME = strings.ToLower(mime)
		r.formats[format.MIME] = format
	}
	return r, nil
}

// Detect sniffs the content type of data and reports whether it is accepted.
// The returned MIME type has parameters stripped.
func (r *Registry) Detect(data []byte) (string, bool) {
	mime := mimetype.Detect(data).String()
	if i := strings.IndexByte(mime, ';'); i >= 0 {
		mime = mime[:i]
	}
	mime = strings.ToLower(strings.TrimSpace(mime))
	_, ok := r.formats[mime]
	return mime, ok
}

// Accepts reports whether mime is an accepted format
func (r *Registry) Accepts(mime string) bool {
	_, ok := r.formats[strings.ToLower(mime)]
	return ok
}

// Extension returns the preferred file extension for mime, or ""
func (r *Registry) Extension(mime string) string {
	format, ok := r.formats[strings.ToLower(mime)]
	if !ok || len(format.Extensions) == 0 {
		return ""
	}
	return format.Extensions[0]
}

// MatchesExtension reports whether filename's extension belongs to mime
func (r *Registry) MatchesExtension(mime, filename string) bool {
	format, ok := r.formats[strings.ToLower(mime)]
	if !ok {
		return false
	}
	ext := strings.ToLower(filepath.Ext(filename))
	for _, e := range format.Extensions {
		if e == ext {
			return true
		}
	}
	return false
}
