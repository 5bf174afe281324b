package storage

import (
	"path"
	"strings"

	"github.com/google/uuid"
)

const maxFilenameLength = 100

// NewObjectKey builds a unique object key "<owner>/<uuid>-<filename>".
// The owner prefix keeps one owner's objects together for cleanup jobs.
func NewObjectKey(ownerID, filename string) string {
	return path.Join(sanitize(ownerID, "owner"), uuid.NewString()+"-"+sanitize(filename, "image"))
}

// sanitize reduces s to a safe single path segment
func sanitize(s, fallback string) string {
	s = path.Base(strings.ReplaceAll(s, `\`, "/"))
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
		if b.Len() >= maxFilenameLength {
			break
		}
	}
	out := strings.Trim(b.String(), "._")
	if out == "" {
		return fallback
	}
	return out
}
