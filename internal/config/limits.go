package config

import "time"

const (
	// MaxFolderNameLength fits the VARCHAR(255) name column.
	MaxFolderNameLength = 255

	// MaxImageNameLength is the maximum length for image display names.
	MaxImageNameLength = 255

	// DefaultMaxUploadBytes caps a single image upload (10 MiB).
	DefaultMaxUploadBytes int64 = 10 << 20

	// DefaultStorageTimeout bounds every database and object-store call
	// made on behalf of one request.
	DefaultStorageTimeout = 10 * time.Second
)
