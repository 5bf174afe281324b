package models

import (
	"time"
)

type Image struct {
	ID          string    `json:"id" db:"id"`
	OwnerID     string    `json:"ownerId" db:"owner_id"`
	FolderID    *string   `json:"folderId" db:"folder_id"` // NULL = unfiled
	Name        string    `json:"name" db:"name"`          // Display label, independent of the stored filename
	Locator     string    `json:"locator" db:"locator"`    // Opaque reference returned by the object store
	ContentType string    `json:"contentType" db:"content_type"`
	Size        int64     `json:"size" db:"size_bytes"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}
