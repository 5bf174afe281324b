package models

import (
	"time"
)

// Folder groups an owner's images. FileCount caches the number of images
// whose folder_id points at this folder.
type Folder struct {
	ID        string    `json:"id" db:"id"`
	OwnerID   string    `json:"ownerId" db:"owner_id"`
	ParentID  *string   `json:"parentId" db:"parent_id"` // NULL = root level
	Name      string    `json:"name" db:"name"`
	FileCount int       `json:"fileCount" db:"file_count"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}
