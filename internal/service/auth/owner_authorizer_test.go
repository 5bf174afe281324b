package auth

import (
	"context"
	"testing"

	"clipnest/internal/domain"
	"clipnest/internal/domain/models"
	"clipnest/internal/repository/memory"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestOwnerBasedAuthorizer(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	folders := store.FolderRepository()
	images := store.ImageRepository()

	folder := &models.Folder{OwnerID: "owner", Name: "F"}
	require.NoError(t, folders.Create(ctx, folder))
	image := &models.Image{OwnerID: "owner", Name: "I", Locator: "x"}
	require.NoError(t, images.Create(ctx, image))

	authz := NewOwnerBasedAuthorizer(folders, images)

	tests := []struct {
		name    string
		check   func(ctx context.Context, userID, id string) error
		userID  string
		id      string
		wantErr error
	}{
		{"owner reaches folder", authz.CanAccessFolder, "owner", folder.ID, nil},
		{"intruder denied folder", authz.CanAccessFolder, "intruder", folder.ID, domain.ErrForbidden},
		{"missing folder", authz.CanAccessFolder, "owner", uuid.NewString(), domain.ErrNotFound},
		{"owner reaches image", authz.CanAccessImage, "owner", image.ID, nil},
		{"intruder denied image", authz.CanAccessImage, "intruder", image.ID, domain.ErrForbidden},
		{"missing image", authz.CanAccessImage, "owner", uuid.NewString(), domain.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.check(ctx, tt.userID, tt.id)
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}
