package service

import (
	"context"
	"strings"
	"testing"

	"clipnest/internal/domain"
	"clipnest/internal/domain/services"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateFolder(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		req     *services.CreateFolderRequest
		wantErr error
		want    string
	}{
		{
			name: "root folder",
			req:  &services.CreateFolderRequest{UserID: alice, Name: "Vacation"},
			want: "Vacation",
		},
		{
			name: "name is trimmed",
			req:  &services.CreateFolderRequest{UserID: alice, Name: "  Work  "},
			want: "Work",
		},
		{
			name: "blank parent is root",
			req:  &services.CreateFolderRequest{UserID: alice, Name: "Misc", ParentID: ptr("")},
			want: "Misc",
		},
		{
			name:    "empty name",
			req:     &services.CreateFolderRequest{UserID: alice, Name: ""},
			wantErr: domain.ErrValidation,
		},
		{
			name:    "whitespace name",
			req:     &services.CreateFolderRequest{UserID: alice, Name: "   "},
			wantErr: domain.ErrValidation,
		},
		{
			name:    "name too long",
			req:     &services.CreateFolderRequest{UserID: alice, Name: strings.Repeat("a", 256)},
			wantErr: domain.ErrValidation,
		},
		{
			name:    "invalid UTF-8 name",
			req:     &services.CreateFolderRequest{UserID: alice, Name: "bad\xffname"},
			wantErr: domain.ErrValidation,
		},
		{
			name:    "NUL in name",
			req:     &services.CreateFolderRequest{UserID: alice, Name: "bad\x00name"},
			wantErr: domain.ErrValidation,
		},
		{
			name:    "malformed parent",
			req:     &services.CreateFolderRequest{UserID: alice, Name: "Child", ParentID: ptr("not-a-uuid")},
			wantErr: domain.ErrNotFound,
		},
		{
			name:    "unknown parent",
			req:     &services.CreateFolderRequest{UserID: alice, Name: "Child", ParentID: ptr(uuid.NewString())},
			wantErr: domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			folder, err := env.folders.CreateFolder(ctx, tt.req)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, folder.ID)
			assert.Equal(t, tt.want, folder.Name)
			assert.Equal(t, alice, folder.OwnerID)
			assert.Nil(t, folder.ParentID)
			assert.Zero(t, folder.FileCount)
		})
	}
}

func TestCreateFolder_Parent(t *testing.T) {
	env := newTestEnv(t)
	parent := env.createFolder(t, alice, "Photos", nil)

	child := env.createFolder(t, alice, "2024", &parent.ID)
	require.NotNil(t, child.ParentID)
	assert.Equal(t, parent.ID, *child.ParentID)

	// Another owner's folder cannot be used as a parent
	_, err := env.folders.CreateFolder(context.Background(), &services.CreateFolderRequest{
		UserID:   bob,
		Name:     "Sneaky",
		ParentID: &parent.ID,
	})
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListFolders_OwnerScopedInCreationOrder(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	empty, err := env.folders.ListFolders(ctx, alice)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	env.createFolder(t, alice, "First", nil)
	env.createFolder(t, bob, "Bobs", nil)
	env.createFolder(t, alice, "Second", nil)

	folders, err := env.folders.ListFolders(ctx, alice)
	require.NoError(t, err)
	require.Len(t, folders, 2)
	assert.Equal(t, "First", folders[0].Name)
	assert.Equal(t, "Second", folders[1].Name)
	for _, f := range folders {
		assert.Equal(t, alice, f.OwnerID)
	}
}

func TestGetFolder(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	folder := env.createFolder(t, alice, "Docs", nil)

	got, err := env.folders.GetFolder(ctx, alice, folder.ID)
	require.NoError(t, err)
	assert.Equal(t, folder.ID, got.ID)

	_, err = env.folders.GetFolder(ctx, bob, folder.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = env.folders.GetFolder(ctx, alice, uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = env.folders.GetFolder(ctx, alice, "garbage")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRenameFolder(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	folder := env.createFolder(t, alice, "Old", nil)
	env.upload(t, alice, "pic", &folder.ID)

	renamed, err := env.folders.RenameFolder(ctx, alice, folder.ID, &services.RenameFolderRequest{Name: " New "})
	require.NoError(t, err)
	assert.Equal(t, "New", renamed.Name)
	assert.Equal(t, 1, renamed.FileCount)
	assert.Equal(t, folder.CreatedAt, renamed.CreatedAt)
	assert.False(t, renamed.UpdatedAt.Before(folder.UpdatedAt))

	stored, err := env.folders.GetFolder(ctx, alice, folder.ID)
	require.NoError(t, err)
	assert.Equal(t, "New", stored.Name)
	assert.Equal(t, 1, stored.FileCount)
}

func TestRenameFolder_Errors(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	folder := env.createFolder(t, alice, "Mine", nil)

	tests := []struct {
		name     string
		userID   string
		folderID string
		newName  string
		wantErr  error
	}{
		{"empty name", alice, folder.ID, "", domain.ErrValidation},
		{"NUL in name", alice, folder.ID, "a\x00b", domain.ErrValidation},
		{"other owner", bob, folder.ID, "Stolen", domain.ErrForbidden},
		{"unknown folder", alice, uuid.NewString(), "X", domain.ErrNotFound},
		{"malformed id", alice, "123", "X", domain.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.folders.RenameFolder(ctx, tt.userID, tt.folderID, &services.RenameFolderRequest{Name: tt.newName})
			require.ErrorIs(t, err, tt.wantErr)
		})
	}

	stored, err := env.folders.GetFolder(ctx, alice, folder.ID)
	require.NoError(t, err)
	assert.Equal(t, "Mine", stored.Name)
}

func TestDeleteFolder_CascadesOnlyItsImages(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	doomed := env.createFolder(t, alice, "Doomed", nil)
	kept := env.createFolder(t, alice, "Kept", nil)
	a := env.upload(t, alice, "a", &doomed.ID)
	b := env.upload(t, alice, "b", &doomed.ID)
	c := env.upload(t, alice, "c", &kept.ID)
	loose := env.upload(t, alice, "loose", nil)

	require.NoError(t, env.folders.DeleteFolder(ctx, alice, doomed.ID))

	_, err := env.folders.GetFolder(ctx, alice, doomed.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	images, err := env.images.ListImages(ctx, alice, nil)
	require.NoError(t, err)
	ids := make([]string, 0, len(images))
	for _, img := range images {
		ids = append(ids, img.ID)
	}
	assert.ElementsMatch(t, []string{c.ID, loose.ID}, ids)

	assert.ElementsMatch(t, []string{a.Locator, b.Locator}, env.objects.deleted)
	assert.Equal(t, 1, env.folderCount(t, alice, kept.ID))
}

func TestDeleteFolder_ReparentsChildrenToRoot(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	parent := env.createFolder(t, alice, "Parent", nil)
	child := env.createFolder(t, alice, "Child", &parent.ID)

	require.NoError(t, env.folders.DeleteFolder(ctx, alice, parent.ID))

	got, err := env.folders.GetFolder(ctx, alice, child.ID)
	require.NoError(t, err)
	assert.Nil(t, got.ParentID)
}

func TestDeleteFolder_OtherOwner(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	folder := env.createFolder(t, alice, "Private", nil)
	img := env.upload(t, alice, "secret", &folder.ID)

	err := env.folders.DeleteFolder(ctx, bob, folder.ID)
	require.ErrorIs(t, err, domain.ErrForbidden)

	err = env.folders.DeleteFolder(ctx, alice, uuid.NewString())
	require.ErrorIs(t, err, domain.ErrNotFound)

	images, err := env.images.ListImages(ctx, alice, &folder.ID)
	require.NoError(t, err)
	require.Len(t, images, 1)
	assert.Equal(t, img.ID, images[0].ID)
	assert.Empty(t, env.objects.deleted)
}
