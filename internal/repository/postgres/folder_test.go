package postgres

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"clipnest/internal/domain"
	"clipnest/internal/domain/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var folderCols = []string{"id", "owner_id", "parent_id", "name", "file_count", "created_at", "updated_at"}

func newMockConfig(t *testing.T) (pgxmock.PgxPoolIface, *RepositoryConfig) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	return mock, &RepositoryConfig{
		Pool:   mock,
		Tables: NewTableNames("test_"),
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestNewTableNames(t *testing.T) {
	tables := NewTableNames("dev_")
	assert.Equal(t, "dev_folders", tables.Folders)
	assert.Equal(t, "dev_images", tables.Images)
}

func TestFolderRepository_Create(t *testing.T) {
	mock, cfg := newMockConfig(t)
	repo := NewFolderRepository(cfg)
	now := time.Now()

	mock.ExpectQuery(`INSERT INTO test_folders`).
		WithArgs("owner-1", (*string)(nil), "Vacation", pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnRows(mock.NewRows([]string{"id", "file_count", "created_at", "updated_at"}).
			AddRow("f-1", 0, now, now))

	folder := &models.Folder{OwnerID: "owner-1", Name: "Vacation", CreatedAt: now, UpdatedAt: now}
	require.NoError(t, repo.Create(context.Background(), folder))
	assert.Equal(t, "f-1", folder.ID)
	assert.Zero(t, folder.FileCount)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFolderRepository_CreateMissingParent(t *testing.T) {
	mock, cfg := newMockConfig(t)
	repo := NewFolderRepository(cfg)
	parent := "00000000-0000-0000-0000-000000000001"

	mock.ExpectQuery(`INSERT INTO test_folders`).
		WithArgs("owner-1", &parent, "Child", pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: "23503"})

	err := repo.Create(context.Background(), &models.Folder{OwnerID: "owner-1", ParentID: &parent, Name: "Child"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFolderRepository_GetByID(t *testing.T) {
	mock, cfg := newMockConfig(t)
	repo := NewFolderRepository(cfg)
	now := time.Now()
	parent := "p-1"

	mock.ExpectQuery(`SELECT .+ FROM test_folders\s+WHERE id = \$1 AND owner_id = \$2`).
		WithArgs("f-1", "owner-1").
		WillReturnRows(mock.NewRows(folderCols).
			AddRow("f-1", "owner-1", &parent, "Trip", 3, now, now))

	folder, err := repo.GetByID(context.Background(), "f-1", "owner-1")
	require.NoError(t, err)
	assert.Equal(t, "Trip", folder.Name)
	assert.Equal(t, 3, folder.FileCount)
	require.NotNil(t, folder.ParentID)
	assert.Equal(t, "p-1", *folder.ParentID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFolderRepository_GetByIDErrors(t *testing.T) {
	tests := []struct {
		name    string
		dbErr   error
		wantErr error
	}{
		{"no rows", pgx.ErrNoRows, domain.ErrNotFound},
		{"malformed uuid", &pgconn.PgError{Code: "22P02"}, domain.ErrNotFound},
		{"deadline", context.DeadlineExceeded, domain.ErrUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, cfg := newMockConfig(t)
			repo := NewFolderRepository(cfg)

			mock.ExpectQuery(`SELECT .+ FROM test_folders`).
				WithArgs("f-1").
				WillReturnError(tt.dbErr)

			_, err := repo.GetByIDOnly(context.Background(), "f-1")
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestFolderRepository_ListByOwner(t *testing.T) {
	mock, cfg := newMockConfig(t)
	repo := NewFolderRepository(cfg)
	now := time.Now()

	mock.ExpectQuery(`SELECT .+ FROM test_folders\s+WHERE owner_id = \$1\s+ORDER BY created_at ASC`).
		WithArgs("owner-1").
		WillReturnRows(mock.NewRows(folderCols).
			AddRow("f-1", "owner-1", (*string)(nil), "A", 0, now, now).
			AddRow("f-2", "owner-1", (*string)(nil), "B", 2, now, now))

	folders, err := repo.ListByOwner(context.Background(), "owner-1")
	require.NoError(t, err)
	require.Len(t, folders, 2)
	assert.Equal(t, "A", folders[0].Name)
	assert.Equal(t, 2, folders[1].FileCount)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFolderRepository_ListByOwnerEmpty(t *testing.T) {
	mock, cfg := newMockConfig(t)
	repo := NewFolderRepository(cfg)

	mock.ExpectQuery(`SELECT .+ FROM test_folders`).
		WithArgs("owner-1").
		WillReturnRows(mock.NewRows(folderCols))

	folders, err := repo.ListByOwner(context.Background(), "owner-1")
	require.NoError(t, err)
	assert.NotNil(t, folders)
	assert.Empty(t, folders)
}

func TestFolderRepository_Rename(t *testing.T) {
	mock, cfg := newMockConfig(t)
	repo := NewFolderRepository(cfg)

	mock.ExpectExec(`UPDATE test_folders\s+SET name = \$1, updated_at = \$2`).
		WithArgs("New", pgxmock.AnyArg(), "f-1", "owner-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec(`UPDATE test_folders`).
		WithArgs("New", pgxmock.AnyArg(), "f-1", "intruder").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	ctx := context.Background()
	require.NoError(t, repo.Rename(ctx, &models.Folder{ID: "f-1", OwnerID: "owner-1", Name: "New", UpdatedAt: time.Now()}))

	err := repo.Rename(ctx, &models.Folder{ID: "f-1", OwnerID: "intruder", Name: "New", UpdatedAt: time.Now()})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFolderRepository_Delete(t *testing.T) {
	mock, cfg := newMockConfig(t)
	repo := NewFolderRepository(cfg)

	mock.ExpectExec(`DELETE FROM test_folders\s+WHERE id = \$1 AND owner_id = \$2`).
		WithArgs("f-1", "owner-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectExec(`DELETE FROM test_folders`).
		WithArgs("f-1", "owner-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	ctx := context.Background()
	require.NoError(t, repo.Delete(ctx, "f-1", "owner-1"))
	assert.ErrorIs(t, repo.Delete(ctx, "f-1", "owner-1"), domain.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFolderRepository_IncrementFileCount(t *testing.T) {
	mock, cfg := newMockConfig(t)
	repo := NewFolderRepository(cfg)

	mock.ExpectExec(`SET file_count = GREATEST\(file_count \+ \$1, 0\)`).
		WithArgs(-1, "f-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec(`SET file_count`).
		WithArgs(1, "gone").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	ctx := context.Background()
	require.NoError(t, repo.IncrementFileCount(ctx, "f-1", -1))
	assert.ErrorIs(t, repo.IncrementFileCount(ctx, "gone", 1), domain.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
