package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"clipnest/internal/domain"
	"clipnest/internal/domain/models"
	"clipnest/internal/domain/repositories"

	"github.com/jackc/pgx/v5"
)

const folderColumns = "id, owner_id, parent_id, name, file_count, created_at, updated_at"

// PostgresFolderRepository implements the FolderRepository interface
type PostgresFolderRepository struct {
	pool   Pool
	tables *TableNames
	logger *slog.Logger
}

// NewFolderRepository creates a new folder repository
func NewFolderRepository(config *RepositoryConfig) repositories.FolderRepository {
	return &PostgresFolderRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// Create creates a new folder with file_count = 0
func (r *PostgresFolderRepository) Create(ctx context.Context, folder *models.Folder) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (owner_id, parent_id, name, file_count, created_at, updated_at)
		VALUES ($1, $2, $3, 0, $4, $5)
		RETURNING id, file_count, created_at, updated_at
	`, r.tables.Folders)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		folder.OwnerID,
		folder.ParentID,
		folder.Name,
		folder.CreatedAt,
		folder.UpdatedAt,
	).Scan(&folder.ID, &folder.FileCount, &folder.CreatedAt, &folder.UpdatedAt)

	if err != nil {
		if IsPgForeignKeyError(err) {
			return fmt.Errorf("parent folder: %w", domain.ErrNotFound)
		}
		return domain.Unavailable("create folder", fmt.Errorf("create folder: %w", err))
	}

	return nil
}

// GetByID retrieves a folder owned by ownerID
func (r *PostgresFolderRepository) GetByID(ctx context.Context, id, ownerID string) (*models.Folder, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE id = $1 AND owner_id = $2
	`, folderColumns, r.tables.Folders)

	executor := GetExecutor(ctx, r.pool)
	folder, err := scanFolder(executor.QueryRow(ctx, query, id, ownerID))
	if err != nil {
		return nil, r.lookupError(id, err)
	}

	return folder, nil
}

// GetByIDOnly retrieves a folder by ID without owner scoping.
// Use when authorization is handled separately (ResourceAuthorizer).
func (r *PostgresFolderRepository) GetByIDOnly(ctx context.Context, id string) (*models.Folder, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE id = $1
	`, folderColumns, r.tables.Folders)

	executor := GetExecutor(ctx, r.pool)
	folder, err := scanFolder(executor.QueryRow(ctx, query, id))
	if err != nil {
		return nil, r.lookupError(id, err)
	}

	return folder, nil
}

// LockForUpdate takes a row lock on the folder. Image inserts referencing it
// wait on their foreign key check until the locking transaction ends.
func (r *PostgresFolderRepository) LockForUpdate(ctx context.Context, id, ownerID string) error {
	query := fmt.Sprintf(`
		SELECT id
		FROM %s
		WHERE id = $1 AND owner_id = $2
		FOR UPDATE
	`, r.tables.Folders)

	var locked string
	executor := GetExecutor(ctx, r.pool)
	if err := executor.QueryRow(ctx, query, id, ownerID).Scan(&locked); err != nil {
		return r.lookupError(id, err)
	}

	return nil
}

// ListByOwner retrieves all folders of an owner (flat list, insertion order)
func (r *PostgresFolderRepository) ListByOwner(ctx context.Context, ownerID string) ([]models.Folder, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE owner_id = $1
		ORDER BY created_at ASC, id ASC
	`, folderColumns, r.tables.Folders)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, ownerID)
	if err != nil {
		return nil, domain.Unavailable("list folders", fmt.Errorf("list folders: %w", err))
	}
	defer rows.Close()

	folders := []models.Folder{}
	for rows.Next() {
		folder, err := scanFolder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan folder: %w", err)
		}
		folders = append(folders, *folder)
	}

	if err := rows.Err(); err != nil {
		return nil, domain.Unavailable("list folders", fmt.Errorf("iterate folders: %w", err))
	}

	return folders, nil
}

// Rename updates name and updated_at only
func (r *PostgresFolderRepository) Rename(ctx context.Context, folder *models.Folder) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET name = $1, updated_at = $2
		WHERE id = $3 AND owner_id = $4
	`, r.tables.Folders)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query,
		folder.Name,
		folder.UpdatedAt,
		folder.ID,
		folder.OwnerID,
	)
	if err != nil {
		return domain.Unavailable("rename folder", fmt.Errorf("rename folder: %w", err))
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("folder %s: %w", folder.ID, domain.ErrNotFound)
	}

	return nil
}

// Delete deletes a folder. Images must already be removed by the caller;
// child folders fall back to root via ON DELETE SET NULL.
func (r *PostgresFolderRepository) Delete(ctx context.Context, id, ownerID string) error {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE id = $1 AND owner_id = $2
	`, r.tables.Folders)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, id, ownerID)
	if err != nil {
		return domain.Unavailable("delete folder", fmt.Errorf("delete folder: %w", err))
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// IncrementFileCount adds delta to file_count in a single statement so
// concurrent uploads into the same folder never lose an update.
func (r *PostgresFolderRepository) IncrementFileCount(ctx context.Context, id string, delta int) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET file_count = GREATEST(file_count + $1, 0)
		WHERE id = $2
	`, r.tables.Folders)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, delta, id)
	if err != nil {
		return domain.Unavailable("update file count", fmt.Errorf("update file count: %w", err))
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
	}

	r.logger.Debug("folder file count adjusted", "folder_id", id, "delta", delta)
	return nil
}

func (r *PostgresFolderRepository) lookupError(id string, err error) error {
	if IsPgNoRowsError(err) || IsPgInvalidTextError(err) {
		return fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
	}
	return domain.Unavailable("get folder", fmt.Errorf("get folder: %w", err))
}

func scanFolder(row pgx.Row) (*models.Folder, error) {
	var folder models.Folder
	err := row.Scan(
		&folder.ID,
		&folder.OwnerID,
		&folder.ParentID,
		&folder.Name,
		&folder.FileCount,
		&folder.CreatedAt,
		&folder.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &folder, nil
}
