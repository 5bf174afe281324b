package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"clipnest/internal/domain"
	"clipnest/internal/domain/models"
	"clipnest/internal/domain/repositories"

	"github.com/jackc/pgx/v5"
)

const imageColumns = "id, owner_id, folder_id, name, locator, content_type, size_bytes, created_at"

// PostgresImageRepository implements the ImageRepository interface
type PostgresImageRepository struct {
	pool   Pool
	tables *TableNames
	logger *slog.Logger
}

// NewImageRepository creates a new image repository
func NewImageRepository(config *RepositoryConfig) repositories.ImageRepository {
	return &PostgresImageRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// Create inserts an image record
func (r *PostgresImageRepository) Create(ctx context.Context, image *models.Image) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (owner_id, folder_id, name, locator, content_type, size_bytes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`, r.tables.Images)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		image.OwnerID,
		image.FolderID,
		image.Name,
		image.Locator,
		image.ContentType,
		image.Size,
		image.CreatedAt,
	).Scan(&image.ID, &image.CreatedAt)

	if err != nil {
		if IsPgForeignKeyError(err) {
			return fmt.Errorf("folder: %w", domain.ErrNotFound)
		}
		return domain.Unavailable("create image", fmt.Errorf("create image: %w", err))
	}

	return nil
}

// GetByIDOnly retrieves an image by ID without owner scoping
func (r *PostgresImageRepository) GetByIDOnly(ctx context.Context, id string) (*models.Image, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE id = $1
	`, imageColumns, r.tables.Images)

	executor := GetExecutor(ctx, r.pool)
	image, err := scanImage(executor.QueryRow(ctx, query, id))
	if err != nil {
		if IsPgNoRowsError(err) || IsPgInvalidTextError(err) {
			return nil, fmt.Errorf("image %s: %w", id, domain.ErrNotFound)
		}
		return nil, domain.Unavailable("get image", fmt.Errorf("get image: %w", err))
	}

	return image, nil
}

// ListByOwner lists an owner's images in upload order.
// A non-nil folderID restricts the result to that folder.
func (r *PostgresImageRepository) ListByOwner(ctx context.Context, ownerID string, folderID *string) ([]models.Image, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE owner_id = $1
	`, imageColumns, r.tables.Images)
	args := []any{ownerID}

	if folderID != nil {
		query += ` AND folder_id = $2`
		args = append(args, *folderID)
	}
	query += ` ORDER BY created_at ASC, id ASC`

	return r.queryImages(ctx, "list images", query, args...)
}

// SearchByName matches query as a literal, case-insensitive substring of name
func (r *PostgresImageRepository) SearchByName(ctx context.Context, ownerID, query string) ([]models.Image, error) {
	sql := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE owner_id = $1 AND name ILIKE '%%' || $2 || '%%' ESCAPE '\'
		ORDER BY created_at ASC, id ASC
	`, imageColumns, r.tables.Images)

	return r.queryImages(ctx, "search images", sql, ownerID, EscapeLike(query))
}

// Delete removes one image and returns the deleted row
func (r *PostgresImageRepository) Delete(ctx context.Context, id, ownerID string) (*models.Image, error) {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE id = $1 AND owner_id = $2
		RETURNING %s
	`, r.tables.Images, imageColumns)

	executor := GetExecutor(ctx, r.pool)
	image, err := scanImage(executor.QueryRow(ctx, query, id, ownerID))
	if err != nil {
		if IsPgNoRowsError(err) || IsPgInvalidTextError(err) {
			return nil, fmt.Errorf("image %s: %w", id, domain.ErrNotFound)
		}
		return nil, domain.Unavailable("delete image", fmt.Errorf("delete image: %w", err))
	}

	return image, nil
}

// DeleteByFolder removes every image filed in folderID, regardless of owner
func (r *PostgresImageRepository) DeleteByFolder(ctx context.Context, folderID string) ([]models.Image, error) {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE folder_id = $1
		RETURNING %s
	`, r.tables.Images, imageColumns)

	return r.queryImages(ctx, "delete folder images", query, folderID)
}

func (r *PostgresImageRepository) queryImages(ctx context.Context, op, query string, args ...any) ([]models.Image, error) {
	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, args...)
	if err != nil {
		return nil, domain.Unavailable(op, fmt.Errorf("%s: %w", op, err))
	}
	defer rows.Close()

	images := []models.Image{}
	for rows.Next() {
		image, err := scanImage(rows)
		if err != nil {
			return nil, fmt.Errorf("scan image: %w", err)
		}
		images = append(images, *image)
	}

	if err := rows.Err(); err != nil {
		return nil, domain.Unavailable(op, fmt.Errorf("iterate images: %w", err))
	}

	return images, nil
}

// EscapeLike escapes LIKE metacharacters so the value matches literally
// (used with ESCAPE '\').
func EscapeLike(s string) string {
	return likeEscaper.Replace(s)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func scanImage(row pgx.Row) (*models.Image, error) {
	var image models.Image
	err := row.Scan(
		&image.ID,
		&image.OwnerID,
		&image.FolderID,
		&image.Name,
		&image.Locator,
		&image.ContentType,
		&image.Size,
		&image.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &image, nil
}
