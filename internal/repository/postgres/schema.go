package postgres

import (
	"context"
	_ "embed"
	"fmt"
	"strings"
)

//go:embed schema.sql
var schemaSQL string

// SchemaSQL renders the embedded schema for the given table names
func SchemaSQL(tables *TableNames) string {
	return strings.NewReplacer(
		"{{folders}}", tables.Folders,
		"{{images}}", tables.Images,
	).Replace(schemaSQL)
}

// Migrate creates the tables and indexes if they do not exist yet.
// The statements run without arguments, so pgx sends them over the simple protocol.
func Migrate(ctx context.Context, pool Pool, tables *TableNames) error {
	if _, err := pool.Exec(ctx, SchemaSQL(tables)); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// DropTables removes the tables for one environment prefix.
// Images go first because they reference folders.
func DropTables(ctx context.Context, pool Pool, tables *TableNames) error {
	query := fmt.Sprintf(`
		DROP TABLE IF EXISTS %s CASCADE;
		DROP TABLE IF EXISTS %s CASCADE;
	`, tables.Images, tables.Folders)

	if _, err := pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("drop tables: %w", err)
	}
	return nil
}
