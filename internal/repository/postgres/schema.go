package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schemaSQL creates the node tables. %[1]s is the table prefix.
// Both parent references cascade so deleting a folder removes its subtree.
const schemaSQL = `
CREATE TABLE IF NOT EXISTS %[1]sfolders (
	id         UUID PRIMARY KEY,
	parent_id  UUID REFERENCES %[1]sfolders(id) ON DELETE CASCADE,
	name       VARCHAR(255) NOT NULL CHECK (name <> ''),
	is_root    BOOLEAN NOT NULL DEFAULT FALSE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	CONSTRAINT %[1]sfolders_root_has_no_parent CHECK (NOT is_root OR parent_id IS NULL),
	CONSTRAINT %[1]sfolders_not_own_parent CHECK (parent_id IS NULL OR parent_id <> id)
);

CREATE UNIQUE INDEX IF NOT EXISTS %[1]sfolders_single_root
	ON %[1]sfolders (is_root) WHERE is_root;

CREATE INDEX IF NOT EXISTS %[1]sfolders_parent_created
	ON %[1]sfolders (parent_id, created_at, id);

CREATE TABLE IF NOT EXISTS %[1]sdocuments (
	id         UUID PRIMARY KEY,
	parent_id  UUID NOT NULL REFERENCES %[1]sfolders(id) ON DELETE CASCADE,
	owner_id   TEXT NOT NULL,
	title      VARCHAR(100) NOT NULL CHECK (title <> ''),
	content    TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS %[1]sdocuments_parent_created
	ON %[1]sdocuments (parent_id, created_at, id);

CREATE INDEX IF NOT EXISTS %[1]sdocuments_created
	ON %[1]sdocuments (created_at, id);
`

// Migrate creates the schema if it does not exist yet
func Migrate(ctx context.Context, pool *pgxpool.Pool, tables *TableNames) error {
	if _, err := pool.Exec(ctx, fmt.Sprintf(schemaSQL, tables.Prefix)); err != nil {
		return fmt.Errorf("run schema: %w", err)
	}
	return nil
}

// DropTables removes both node tables
func DropTables(ctx context.Context, pool *pgxpool.Pool, tables *TableNames) error {
	query := fmt.Sprintf(`
		DROP TABLE IF EXISTS %s CASCADE;
		DROP TABLE IF EXISTS %s CASCADE;
	`, tables.Documents, tables.Folders)
	if _, err := pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("drop tables: %w", err)
	}
	return nil
}
