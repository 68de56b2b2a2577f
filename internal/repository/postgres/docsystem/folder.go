package docsystem

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"folio/internal/domain"
	models "folio/internal/domain/models/docsystem"
	docsysRepo "folio/internal/domain/repositories/docsystem"
	"folio/internal/repository/postgres"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const folderColumns = `id, parent_id, name, is_root, created_at, updated_at`

// PostgresFolderRepository implements the FolderRepository interface
type PostgresFolderRepository struct {
	pool   *pgxpool.Pool
	tables *postgres.TableNames
	logger *slog.Logger
}

// NewFolderRepository creates a new folder repository
func NewFolderRepository(config *postgres.RepositoryConfig) docsysRepo.FolderRepository {
	return &PostgresFolderRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

func scanFolder(row pgx.Row) (*models.Folder, error) {
	var folder models.Folder
	err := row.Scan(
		&folder.ID,
		&folder.ParentID,
		&folder.Name,
		&folder.IsRoot,
		&folder.CreatedAt,
		&folder.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	folder.NodeType = models.NodeTypeFolder
	return &folder, nil
}

// Create creates a new folder
func (r *PostgresFolderRepository) Create(ctx context.Context, folder *models.Folder) error {
	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Errorf("generate folder id: %w", err)
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (id, parent_id, name, is_root, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`, r.tables.Folders)

	executor := postgres.GetExecutor(ctx, r.pool)
	err = executor.QueryRow(ctx, query,
		id.String(),
		folder.ParentID,
		folder.Name,
		folder.IsRoot,
		folder.CreatedAt,
		folder.UpdatedAt,
	).Scan(&folder.ID, &folder.CreatedAt, &folder.UpdatedAt)

	if err != nil {
		if postgres.IsPgForeignKeyError(err) || postgres.IsPgInvalidTextError(err) {
			return fmt.Errorf("parent folder %v: %w", deref(folder.ParentID), domain.ErrNotFound)
		}
		if postgres.IsPgDuplicateError(err) {
			return fmt.Errorf("root folder: %w", domain.ErrConflict)
		}
		return fmt.Errorf("create folder: %w", err)
	}

	folder.NodeType = models.NodeTypeFolder
	return nil
}

// GetByID retrieves a folder by ID
func (r *PostgresFolderRepository) GetByID(ctx context.Context, id string) (*models.Folder, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE id = $1
	`, folderColumns, r.tables.Folders)

	executor := postgres.GetExecutor(ctx, r.pool)
	folder, err := scanFolder(executor.QueryRow(ctx, query, id))
	if err != nil {
		if postgres.IsPgNoRowsError(err) || postgres.IsPgInvalidTextError(err) {
			return nil, fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get folder: %w", err)
	}

	return folder, nil
}

// GetParentID returns a folder's parent id
func (r *PostgresFolderRepository) GetParentID(ctx context.Context, id string) (*string, error) {
	query := fmt.Sprintf(`SELECT parent_id FROM %s WHERE id = $1`, r.tables.Folders)

	var parentID *string
	executor := postgres.GetExecutor(ctx, r.pool)
	if err := executor.QueryRow(ctx, query, id).Scan(&parentID); err != nil {
		if postgres.IsPgNoRowsError(err) || postgres.IsPgInvalidTextError(err) {
			return nil, fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get folder parent: %w", err)
	}

	return parentID, nil
}

// FindRoot returns the root folder or nil
func (r *PostgresFolderRepository) FindRoot(ctx context.Context) (*models.Folder, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE is_root
	`, folderColumns, r.tables.Folders)

	executor := postgres.GetExecutor(ctx, r.pool)
	folder, err := scanFolder(executor.QueryRow(ctx, query))
	if err != nil {
		if postgres.IsPgNoRowsError(err) {
			return nil, nil // No root yet, not an error
		}
		return nil, fmt.Errorf("find root folder: %w", err)
	}

	return folder, nil
}

// CreateRootIfAbsent inserts the root folder unless one exists.
// The partial unique index on is_root turns a concurrent second insert into
// a no-op; the follow-up read sees whichever insert won.
func (r *PostgresFolderRepository) CreateRootIfAbsent(ctx context.Context, name string) (*models.Folder, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("generate folder id: %w", err)
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (id, parent_id, name, is_root, created_at, updated_at)
		VALUES ($1, NULL, $2, TRUE, $3, $3)
		ON CONFLICT (is_root) WHERE is_root DO NOTHING
	`, r.tables.Folders)

	executor := postgres.GetExecutor(ctx, r.pool)
	tag, err := executor.Exec(ctx, query, id.String(), name, time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("create root folder: %w", err)
	}

	root, err := r.FindRoot(ctx)
	if err != nil {
		return nil, err
	}
	if root == nil {
		return nil, fmt.Errorf("root folder missing after insert")
	}

	if tag.RowsAffected() == 1 {
		r.logger.Info("root folder created", "id", root.ID, "name", root.Name)
	}

	return root, nil
}

// Update updates a folder
func (r *PostgresFolderRepository) Update(ctx context.Context, folder *models.Folder) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET parent_id = $1, name = $2, updated_at = $3
		WHERE id = $4
	`, r.tables.Folders)

	executor := postgres.GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query,
		folder.ParentID,
		folder.Name,
		folder.UpdatedAt,
		folder.ID,
	)

	if err != nil {
		if postgres.IsPgForeignKeyError(err) {
			return fmt.Errorf("parent folder %v: %w", deref(folder.ParentID), domain.ErrNotFound)
		}
		return fmt.Errorf("update folder: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("folder %s: %w", folder.ID, domain.ErrNotFound)
	}

	return nil
}

// Delete deletes a folder. Child folders and documents go with it through
// the ON DELETE CASCADE foreign keys.
func (r *PostgresFolderRepository) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE id = $1
	`, r.tables.Folders)

	executor := postgres.GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, id)
	if err != nil {
		if postgres.IsPgInvalidTextError(err) {
			return fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
		}
		return fmt.Errorf("delete folder: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// ListNonRoot lists all folders except the root
func (r *PostgresFolderRepository) ListNonRoot(ctx context.Context) ([]models.Folder, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE NOT is_root
		ORDER BY created_at ASC, id ASC
	`, folderColumns, r.tables.Folders)

	return r.queryFolders(ctx, query)
}

// LockHierarchy takes a transaction-scoped advisory lock keyed on the
// folders table. Attach operations holding it see each other's writes.
func (r *PostgresFolderRepository) LockHierarchy(ctx context.Context) error {
	executor := postgres.GetExecutor(ctx, r.pool)
	if _, err := executor.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, r.tables.Folders); err != nil {
		return fmt.Errorf("lock folder hierarchy: %w", err)
	}
	return nil
}

// Count returns the number of folders
func (r *PostgresFolderRepository) Count(ctx context.Context) (int, error) {
	var n int
	executor := postgres.GetExecutor(ctx, r.pool)
	if err := executor.QueryRow(ctx, fmt.Sprintf(`SELECT COUNT(*) FROM %s`, r.tables.Folders)).Scan(&n); err != nil {
		return 0, fmt.Errorf("count folders: %w", err)
	}
	return n, nil
}

func (r *PostgresFolderRepository) queryFolders(ctx context.Context, query string, args ...interface{}) ([]models.Folder, error) {
	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, args...)
	if err != nil {
		if postgres.IsPgInvalidTextError(err) {
			return []models.Folder{}, nil
		}
		return nil, fmt.Errorf("list folders: %w", err)
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
		return nil, fmt.Errorf("iterate folders: %w", err)
	}

	return folders, nil
}

func deref(s *string) string {
	if s == nil {
		return "<nil>"
	}
	return *s
}
