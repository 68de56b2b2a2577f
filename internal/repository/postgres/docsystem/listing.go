package docsystem

import (
	"context"
	"fmt"
	"log/slog"

	models "folio/internal/domain/models/docsystem"
	docsysRepo "folio/internal/domain/repositories/docsystem"
	"folio/internal/repository/postgres"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresListingRepository implements the ListingRepository interface
type PostgresListingRepository struct {
	pool   *pgxpool.Pool
	tables *postgres.TableNames
	logger *slog.Logger
}

// NewListingRepository creates a new listing repository
func NewListingRepository(config *postgres.RepositoryConfig) docsysRepo.ListingRepository {
	return &PostgresListingRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// childrenQuery unions both node tables and orders the result as one
// sequence, so LIMIT/OFFSET window the interleaved list rather than each
// kind separately.
func (r *PostgresListingRepository) childrenQuery() string {
	return fmt.Sprintf(`
		SELECT id, name, kind, created_at, updated_at, has_children, content
		FROM (
			SELECT id, name, '%s'::text AS kind, created_at, updated_at,
			       TRUE AS has_children, NULL::text AS content
			FROM %s
			WHERE parent_id = $1
			UNION ALL
			SELECT id, title, '%s'::text, created_at, updated_at,
			       FALSE, content
			FROM %s
			WHERE parent_id = $1
		) AS children
		ORDER BY created_at ASC, id ASC
		LIMIT $2 OFFSET $3
	`, models.ChildKindFolder, r.tables.Folders, models.ChildKindFile, r.tables.Documents)
}

// ListChildren returns the merged children of a folder
func (r *PostgresListingRepository) ListChildren(ctx context.Context, folderID string, limit, offset int) ([]models.ChildItem, error) {
	var limitArg *int
	if limit > 0 {
		limitArg = &limit
	}
	if offset < 0 {
		offset = 0
	}

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, r.childrenQuery(), folderID, limitArg, offset)
	if err != nil {
		if postgres.IsPgInvalidTextError(err) {
			return []models.ChildItem{}, nil
		}
		return nil, fmt.Errorf("list children: %w", err)
	}
	defer rows.Close()

	items := []models.ChildItem{}
	for rows.Next() {
		var item models.ChildItem
		var kind string
		err := rows.Scan(
			&item.ID,
			&item.Name,
			&kind,
			&item.CreatedAt,
			&item.UpdatedAt,
			&item.HasChildren,
			&item.Content,
		)
		if err != nil {
			return nil, fmt.Errorf("scan child: %w", err)
		}
		item.Type = models.ChildKind(kind)
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate children: %w", err)
	}

	return items, nil
}
