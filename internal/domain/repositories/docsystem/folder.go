package docsystem

import (
	"context"

	"folio/internal/domain/models/docsystem"
)

// FolderRepository defines data access operations for folders
type FolderRepository interface {
	// Create inserts a new folder; ID, CreatedAt and UpdatedAt are filled in
	Create(ctx context.Context, folder *docsystem.Folder) error

	// GetByID retrieves a folder by ID (wraps domain.ErrNotFound)
	GetByID(ctx context.Context, id string) (*docsystem.Folder, error)

	// GetParentID returns the parent of a folder, nil for root/detached folders
	GetParentID(ctx context.Context, id string) (*string, error)

	// FindRoot returns the root folder, or nil when no root exists
	FindRoot(ctx context.Context) (*docsystem.Folder, error)

	// CreateRootIfAbsent atomically inserts a root folder unless one exists.
	// Returns the root either way.
	CreateRootIfAbsent(ctx context.Context, name string) (*docsystem.Folder, error)

	// Update persists name, parent and updated_at
	Update(ctx context.Context, folder *docsystem.Folder) error

	// Delete removes a folder and, transitively, everything under it
	Delete(ctx context.Context, id string) error

	// ListNonRoot lists every folder except the root ordered by created_at
	ListNonRoot(ctx context.Context) ([]docsystem.Folder, error)

	// LockHierarchy serializes structural changes for the rest of the
	// current transaction
	LockHierarchy(ctx context.Context) error

	// Count returns the number of folders in the store
	Count(ctx context.Context) (int, error)
}
