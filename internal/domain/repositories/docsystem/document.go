package docsystem

import (
	"context"

	"folio/internal/domain/models/docsystem"
)

// DocumentRepository defines data access operations for documents
type DocumentRepository interface {
	// Create creates a new document
	Create(ctx context.Context, doc *docsystem.Document) error

	// GetByID retrieves a document by ID (wraps domain.ErrNotFound)
	GetByID(ctx context.Context, id string) (*docsystem.Document, error)

	// Update updates title, content and updated_at
	Update(ctx context.Context, doc *docsystem.Document) error

	// Delete deletes a document
	Delete(ctx context.Context, id string) error

	// List returns documents in store order (created_at, id)
	List(ctx context.Context, limit, offset int) ([]docsystem.Document, error)

	// Count returns the number of documents in the store
	Count(ctx context.Context) (int, error)
}
