package docsystem

import (
	"context"

	"folio/internal/domain/models/docsystem"
)

// ListingRepository reads the merged folder/document children of a folder
type ListingRepository interface {
	// ListChildren returns folders and documents whose parent is folderID as a
	// single sequence ordered by created_at (ties by id).
	// limit <= 0 returns everything from offset on.
	ListChildren(ctx context.Context, folderID string, limit, offset int) ([]docsystem.ChildItem, error)
}
