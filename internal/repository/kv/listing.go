package kv

import (
	"context"
	"fmt"

	models "folio/internal/domain/models/docsystem"
	docsysRepo "folio/internal/domain/repositories/docsystem"

	"github.com/dgraph-io/badger/v4"
)

// ListingRepository implements docsystem.ListingRepository on badger
type ListingRepository struct {
	store *Store
}

// NewListingRepository creates a new listing repository
func NewListingRepository(store *Store) docsysRepo.ListingRepository {
	return &ListingRepository{store: store}
}

// ListChildren windows the folder's child index. Folders and documents
// share the index, so one scan yields the merged order.
func (r *ListingRepository) ListChildren(ctx context.Context, folderID string, limit, offset int) ([]models.ChildItem, error) {
	if offset < 0 {
		offset = 0
	}

	items := []models.ChildItem{}
	err := r.store.view(ctx, func(txn *badger.Txn) error {
		entries, err := scanIndex(txn, childPrefix(folderID), limit, offset)
		if err != nil {
			return fmt.Errorf("list children: %w", err)
		}
		for _, entry := range entries {
			switch entry.kind {
			case kindFolder:
				folder, err := loadFolder(txn, entry.id)
				if err != nil {
					return err
				}
				items = append(items, models.FolderChild(folder))
			case kindDocument:
				doc, err := loadDocument(txn, entry.id)
				if err != nil {
					return err
				}
				items = append(items, models.DocumentChild(doc))
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}
