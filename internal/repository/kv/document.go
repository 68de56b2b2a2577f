package kv

import (
	"context"
	"fmt"

	"folio/internal/domain"
	models "folio/internal/domain/models/docsystem"
	docsysRepo "folio/internal/domain/repositories/docsystem"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

// DocumentRepository implements docsystem.DocumentRepository on badger
type DocumentRepository struct {
	store *Store
}

// NewDocumentRepository creates a new document repository
func NewDocumentRepository(store *Store) docsysRepo.DocumentRepository {
	return &DocumentRepository{store: store}
}

func loadDocument(txn *badger.Txn, id string) (*models.Document, error) {
	var doc models.Document
	found, err := getJSON(txn, documentKey(id), &doc)
	if err != nil {
		return nil, fmt.Errorf("get document: %w", err)
	}
	if !found {
		return nil, fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
	}
	return &doc, nil
}

// deleteDocumentRecord removes the record and its position in the flat
// listing. The parent's child index entry is left to the caller.
func deleteDocumentRecord(txn *badger.Txn, id string) error {
	doc, err := loadDocument(txn, id)
	if err != nil {
		return err
	}
	if err := txn.Delete(docOrderKey(doc.CreatedAt, doc.ID)); err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	if err := txn.Delete(documentKey(doc.ID)); err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	return nil
}

// Create creates a new document
func (r *DocumentRepository) Create(ctx context.Context, doc *models.Document) error {
	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Errorf("generate document id: %w", err)
	}

	return r.store.update(ctx, func(txn *badger.Txn) error {
		ok, err := exists(txn, folderKey(doc.ParentID))
		if err != nil {
			return fmt.Errorf("create document: %w", err)
		}
		if !ok {
			return fmt.Errorf("parent folder %s: %w", doc.ParentID, domain.ErrNotFound)
		}

		doc.ID = id.String()
		stampNew(&doc.CreatedAt, &doc.UpdatedAt)

		if err := setJSON(txn, documentKey(doc.ID), doc); err != nil {
			return fmt.Errorf("create document: %w", err)
		}
		if err := txn.Set(childKey(doc.ParentID, doc.CreatedAt, doc.ID), []byte{kindDocument}); err != nil {
			return fmt.Errorf("create document: %w", err)
		}
		if err := txn.Set(docOrderKey(doc.CreatedAt, doc.ID), nil); err != nil {
			return fmt.Errorf("create document: %w", err)
		}
		return nil
	})
}

// GetByID retrieves a document by ID
func (r *DocumentRepository) GetByID(ctx context.Context, id string) (*models.Document, error) {
	var doc *models.Document
	err := r.store.view(ctx, func(txn *badger.Txn) error {
		var err error
		doc, err = loadDocument(txn, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// Update updates title, content and updated_at. owner_id, parent_id and
// created_at keep their stored values.
func (r *DocumentRepository) Update(ctx context.Context, doc *models.Document) error {
	return r.store.update(ctx, func(txn *badger.Txn) error {
		current, err := loadDocument(txn, doc.ID)
		if err != nil {
			return err
		}

		current.Title = doc.Title
		current.Content = doc.Content
		current.UpdatedAt = doc.UpdatedAt

		if err := setJSON(txn, documentKey(current.ID), current); err != nil {
			return fmt.Errorf("update document: %w", err)
		}
		*doc = *current
		return nil
	})
}

// Delete deletes a document
func (r *DocumentRepository) Delete(ctx context.Context, id string) error {
	return r.store.update(ctx, func(txn *badger.Txn) error {
		doc, err := loadDocument(txn, id)
		if err != nil {
			return err
		}
		if err := txn.Delete(childKey(doc.ParentID, doc.CreatedAt, doc.ID)); err != nil {
			return fmt.Errorf("delete document: %w", err)
		}
		return deleteDocumentRecord(txn, id)
	})
}

// List returns one window of documents in store order
func (r *DocumentRepository) List(ctx context.Context, limit, offset int) ([]models.Document, error) {
	documents := []models.Document{}
	err := r.store.view(ctx, func(txn *badger.Txn) error {
		entries, err := scanIndex(txn, []byte(prefixDocOrder), limit, offset)
		if err != nil {
			return fmt.Errorf("list documents: %w", err)
		}
		for _, entry := range entries {
			doc, err := loadDocument(txn, entry.id)
			if err != nil {
				return err
			}
			documents = append(documents, *doc)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return documents, nil
}

// Count returns the number of documents
func (r *DocumentRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.store.view(ctx, func(txn *badger.Txn) error {
		n = countPrefix(txn, []byte(prefixDocOrder))
		return nil
	})
	return n, err
}
