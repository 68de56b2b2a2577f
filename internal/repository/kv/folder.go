package kv

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"folio/internal/domain"
	models "folio/internal/domain/models/docsystem"
	docsysRepo "folio/internal/domain/repositories/docsystem"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

// FolderRepository implements docsystem.FolderRepository on badger
type FolderRepository struct {
	store *Store
}

// NewFolderRepository creates a new folder repository
func NewFolderRepository(store *Store) docsysRepo.FolderRepository {
	return &FolderRepository{store: store}
}

func loadFolder(txn *badger.Txn, id string) (*models.Folder, error) {
	var folder models.Folder
	found, err := getJSON(txn, folderKey(id), &folder)
	if err != nil {
		return nil, fmt.Errorf("get folder: %w", err)
	}
	if !found {
		return nil, fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
	}
	folder.NodeType = models.NodeTypeFolder
	return &folder, nil
}

// putFolder writes the record and its child index entry
func putFolder(txn *badger.Txn, folder *models.Folder) error {
	if err := setJSON(txn, folderKey(folder.ID), folder); err != nil {
		return err
	}
	if folder.HasParent() {
		return txn.Set(childKey(*folder.ParentID, folder.CreatedAt, folder.ID), []byte{kindFolder})
	}
	return nil
}

func stampNew(created, updated *time.Time) {
	now := time.Now().UTC()
	if created.IsZero() {
		*created = now
	}
	if updated.IsZero() {
		*updated = *created
	}
}

// Create creates a new folder
func (r *FolderRepository) Create(ctx context.Context, folder *models.Folder) error {
	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Errorf("generate folder id: %w", err)
	}

	return r.store.update(ctx, func(txn *badger.Txn) error {
		if folder.HasParent() {
			ok, err := exists(txn, folderKey(*folder.ParentID))
			if err != nil {
				return fmt.Errorf("create folder: %w", err)
			}
			if !ok {
				return fmt.Errorf("parent folder %s: %w", *folder.ParentID, domain.ErrNotFound)
			}
		}
		if folder.IsRoot {
			ok, err := exists(txn, []byte(keyRoot))
			if err != nil {
				return fmt.Errorf("create folder: %w", err)
			}
			if ok {
				return fmt.Errorf("root folder: %w", domain.ErrConflict)
			}
		}

		folder.ID = id.String()
		folder.NodeType = models.NodeTypeFolder
		stampNew(&folder.CreatedAt, &folder.UpdatedAt)

		if err := putFolder(txn, folder); err != nil {
			return fmt.Errorf("create folder: %w", err)
		}
		if folder.IsRoot {
			return txn.Set([]byte(keyRoot), []byte(folder.ID))
		}
		return nil
	})
}

// GetByID retrieves a folder by ID
func (r *FolderRepository) GetByID(ctx context.Context, id string) (*models.Folder, error) {
	var folder *models.Folder
	err := r.store.view(ctx, func(txn *badger.Txn) error {
		var err error
		folder, err = loadFolder(txn, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return folder, nil
}

// GetParentID returns a folder's parent id
func (r *FolderRepository) GetParentID(ctx context.Context, id string) (*string, error) {
	folder, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return folder.ParentID, nil
}

func findRoot(txn *badger.Txn) (*models.Folder, error) {
	item, err := txn.Get([]byte(keyRoot))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find root folder: %w", err)
	}
	rootID, err := item.ValueCopy(nil)
	if err != nil {
		return nil, fmt.Errorf("find root folder: %w", err)
	}
	return loadFolder(txn, string(rootID))
}

// FindRoot returns the root folder or nil
func (r *FolderRepository) FindRoot(ctx context.Context) (*models.Folder, error) {
	var root *models.Folder
	err := r.store.view(ctx, func(txn *badger.Txn) error {
		var err error
		root, err = findRoot(txn)
		return err
	})
	return root, err
}

// CreateRootIfAbsent inserts the root folder unless the root marker exists.
// The check and the insert share one serialized transaction.
func (r *FolderRepository) CreateRootIfAbsent(ctx context.Context, name string) (*models.Folder, error) {
	var root *models.Folder
	created := false
	err := r.store.update(ctx, func(txn *badger.Txn) error {
		existing, err := findRoot(txn)
		if err != nil {
			return err
		}
		if existing != nil {
			root = existing
			return nil
		}

		id, err := uuid.NewV7()
		if err != nil {
			return fmt.Errorf("generate folder id: %w", err)
		}
		now := time.Now().UTC()
		root = &models.Folder{
			ID:        id.String(),
			Name:      name,
			IsRoot:    true,
			NodeType:  models.NodeTypeFolder,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := putFolder(txn, root); err != nil {
			return fmt.Errorf("create root folder: %w", err)
		}
		created = true
		return txn.Set([]byte(keyRoot), []byte(root.ID))
	})
	if err != nil {
		return nil, err
	}

	if created {
		r.store.logger.Info("root folder created", "id", root.ID, "name", root.Name)
	}
	return root, nil
}

// Update updates a folder, moving its child index entry when the parent
// changed
func (r *FolderRepository) Update(ctx context.Context, folder *models.Folder) error {
	return r.store.update(ctx, func(txn *badger.Txn) error {
		current, err := loadFolder(txn, folder.ID)
		if err != nil {
			return err
		}

		if folder.HasParent() {
			ok, err := exists(txn, folderKey(*folder.ParentID))
			if err != nil {
				return fmt.Errorf("update folder: %w", err)
			}
			if !ok {
				return fmt.Errorf("parent folder %s: %w", *folder.ParentID, domain.ErrNotFound)
			}
		}

		if current.HasParent() {
			if err := txn.Delete(childKey(*current.ParentID, current.CreatedAt, current.ID)); err != nil {
				return fmt.Errorf("update folder: %w", err)
			}
		}

		// created_at and is_root are not updatable
		current.Name = folder.Name
		current.ParentID = folder.ParentID
		current.UpdatedAt = folder.UpdatedAt
		if current.UpdatedAt.IsZero() {
			current.UpdatedAt = time.Now().UTC()
		}

		if err := putFolder(txn, current); err != nil {
			return fmt.Errorf("update folder: %w", err)
		}
		*folder = *current
		return nil
	})
}

// Delete removes a folder and everything reachable through its child index
func (r *FolderRepository) Delete(ctx context.Context, id string) error {
	return r.store.update(ctx, func(txn *badger.Txn) error {
		folder, err := loadFolder(txn, id)
		if err != nil {
			return err
		}
		if folder.HasParent() {
			if err := txn.Delete(childKey(*folder.ParentID, folder.CreatedAt, folder.ID)); err != nil {
				return fmt.Errorf("delete folder: %w", err)
			}
		}
		return deleteSubtree(txn, folder)
	})
}

// deleteSubtree removes folder, its descendants and their index entries.
// The caller removes the folder's own entry in its parent's index.
func deleteSubtree(txn *badger.Txn, folder *models.Folder) error {
	children, err := scanIndex(txn, childPrefix(folder.ID), 0, 0)
	if err != nil {
		return fmt.Errorf("delete folder: %w", err)
	}

	for _, child := range children {
		switch child.kind {
		case kindFolder:
			sub, err := loadFolder(txn, child.id)
			if err != nil {
				return err
			}
			if err := deleteSubtree(txn, sub); err != nil {
				return err
			}
		case kindDocument:
			if err := deleteDocumentRecord(txn, child.id); err != nil {
				return err
			}
		}
		if err := txn.Delete(child.key); err != nil {
			return fmt.Errorf("delete folder: %w", err)
		}
	}

	if folder.IsRoot {
		if err := txn.Delete([]byte(keyRoot)); err != nil {
			return fmt.Errorf("delete folder: %w", err)
		}
	}
	if err := txn.Delete(folderKey(folder.ID)); err != nil {
		return fmt.Errorf("delete folder: %w", err)
	}
	return nil
}

// ListNonRoot lists all folders except the root
func (r *FolderRepository) ListNonRoot(ctx context.Context) ([]models.Folder, error) {
	folders := []models.Folder{}
	err := r.store.view(ctx, func(txn *badger.Txn) error {
		prefix := []byte(prefixFolder)
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var folder models.Folder
			err := it.Item().Value(func(val []byte) error {
				return decodeJSON(val, &folder)
			})
			if err != nil {
				return fmt.Errorf("list folders: %w", err)
			}
			if folder.IsRoot {
				continue
			}
			folder.NodeType = models.NodeTypeFolder
			folders = append(folders, folder)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(folders, func(i, j int) bool {
		if !folders[i].CreatedAt.Equal(folders[j].CreatedAt) {
			return folders[i].CreatedAt.Before(folders[j].CreatedAt)
		}
		return folders[i].ID < folders[j].ID
	})
	return folders, nil
}

// LockHierarchy is satisfied by the store's write serialization: every
// read-write transaction already runs alone.
func (r *FolderRepository) LockHierarchy(ctx context.Context) error {
	return nil
}

// Count returns the number of folders
func (r *FolderRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.store.view(ctx, func(txn *badger.Txn) error {
		n = countPrefix(txn, []byte(prefixFolder))
		return nil
	})
	return n, err
}
