package docsystem

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"folio/internal/config"
	"folio/internal/domain"
	models "folio/internal/domain/models/docsystem"
	"folio/internal/domain/repositories"
	docsysRepo "folio/internal/domain/repositories/docsystem"
	docsysSvc "folio/internal/domain/services/docsystem"
	"folio/internal/httputil"
)

type folderService struct {
	folderRepo docsysRepo.FolderRepository
	txManager  repositories.TransactionManager
	validator  *ResourceValidator
	rootName   string
	now        func() time.Time
	logger     *slog.Logger
}

// NewFolderService creates a new folder service
func NewFolderService(
	folderRepo docsysRepo.FolderRepository,
	txManager repositories.TransactionManager,
	validator *ResourceValidator,
	rootName string,
	logger *slog.Logger,
	opts ...Option,
) docsysSvc.FolderService {
	if rootName == "" {
		rootName = config.DefaultRootFolderName
	}
	o := buildOptions(opts)
	return &folderService{
		folderRepo: folderRepo,
		txManager:  txManager,
		validator:  validator,
		rootName:   rootName,
		now:        o.now,
		logger:     logger,
	}
}

// CreateFolder creates a new folder.
// Without a parent the folder is detached: valid, but not reachable from
// the root listing.
func (s *folderService) CreateFolder(ctx context.Context, req *docsysSvc.CreateFolderRequest) (*models.Folder, error) {
	name := strings.TrimSpace(req.Name)
	if err := validateFolderName(name); err != nil {
		return nil, err
	}
	parentID := normalizeID(req.FolderID)

	now := s.now()
	folder := &models.Folder{
		ParentID:  parentID,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if parentID != nil {
			// A new folder has no descendants, so only the parent's
			// existence needs checking. The lock orders this insert
			// against concurrent moves and deletes.
			if err := s.folderRepo.LockHierarchy(txCtx); err != nil {
				return err
			}
			if err := s.validator.ValidateFolder(txCtx, *parentID); err != nil {
				return err
			}
		}
		return s.folderRepo.Create(txCtx, folder)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("folder created",
		"id", folder.ID,
		"name", folder.Name,
		"parent_id", folder.ParentID,
	)

	return folder, nil
}

// RenameFolder changes a folder's name
func (s *folderService) RenameFolder(ctx context.Context, id, name string) (*models.Folder, error) {
	return s.UpdateFolder(ctx, id, &docsysSvc.UpdateFolderRequest{Name: &name})
}

// MoveFolder re-parents a folder; a nil parent detaches it
func (s *folderService) MoveFolder(ctx context.Context, id string, parentID *string) (*models.Folder, error) {
	return s.UpdateFolder(ctx, id, &docsysSvc.UpdateFolderRequest{
		FolderID: httputil.Set(parentID),
	})
}

// UpdateFolder renames and/or moves a folder in one transaction
func (s *folderService) UpdateFolder(ctx context.Context, id string, req *docsysSvc.UpdateFolderRequest) (*models.Folder, error) {
	if req.Name == nil && !req.FolderID.Present {
		return nil, &domain.ValidationError{Message: "at least one of name or parent_id must be provided"}
	}

	var name string
	if req.Name != nil {
		name = strings.TrimSpace(*req.Name)
		if err := validateFolderName(name); err != nil {
			return nil, err
		}
	}

	var folder *models.Folder
	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if req.FolderID.Present {
			if err := s.folderRepo.LockHierarchy(txCtx); err != nil {
				return err
			}
		}

		var err error
		folder, err = s.folderRepo.GetByID(txCtx, id)
		if err != nil {
			return err
		}

		if req.Name != nil {
			folder.Name = name
		}

		// Tri-state: only move when parent_id was present in the request
		if req.FolderID.Present {
			parentID := normalizeID(req.FolderID.Value)
			if err := s.checkAttach(txCtx, folder, parentID); err != nil {
				return err
			}
			folder.ParentID = parentID
		}

		folder.UpdatedAt = s.now()
		return s.folderRepo.Update(txCtx, folder)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("folder updated",
		"id", folder.ID,
		"name", folder.Name,
		"parent_id", folder.ParentID,
	)

	return folder, nil
}

// checkAttach validates placing folder under parentID. Must run under
// LockHierarchy in the transaction that performs the write.
func (s *folderService) checkAttach(ctx context.Context, folder *models.Folder, parentID *string) error {
	if parentID == nil {
		return nil
	}
	if folder.IsRoot {
		return &domain.ValidationError{Message: "root folder cannot be placed under another folder"}
	}
	if err := s.validator.ValidateFolder(ctx, *parentID); err != nil {
		return err
	}

	cycle, err := wouldCreateCycle(ctx, folder.ID, *parentID, s.folderRepo.GetParentID)
	if err != nil {
		return fmt.Errorf("cycle check: %w", err)
	}
	if cycle {
		s.logger.Warn("rejected folder move",
			"id", folder.ID,
			"parent_id", *parentID,
			"reason", "cycle",
		)
		return &domain.CycleError{FolderID: folder.ID, ParentID: *parentID}
	}
	return nil
}

// DeleteFolder deletes a folder and all its contents. The store cascades to
// every descendant folder and document. Deleting the root is allowed;
// EnsureRoot creates a fresh one afterwards.
func (s *folderService) DeleteFolder(ctx context.Context, id string) error {
	var folder *models.Folder
	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if err := s.folderRepo.LockHierarchy(txCtx); err != nil {
			return err
		}
		var err error
		folder, err = s.folderRepo.GetByID(txCtx, id)
		if err != nil {
			return err
		}
		return s.folderRepo.Delete(txCtx, id)
	})
	if err != nil {
		return err
	}

	s.logger.Info("folder deleted",
		"id", folder.ID,
		"name", folder.Name,
		"is_root", folder.IsRoot,
	)

	return nil
}

// EnsureRoot returns the root folder, creating it when absent
func (s *folderService) EnsureRoot(ctx context.Context) (*models.Folder, error) {
	root, err := s.folderRepo.FindRoot(ctx)
	if err != nil {
		return nil, err
	}
	if root != nil {
		return root, nil
	}

	root, err = s.folderRepo.CreateRootIfAbsent(ctx, s.rootName)
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			// Lost a race the store did not absorb; the winner's root exists now
			return s.folderRepo.FindRoot(ctx)
		}
		return nil, err
	}
	return root, nil
}
