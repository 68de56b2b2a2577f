package docsystem

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"folio/internal/domain"
	models "folio/internal/domain/models/docsystem"
	"folio/internal/domain/repositories"
	docsysRepo "folio/internal/domain/repositories/docsystem"
	"folio/internal/domain/services"
	docsysSvc "folio/internal/domain/services/docsystem"
)

// documentService implements the DocumentService interface
type documentService struct {
	docRepo       docsysRepo.DocumentRepository
	folderService docsysSvc.FolderService
	txManager     repositories.TransactionManager
	validator     *ResourceValidator
	authorizer    services.DocumentAuthorizer
	now           func() time.Time
	logger        *slog.Logger
}

// NewDocumentService creates a new document service
func NewDocumentService(
	docRepo docsysRepo.DocumentRepository,
	folderService docsysSvc.FolderService, // root resolution
	txManager repositories.TransactionManager,
	validator *ResourceValidator,
	authorizer services.DocumentAuthorizer,
	logger *slog.Logger,
	opts ...Option,
) docsysSvc.DocumentService {
	o := buildOptions(opts)
	return &documentService{
		docRepo:       docRepo,
		folderService: folderService,
		txManager:     txManager,
		validator:     validator,
		authorizer:    authorizer,
		now:           o.now,
		logger:        logger,
	}
}

// CreateDocument creates a document owned by the caller.
// Without parent_id the document goes into the root folder, which is
// created on first use.
func (s *documentService) CreateDocument(ctx context.Context, req *docsysSvc.CreateDocumentRequest) (*models.Document, error) {
	if req.OwnerID == "" {
		return nil, fmt.Errorf("create document: %w", domain.ErrUnauthorized)
	}

	title := models.DefaultDocumentTitle
	if req.Title != nil {
		title = strings.TrimSpace(*req.Title)
		if err := validateDocumentTitle(title); err != nil {
			return nil, err
		}
	}
	parentID := normalizeID(req.FolderID)

	now := s.now()
	doc := &models.Document{
		OwnerID:   req.OwnerID,
		Title:     title,
		Content:   req.Content,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if parentID == nil {
			root, err := s.folderService.EnsureRoot(txCtx)
			if err != nil {
				return fmt.Errorf("resolve root folder: %w", err)
			}
			doc.ParentID = root.ID
		} else {
			if err := s.validator.ValidateFolder(txCtx, *parentID); err != nil {
				return err
			}
			doc.ParentID = *parentID
		}
		return s.docRepo.Create(txCtx, doc)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("document created",
		"id", doc.ID,
		"title", doc.Title,
		"parent_id", doc.ParentID,
		"owner_id", doc.OwnerID,
	)

	return doc, nil
}

// GetDocument retrieves a document
func (s *documentService) GetDocument(ctx context.Context, id string) (*models.Document, error) {
	return s.docRepo.GetByID(ctx, id)
}

// UpdateDocument applies the provided fields. Only the owner may update;
// owner_id itself never changes.
func (s *documentService) UpdateDocument(ctx context.Context, id string, req *docsysSvc.UpdateDocumentRequest) (*models.Document, error) {
	var doc *models.Document
	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		var err error
		doc, err = s.docRepo.GetByID(txCtx, id)
		if err != nil {
			return err
		}

		if err := s.authorizer.CanModifyDocument(txCtx, req.CallerID, doc); err != nil {
			return err
		}

		if req.Title != nil {
			title := strings.TrimSpace(*req.Title)
			if err := validateDocumentTitle(title); err != nil {
				return err
			}
			doc.Title = title
		}
		if req.Content != nil {
			doc.Content = *req.Content
		}

		doc.UpdatedAt = s.now()
		return s.docRepo.Update(txCtx, doc)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("document updated",
		"id", doc.ID,
		"title", doc.Title,
	)

	return doc, nil
}

// DeleteDocument deletes a document. Only the owner may delete.
func (s *documentService) DeleteDocument(ctx context.Context, id, callerID string) error {
	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		doc, err := s.docRepo.GetByID(txCtx, id)
		if err != nil {
			return err
		}

		if err := s.authorizer.CanModifyDocument(txCtx, callerID, doc); err != nil {
			return err
		}

		return s.docRepo.Delete(txCtx, id)
	})
	if err != nil {
		return err
	}

	s.logger.Info("document deleted", "id", id)
	return nil
}
