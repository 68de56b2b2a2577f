package docsystem

import (
	"context"
	"fmt"
	"log/slog"

	"folio/internal/domain"
	models "folio/internal/domain/models/docsystem"
	docsysRepo "folio/internal/domain/repositories/docsystem"
	docsysSvc "folio/internal/domain/services/docsystem"
)

// listingService implements the ListingService interface
type listingService struct {
	folderRepo  docsysRepo.FolderRepository
	docRepo     docsysRepo.DocumentRepository
	listingRepo docsysRepo.ListingRepository
	logger      *slog.Logger
}

// NewListingService creates a new listing service
func NewListingService(
	folderRepo docsysRepo.FolderRepository,
	docRepo docsysRepo.DocumentRepository,
	listingRepo docsysRepo.ListingRepository,
	logger *slog.Logger,
) docsysSvc.ListingService {
	return &listingService{
		folderRepo:  folderRepo,
		docRepo:     docRepo,
		listingRepo: listingRepo,
		logger:      logger,
	}
}

// ListChildren returns every direct child of a folder
func (s *listingService) ListChildren(ctx context.Context, folderID string) ([]models.ChildItem, error) {
	return s.ListChildrenPage(ctx, folderID, 0, 0)
}

// ListChildrenPage returns one window of a folder's children
func (s *listingService) ListChildrenPage(ctx context.Context, folderID string, limit, offset int) ([]models.ChildItem, error) {
	if limit < 0 || offset < 0 {
		return nil, &domain.ValidationError{Message: "limit and offset must not be negative"}
	}
	if _, err := s.folderRepo.GetByID(ctx, folderID); err != nil {
		return nil, err
	}
	return s.listingRepo.ListChildren(ctx, folderID, limit, offset)
}

// GetFolder returns a folder with its merged children
func (s *listingService) GetFolder(ctx context.Context, id string) (*models.FolderDetail, error) {
	folder, err := s.folderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.detail(ctx, folder)
}

// ListTopLevel returns the root with its children. A missing root yields
// nil; it is not created here.
func (s *listingService) ListTopLevel(ctx context.Context) (*models.FolderDetail, error) {
	root, err := s.folderRepo.FindRoot(ctx)
	if err != nil {
		return nil, err
	}
	if root == nil {
		return nil, nil
	}
	return s.detail(ctx, root)
}

// ListFolderSummaries returns the root (if any) followed by every other
// folder in creation order, each with its children
func (s *listingService) ListFolderSummaries(ctx context.Context) ([]models.FolderDetail, error) {
	summaries := []models.FolderDetail{}

	root, err := s.folderRepo.FindRoot(ctx)
	if err != nil {
		return nil, err
	}
	if root != nil {
		detail, err := s.detail(ctx, root)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, *detail)
	}

	folders, err := s.folderRepo.ListNonRoot(ctx)
	if err != nil {
		return nil, fmt.Errorf("list folders: %w", err)
	}
	for i := range folders {
		detail, err := s.detail(ctx, &folders[i])
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, *detail)
	}

	return summaries, nil
}

// ListDocuments returns one page of the flat document listing. A page past
// the end has no items but still carries the totals.
func (s *listingService) ListDocuments(ctx context.Context, opts models.PageOptions) (*models.DocumentPage, error) {
	opts.ApplyDefaults()
	if err := opts.Validate(); err != nil {
		return nil, &domain.ValidationError{Message: err.Error()}
	}

	total, err := s.docRepo.Count(ctx)
	if err != nil {
		return nil, err
	}

	items := []models.Document{}
	if opts.Offset() < total {
		items, err = s.docRepo.List(ctx, opts.PerPage, opts.Offset())
		if err != nil {
			return nil, err
		}
	}

	s.logger.Debug("documents listed",
		"page", opts.Page,
		"per_page", opts.PerPage,
		"total", total,
	)

	return models.NewDocumentPage(items, total, opts), nil
}

func (s *listingService) detail(ctx context.Context, folder *models.Folder) (*models.FolderDetail, error) {
	children, err := s.listingRepo.ListChildren(ctx, folder.ID, 0, 0)
	if err != nil {
		return nil, err
	}
	return &models.FolderDetail{Folder: *folder, Children: children}, nil
}
