package docsystem

import (
	"context"

	"folio/internal/domain/models/docsystem"
)

// ListingService produces read-only views of the hierarchy
type ListingService interface {
	// ListChildren returns the merged direct children of a folder
	ListChildren(ctx context.Context, folderID string) ([]docsystem.ChildItem, error)

	// ListChildrenPage returns one window of the merged children
	ListChildrenPage(ctx context.Context, folderID string, limit, offset int) ([]docsystem.ChildItem, error)

	// GetFolder returns a folder with its merged children
	GetFolder(ctx context.Context, id string) (*docsystem.FolderDetail, error)

	// ListTopLevel returns the root and its children, nil when there is no root
	ListTopLevel(ctx context.Context) (*docsystem.FolderDetail, error)

	// ListFolderSummaries returns the root first, then every other folder
	ListFolderSummaries(ctx context.Context) ([]docsystem.FolderDetail, error)

	// ListDocuments returns the flat, hierarchy-independent document listing
	ListDocuments(ctx context.Context, opts docsystem.PageOptions) (*docsystem.DocumentPage, error)
}
