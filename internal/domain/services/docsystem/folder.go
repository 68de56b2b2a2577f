package docsystem

import (
	"context"

	"folio/internal/domain/models/docsystem"
	"folio/internal/httputil"
)

// FolderService maintains the folder hierarchy
type FolderService interface {
	// CreateFolder creates a folder, attached under FolderID when given
	CreateFolder(ctx context.Context, req *CreateFolderRequest) (*docsystem.Folder, error)

	// RenameFolder changes a folder's name
	RenameFolder(ctx context.Context, id, name string) (*docsystem.Folder, error)

	// MoveFolder re-parents a folder; nil parent detaches it
	MoveFolder(ctx context.Context, id string, parentID *string) (*docsystem.Folder, error)

	// UpdateFolder applies a rename and/or move in one transaction
	UpdateFolder(ctx context.Context, id string, req *UpdateFolderRequest) (*docsystem.Folder, error)

	// DeleteFolder deletes a folder and everything under it
	DeleteFolder(ctx context.Context, id string) error

	// EnsureRoot returns the root folder, creating it on first use
	EnsureRoot(ctx context.Context) (*docsystem.Folder, error)
}

// CreateFolderRequest represents a folder creation request
type CreateFolderRequest struct {
	Name     string  `json:"name"`
	FolderID *string `json:"parent_id,omitempty"` // Parent folder ID (nil = detached)
}

// UpdateFolderRequest represents a folder update request
type UpdateFolderRequest struct {
	Name     *string                   `json:"name,omitempty"`      // rename
	FolderID httputil.Optional[string] `json:"parent_id,omitempty"` // move (null detaches)
}
