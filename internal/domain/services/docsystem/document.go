package docsystem

import (
	"context"

	"folio/internal/domain/models/docsystem"
)

// DocumentService defines business logic for document operations
type DocumentService interface {
	// CreateDocument creates a document owned by req.OwnerID
	CreateDocument(ctx context.Context, req *CreateDocumentRequest) (*docsystem.Document, error)

	// GetDocument retrieves a document
	GetDocument(ctx context.Context, id string) (*docsystem.Document, error)

	// UpdateDocument updates a document; only its owner may do so
	UpdateDocument(ctx context.Context, id string, req *UpdateDocumentRequest) (*docsystem.Document, error)

	// DeleteDocument deletes a document; only its owner may do so
	DeleteDocument(ctx context.Context, id, callerID string) error
}

// CreateDocumentRequest represents a document creation request
type CreateDocumentRequest struct {
	OwnerID  string  `json:"-"` // set from the authenticated caller
	Title    *string `json:"title,omitempty"`
	Content  string  `json:"content"`
	FolderID *string `json:"parent_id,omitempty"` // nil = root folder
}

// UpdateDocumentRequest represents a document update request
type UpdateDocumentRequest struct {
	CallerID string  `json:"-"` // set from the authenticated caller
	Title    *string `json:"title,omitempty"`
	Content  *string `json:"content,omitempty"`
}
