package services

import (
	"context"

	"folio/internal/domain/models/docsystem"
)

// DocumentAuthorizer decides whether a caller may mutate a document.
// Current implementation: ownership-based (caller created the document).
type DocumentAuthorizer interface {
	// CanModifyDocument returns domain.ErrForbidden unless callerID may
	// update or delete doc
	CanModifyDocument(ctx context.Context, callerID string, doc *docsystem.Document) error
}
