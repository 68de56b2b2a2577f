package auth

import (
	"context"
	"fmt"

	"folio/internal/domain"
	"folio/internal/domain/models/docsystem"
)

// OwnerBasedAuthorizer implements DocumentAuthorizer using ownership checks.
// A caller may modify a document only if they created it.
type OwnerBasedAuthorizer struct{}

// NewOwnerBasedAuthorizer creates a new ownership-based authorizer
func NewOwnerBasedAuthorizer() *OwnerBasedAuthorizer {
	return &OwnerBasedAuthorizer{}
}

// CanModifyDocument checks that callerID owns doc
func (a *OwnerBasedAuthorizer) CanModifyDocument(ctx context.Context, callerID string, doc *docsystem.Document) error {
	if callerID == "" {
		return fmt.Errorf("modify document %s: %w", doc.ID, domain.ErrUnauthorized)
	}
	if doc.OwnerID != callerID {
		return &domain.ForbiddenError{
			Message: fmt.Sprintf("document %s belongs to another user", doc.ID),
		}
	}
	return nil
}
