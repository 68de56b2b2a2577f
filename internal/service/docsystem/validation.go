package docsystem

import (
	"context"
	"fmt"
	"strings"

	"folio/internal/config"
	"folio/internal/domain"
	docsysRepo "folio/internal/domain/repositories/docsystem"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// ResourceValidator checks that referenced folders exist before a node is
// attached to them
type ResourceValidator struct {
	folderRepo docsysRepo.FolderRepository
}

// NewResourceValidator creates a new resource validator
func NewResourceValidator(folderRepo docsysRepo.FolderRepository) *ResourceValidator {
	return &ResourceValidator{folderRepo: folderRepo}
}

// ValidateFolder ensures a folder exists.
// Returns domain.ErrNotFound if it doesn't.
func (v *ResourceValidator) ValidateFolder(ctx context.Context, folderID string) error {
	if _, err := v.folderRepo.GetByID(ctx, folderID); err != nil {
		return fmt.Errorf("invalid folder: %w", err)
	}
	return nil
}

// validateFolderName checks a trimmed folder name
func validateFolderName(name string) error {
	err := validation.Validate(name,
		validation.Required.Error("folder name is required"),
		validation.RuneLength(1, config.MaxFolderNameLength),
	)
	if err != nil {
		return &domain.ValidationError{Message: fmt.Sprintf("name: %v", err)}
	}
	return nil
}

// validateDocumentTitle checks a trimmed document title
func validateDocumentTitle(title string) error {
	err := validation.Validate(title,
		validation.Required.Error("title is required"),
		validation.RuneLength(1, config.MaxDocumentTitleLength),
	)
	if err != nil {
		return &domain.ValidationError{Message: fmt.Sprintf("title: %v", err)}
	}
	return nil
}

// normalizeID maps an empty id to nil
func normalizeID(id *string) *string {
	if id == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*id)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
