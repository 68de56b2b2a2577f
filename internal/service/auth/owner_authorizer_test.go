package auth

import (
	"context"
	"errors"
	"testing"

	"folio/internal/domain"
	"folio/internal/domain/models/docsystem"
)

func TestOwnerBasedAuthorizer_CanModifyDocument(t *testing.T) {
	doc := &docsystem.Document{ID: "doc-1", OwnerID: "alice"}
	authorizer := NewOwnerBasedAuthorizer()

	tests := []struct {
		name     string
		callerID string
		wantErr  error
	}{
		{"owner may modify", "alice", nil},
		{"other user forbidden", "bob", domain.ErrForbidden},
		{"anonymous unauthorized", "", domain.ErrUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := authorizer.CanModifyDocument(context.Background(), tt.callerID, doc)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("got %v, want %v", err, tt.wantErr)
			}
		})
	}
}
