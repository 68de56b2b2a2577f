package docsystem

import (
	"time"
)

// DefaultDocumentTitle is used when a document is created without a title
const DefaultDocumentTitle = "Untitled"

type Document struct {
	ID        string    `json:"id" db:"id"`
	ParentID  string    `json:"parent_id" db:"parent_id"` // always resolved, root when omitted
	OwnerID   string    `json:"owner_id" db:"owner_id"`   // set once at creation
	Title     string    `json:"title" db:"title"`
	Content   string    `json:"content" db:"content"` // Markdown content
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
