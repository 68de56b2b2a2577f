package docsystem

import (
	"time"
)

// NodeTypeFolder is the node_type discriminator carried by every folder.
const NodeTypeFolder = "folder"

type Folder struct {
	ID        string    `json:"id" db:"id"`
	ParentID  *string   `json:"parent_id" db:"parent_id"` // NULL = root or detached
	Name      string    `json:"name" db:"name"`
	IsRoot    bool      `json:"is_root" db:"is_root"`
	NodeType  string    `json:"node_type" db:"-"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// HasParent reports whether the folder is attached under another folder
func (f *Folder) HasParent() bool {
	return f.ParentID != nil && *f.ParentID != ""
}
