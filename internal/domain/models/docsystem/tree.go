package docsystem

import "time"

// ChildKind tags an entry of a merged child listing
type ChildKind string

const (
	ChildKindFolder ChildKind = "FOLDER"
	ChildKindFile   ChildKind = "FILE"
)

// ChildItem is one direct child of a folder, either a folder or a document.
// Folders and documents share one sequence ordered by CreatedAt.
type ChildItem struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"` // Folder.Name or Document.Title
	Type        ChildKind  `json:"type"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at"`
	HasChildren bool       `json:"has_children"` // true for every folder, false for every document
	Content     *string    `json:"content"`      // documents only
}

// IsFolder reports whether the item is a folder
func (c ChildItem) IsFolder() bool {
	return c.Type == ChildKindFolder
}

// FolderDetail is a folder together with its merged direct children
type FolderDetail struct {
	Folder
	Children []ChildItem `json:"children"`
}

// FolderChild projects a folder into a child listing entry
func FolderChild(f *Folder) ChildItem {
	updated := f.UpdatedAt
	return ChildItem{
		ID:          f.ID,
		Name:        f.Name,
		Type:        ChildKindFolder,
		CreatedAt:   f.CreatedAt,
		UpdatedAt:   &updated,
		HasChildren: true,
	}
}

// DocumentChild projects a document into a child listing entry
func DocumentChild(d *Document) ChildItem {
	updated := d.UpdatedAt
	content := d.Content
	return ChildItem{
		ID:          d.ID,
		Name:        d.Title,
		Type:        ChildKindFile,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   &updated,
		HasChildren: false,
		Content:     &content,
	}
}
