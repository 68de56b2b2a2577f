package docsystem

import (
	"context"
	"io"
	"io/fs"
)

// ImportRequest places an import in the hierarchy
type ImportRequest struct {
	OwnerID  string  // owner of every created document
	ParentID *string // nil = root folder
}

// ImportService creates folders and documents from file trees.
// Directories become folders, convertible files become documents. Files
// are created one by one; a failure is recorded and the import continues.
type ImportService interface {
	// ImportFS mirrors the whole of fsys under the request's parent
	ImportFS(ctx context.Context, fsys fs.FS, req *ImportRequest) (*ImportResult, error)

	// ImportFile imports one upload: a .zip archive is expanded like
	// ImportFS, any other supported file becomes a single document
	ImportFile(ctx context.Context, filename string, content io.Reader, req *ImportRequest) (*ImportResult, error)
}

// ImportResult reports what an import did
type ImportResult struct {
	Summary   ImportSummary    `json:"summary"`
	Errors    []ImportError    `json:"errors"`
	Documents []ImportDocument `json:"documents"`
}

// ImportSummary contains aggregate counts for an import
type ImportSummary struct {
	Folders    int `json:"folders"`
	Created    int `json:"created"`
	Skipped    int `json:"skipped"`
	Failed     int `json:"failed"`
	TotalFiles int `json:"total_files"`
}

// ImportError records a file that could not be imported
type ImportError struct {
	File  string `json:"file"`
	Error string `json:"error"`
}

// ImportDocument is a document created by an import
type ImportDocument struct {
	ID       string `json:"id"`
	Path     string `json:"path"`
	Title    string `json:"title"`
	ParentID string `json:"parent_id"`
}
