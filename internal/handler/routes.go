package handler

import (
	"net/http"
	"strings"

	"folio/internal/middleware"
)

// Handlers groups the HTTP handlers mounted by NewRouter
type Handlers struct {
	Folders   *FolderHandler
	Documents *DocumentHandler
	Uploads   *UploadHandler
	Imports   *ImportHandler

	// UploadDir is served under /uploads/ when UploadURLPrefix is a local path
	UploadDir       string
	UploadURLPrefix string
}

// PublicRoutes lists the requests served without a bearer token
func PublicRoutes() middleware.RouteMatcher {
	return middleware.PublicRoutes(
		"GET /health",
		"POST /api/folders/init",
		"GET /api/documents",
		"GET /api/documents/*",
		"GET /uploads/*",
	)
}

// NewRouter registers every route on a new ServeMux
func NewRouter(h *Handlers) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", h.Documents.HealthCheck)

	// Folder routes
	mux.HandleFunc("POST /api/folders", h.Folders.CreateFolder)
	mux.HandleFunc("GET /api/folders", h.Folders.ListFolders)
	mux.HandleFunc("GET /api/folders/top", h.Folders.GetTopLevel)
	mux.HandleFunc("POST /api/folders/init", h.Folders.InitRoot)
	mux.HandleFunc("GET /api/folders/{id}", h.Folders.GetFolder)
	mux.HandleFunc("GET /api/folders/{id}/children", h.Folders.ListChildren)
	mux.HandleFunc("PATCH /api/folders/{id}", h.Folders.UpdateFolder)
	mux.HandleFunc("DELETE /api/folders/{id}", h.Folders.DeleteFolder)

	// Document routes
	mux.HandleFunc("POST /api/documents", h.Documents.CreateDocument)
	mux.HandleFunc("GET /api/documents", h.Documents.ListDocuments)
	mux.HandleFunc("GET /api/documents/{id}", h.Documents.GetDocument)
	mux.HandleFunc("PATCH /api/documents/{id}", h.Documents.UpdateDocument)
	mux.HandleFunc("PUT /api/documents/{id}", h.Documents.UpdateDocument)
	mux.HandleFunc("DELETE /api/documents/{id}", h.Documents.DeleteDocument)

	// Import
	if h.Imports != nil {
		mux.HandleFunc("POST /api/import", h.Imports.Import)
	}

	// Uploads
	if h.Uploads != nil {
		mux.HandleFunc("POST /api/uploads/images", h.Uploads.UploadImage)
		if h.UploadDir != "" && strings.HasPrefix(h.UploadURLPrefix, "/") {
			prefix := strings.TrimRight(h.UploadURLPrefix, "/") + "/"
			mux.Handle("GET "+prefix, http.StripPrefix(prefix, http.FileServer(http.Dir(h.UploadDir))))
		}
	}

	return mux
}
