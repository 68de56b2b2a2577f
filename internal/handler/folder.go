package handler

import (
	"log/slog"
	"math"
	"net/http"

	docsysSvc "folio/internal/domain/services/docsystem"
	"folio/internal/httputil"
)

// FolderHandler handles folder HTTP requests
type FolderHandler struct {
	folderService  docsysSvc.FolderService
	listingService docsysSvc.ListingService
	logger         *slog.Logger
}

// NewFolderHandler creates a new folder handler
func NewFolderHandler(folderService docsysSvc.FolderService, listingService docsysSvc.ListingService, logger *slog.Logger) *FolderHandler {
	return &FolderHandler{
		folderService:  folderService,
		listingService: listingService,
		logger:         logger,
	}
}

// CreateFolder creates a new folder
// POST /api/folders
func (h *FolderHandler) CreateFolder(w http.ResponseWriter, r *http.Request) {
	var req docsysSvc.CreateFolderRequest
	if !decodeBody(w, r, &req) {
		return
	}

	folder, err := h.folderService.CreateFolder(r.Context(), &req)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, folder)
}

// InitRoot returns the root folder, creating it on first call
// POST /api/folders/init
func (h *FolderHandler) InitRoot(w http.ResponseWriter, r *http.Request) {
	root, err := h.folderService.EnsureRoot(r.Context())
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, root)
}

// ListFolders returns the root followed by every other folder, each with
// its children
// GET /api/folders
func (h *FolderHandler) ListFolders(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.listingService.ListFolderSummaries(r.Context())
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, summaries)
}

// GetTopLevel returns the root with its children, or null without a root
// GET /api/folders/top
func (h *FolderHandler) GetTopLevel(w http.ResponseWriter, r *http.Request) {
	top, err := h.listingService.ListTopLevel(r.Context())
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, top)
}

// GetFolder retrieves a folder with its children
// GET /api/folders/{id}
func (h *FolderHandler) GetFolder(w http.ResponseWriter, r *http.Request) {
	id, ok := PathParam(w, r, "id", "Folder ID")
	if !ok {
		return
	}

	detail, err := h.listingService.GetFolder(r.Context(), id)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, detail)
}

// ListChildren returns a window of a folder's children
// GET /api/folders/{id}/children?limit=&offset=
func (h *FolderHandler) ListChildren(w http.ResponseWriter, r *http.Request) {
	id, ok := PathParam(w, r, "id", "Folder ID")
	if !ok {
		return
	}

	limit := QueryInt(r, "limit", 0, math.MinInt, math.MaxInt)
	offset := QueryInt(r, "offset", 0, math.MinInt, math.MaxInt)

	children, err := h.listingService.ListChildrenPage(r.Context(), id, limit, offset)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, children)
}

// UpdateFolder renames and/or moves a folder
// PATCH /api/folders/{id}
func (h *FolderHandler) UpdateFolder(w http.ResponseWriter, r *http.Request) {
	id, ok := PathParam(w, r, "id", "Folder ID")
	if !ok {
		return
	}

	var req docsysSvc.UpdateFolderRequest
	if !decodeBody(w, r, &req) {
		return
	}

	folder, err := h.folderService.UpdateFolder(r.Context(), id, &req)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, folder)
}

// DeleteFolder deletes a folder and everything under it
// DELETE /api/folders/{id}
func (h *FolderHandler) DeleteFolder(w http.ResponseWriter, r *http.Request) {
	id, ok := PathParam(w, r, "id", "Folder ID")
	if !ok {
		return
	}

	if err := h.folderService.DeleteFolder(r.Context(), id); err != nil {
		handleError(w, err, h.logger)
		return
	}

	httputil.NoContent(w)
}
