package handler

import (
	"log/slog"
	"math"
	"net/http"
	"time"

	models "folio/internal/domain/models/docsystem"
	docsysSvc "folio/internal/domain/services/docsystem"
	"folio/internal/httputil"
)

// DocumentHandler handles document HTTP requests
type DocumentHandler struct {
	docService     docsysSvc.DocumentService
	listingService docsysSvc.ListingService
	logger         *slog.Logger
}

// NewDocumentHandler creates a new document handler
func NewDocumentHandler(docService docsysSvc.DocumentService, listingService docsysSvc.ListingService, logger *slog.Logger) *DocumentHandler {
	return &DocumentHandler{
		docService:     docService,
		listingService: listingService,
		logger:         logger,
	}
}

// CreateDocument creates a document owned by the caller
// POST /api/documents
func (h *DocumentHandler) CreateDocument(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req docsysSvc.CreateDocumentRequest
	if !decodeBody(w, r, &req) {
		return
	}
	req.OwnerID = userID

	doc, err := h.docService.CreateDocument(r.Context(), &req)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, doc)
}

// ListDocuments returns one page of the flat document listing
// GET /api/documents?page=&per_page=
func (h *DocumentHandler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	opts := models.PageOptions{
		Page:    QueryInt(r, "page", models.DefaultPage, math.MinInt, math.MaxInt),
		PerPage: QueryInt(r, "per_page", models.DefaultPerPage, math.MinInt, math.MaxInt),
	}

	page, err := h.listingService.ListDocuments(r.Context(), opts)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, page)
}

// GetDocument retrieves a document
// GET /api/documents/{id}
func (h *DocumentHandler) GetDocument(w http.ResponseWriter, r *http.Request) {
	id, ok := PathParam(w, r, "id", "Document ID")
	if !ok {
		return
	}

	doc, err := h.docService.GetDocument(r.Context(), id)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, doc)
}

// UpdateDocument updates title and/or content
// PATCH /api/documents/{id}, PUT /api/documents/{id}
func (h *DocumentHandler) UpdateDocument(w http.ResponseWriter, r *http.Request) {
	id, ok := PathParam(w, r, "id", "Document ID")
	if !ok {
		return
	}
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req docsysSvc.UpdateDocumentRequest
	if !decodeBody(w, r, &req) {
		return
	}
	req.CallerID = userID

	doc, err := h.docService.UpdateDocument(r.Context(), id, &req)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, doc)
}

// DeleteDocument deletes a document
// DELETE /api/documents/{id}
func (h *DocumentHandler) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	id, ok := PathParam(w, r, "id", "Document ID")
	if !ok {
		return
	}
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	if err := h.docService.DeleteDocument(r.Context(), id, userID); err != nil {
		handleError(w, err, h.logger)
		return
	}

	httputil.NoContent(w)
}

// HealthCheck is a simple health check endpoint
func (h *DocumentHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"time":   time.Now(),
	})
}
