package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"folio/internal/config"
	"folio/internal/domain"
	docsysSvc "folio/internal/domain/services/docsystem"
	"folio/internal/httputil"
)

// ImportHandler handles bulk document imports
type ImportHandler struct {
	importService docsysSvc.ImportService
	logger        *slog.Logger
}

// NewImportHandler creates a new import handler
func NewImportHandler(importService docsysSvc.ImportService, logger *slog.Logger) *ImportHandler {
	return &ImportHandler{
		importService: importService,
		logger:        logger,
	}
}

// ImportResponse merges the results of every uploaded file
type ImportResponse struct {
	Success   bool                       `json:"success"`
	Summary   docsysSvc.ImportSummary    `json:"summary"`
	Errors    []docsysSvc.ImportError    `json:"errors"`
	Documents []docsysSvc.ImportDocument `json:"documents"`
}

// Import creates documents from uploaded files owned by the caller
// POST /api/import?parent_id=
//
// Form field "files" may repeat; each is a .zip archive or a single
// markdown, text or HTML file. A file that cannot be converted is reported
// in errors and the rest are still imported.
func (h *ImportHandler) Import(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, config.MaxImportSize+(1<<20))
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			httputil.RespondError(w, http.StatusRequestEntityTooLarge, "import too large")
			return
		}
		httputil.RespondError(w, http.StatusBadRequest, "Failed to parse multipart form")
		return
	}
	defer r.MultipartForm.RemoveAll()

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		httputil.RespondError(w, http.StatusBadRequest, "No files provided")
		return
	}

	req := &docsysSvc.ImportRequest{OwnerID: userID}
	if parentID := r.URL.Query().Get("parent_id"); parentID != "" {
		req.ParentID = &parentID
	}

	h.logger.Info("starting import", "file_count", len(files), "user_id", userID)

	resp := ImportResponse{
		Errors:    []docsysSvc.ImportError{},
		Documents: []docsysSvc.ImportDocument{},
	}

	for _, header := range files {
		file, err := header.Open()
		if err != nil {
			h.logger.Error("failed to open uploaded file", "file", header.Filename, "error", err)
			resp.Summary.Failed++
			resp.Errors = append(resp.Errors, docsysSvc.ImportError{File: header.Filename, Error: "failed to read file"})
			continue
		}

		result, err := h.importService.ImportFile(r.Context(), header.Filename, file, req)
		file.Close()

		if err != nil {
			if !errors.Is(err, domain.ErrValidation) {
				// Target or storage failures affect every file
				handleError(w, err, h.logger)
				return
			}
			// an archive may have been partly imported before it failed
			resp.merge(result)
			resp.Summary.TotalFiles++
			resp.Summary.Failed++
			resp.Errors = append(resp.Errors, docsysSvc.ImportError{File: header.Filename, Error: err.Error()})
			continue
		}

		resp.merge(result)
	}

	resp.Success = resp.Summary.Failed == 0
	httputil.RespondJSON(w, http.StatusOK, resp)
}

func (resp *ImportResponse) merge(result *docsysSvc.ImportResult) {
	if result == nil {
		return
	}
	resp.Summary.Folders += result.Summary.Folders
	resp.Summary.Created += result.Summary.Created
	resp.Summary.Skipped += result.Summary.Skipped
	resp.Summary.Failed += result.Summary.Failed
	resp.Summary.TotalFiles += result.Summary.TotalFiles
	resp.Errors = append(resp.Errors, result.Errors...)
	resp.Documents = append(resp.Documents, result.Documents...)
}
