package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"folio/internal/config"
	"folio/internal/domain/services"
	"folio/internal/httputil"
)

// UploadHandler handles image uploads
type UploadHandler struct {
	uploader services.ImageUploader
	logger   *slog.Logger
}

// NewUploadHandler creates a new upload handler
func NewUploadHandler(uploader services.ImageUploader, logger *slog.Logger) *UploadHandler {
	return &UploadHandler{
		uploader: uploader,
		logger:   logger,
	}
}

// UploadImage stores the multipart "file" field
// POST /api/uploads/images
func (h *UploadHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	// Headroom for multipart framing around the file itself
	r.Body = http.MaxBytesReader(w, r.Body, config.MaxUploadSize+(1<<20))

	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			httputil.RespondError(w, http.StatusRequestEntityTooLarge, "file too large")
		case errors.Is(err, http.ErrMissingFile):
			httputil.RespondError(w, http.StatusBadRequest, "no file provided")
		default:
			httputil.RespondError(w, http.StatusBadRequest, "invalid multipart form")
		}
		return
	}
	defer file.Close()

	img, err := h.uploader.SaveImage(r.Context(), header.Filename, file)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, img)
}
