package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"folio/internal/domain"
	"folio/internal/httputil"
)

// handleError converts domain errors to HTTP responses. Anything unmapped
// is logged and reported as a generic 500.
func handleError(w http.ResponseWriter, err error, logger *slog.Logger) {
	var cycleErr *domain.CycleError

	switch {
	case errors.As(err, &cycleErr):
		httputil.RespondErrorWithExtras(w, http.StatusConflict, cycleErr.Error(), map[string]interface{}{
			"folder_id": cycleErr.FolderID,
			"parent_id": cycleErr.ParentID,
		})
	case errors.Is(err, domain.ErrValidation):
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		httputil.RespondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		httputil.RespondError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		httputil.RespondError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, domain.ErrConflict), errors.Is(err, domain.ErrCycleDetected):
		httputil.RespondError(w, http.StatusConflict, err.Error())
	default:
		logger.Error("request failed", "error", err)
		httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
	}
}

// decodeBody parses the JSON body into dest, writing a 400 (or 413) on failure
func decodeBody(w http.ResponseWriter, r *http.Request, dest any) bool {
	err := httputil.ParseJSON(w, r, dest)
	if err == nil {
		return true
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		httputil.RespondError(w, http.StatusRequestEntityTooLarge, err.Error())
		return false
	}
	httputil.RespondError(w, http.StatusBadRequest, err.Error())
	return false
}

// PathParam reads a required path value, writing a 400 when it is empty
func PathParam(w http.ResponseWriter, r *http.Request, name, label string) (string, bool) {
	value := r.PathValue(name)
	if value == "" {
		httputil.RespondError(w, http.StatusBadRequest, label+" is required")
		return "", false
	}
	return value, true
}

// QueryInt reads an integer query parameter clamped to [min, max].
// Missing or malformed values yield def.
func QueryInt(r *http.Request, name string, def, min, max int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	if n < min {
		return min
	}
	if n > max {
		return max
	}
	return n
}

// requireUser returns the caller id set by the auth middleware, writing a
// 401 when there is none
func requireUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := httputil.GetUserID(r)
	if userID == "" {
		httputil.RespondError(w, http.StatusUnauthorized, "authentication required")
		return "", false
	}
	return userID, true
}
