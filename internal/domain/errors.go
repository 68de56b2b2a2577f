package domain

import (
	"errors"
	"net/http"
)

// HTTPError defines errors that can be mapped to HTTP status codes.
type HTTPError interface {
	error
	StatusCode() int
}

// Domain error types implementing HTTPError interface
type (
	// ValidationError indicates invalid input
	ValidationError struct {
		Message string
	}

	// ForbiddenError indicates authorization failure
	ForbiddenError struct {
		Message string
	}
)

func (e *ValidationError) Error() string { return e.Message }
func (e *ForbiddenError) Error() string  { return e.Message }

func (e *ValidationError) StatusCode() int { return http.StatusBadRequest }
func (e *ForbiddenError) StatusCode() int  { return http.StatusForbidden }

// Is lets errors.Is match the typed errors against their sentinels.
func (e *ValidationError) Is(target error) bool { return target == ErrValidation }
func (e *ForbiddenError) Is(target error) bool  { return target == ErrForbidden }

// Sentinel errors - use with errors.Is()
var (
	ErrNotFound      = errors.New("not found")
	ErrConflict      = errors.New("already exists")
	ErrValidation    = errors.New("validation failed")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrForbidden     = errors.New("forbidden")
	ErrCycleDetected = errors.New("cycle detected")
)

// CycleError reports an attach that would make a folder its own ancestor.
// Implements HTTPError and matches ErrCycleDetected.
type CycleError struct {
	FolderID string // folder being attached
	ParentID string // requested parent
}

// Error implements the error interface
func (e *CycleError) Error() string {
	return "folder " + e.FolderID + " cannot be placed under " + e.ParentID + ": would create a cycle"
}

// StatusCode implements the HTTPError interface
func (e *CycleError) StatusCode() int {
	return http.StatusConflict
}

// Is allows errors.Is() to match against ErrCycleDetected
func (e *CycleError) Is(target error) bool {
	return target == ErrCycleDetected
}
