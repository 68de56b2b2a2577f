package httputil

import (
	"context"
	"net/http"
)

type callerKey struct{}

// Caller is the authenticated principal of a request
type Caller struct {
	ID    string
	Email string
	Role  string
}

// WithCaller attaches the verified caller to the request context
func WithCaller(r *http.Request, caller Caller) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), callerKey{}, caller))
}

// GetCaller reports the caller attached by WithCaller, if any
func GetCaller(r *http.Request) (Caller, bool) {
	caller, ok := r.Context().Value(callerKey{}).(Caller)
	return caller, ok && caller.ID != ""
}

// GetUserID returns the caller id, or "" for anonymous requests
func GetUserID(r *http.Request) string {
	caller, _ := GetCaller(r)
	return caller.ID
}
