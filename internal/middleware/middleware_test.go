package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"folio/internal/auth"
	"folio/internal/domain/models"
	"folio/internal/httputil"

	"github.com/golang-jwt/jwt/v5"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// echoUser writes the caller id seen by the handler
var echoUser = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(httputil.GetUserID(r)))
})

func TestAuthMiddleware(t *testing.T) {
	verifier, err := auth.NewHMACVerifier([]byte("secret"), testLogger())
	if err != nil {
		t.Fatalf("verifier: %v", err)
	}
	token, err := verifier.IssueToken(&models.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "alice",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	public := PublicRoutes("GET /health", "GET /api/documents/*", "POST /api/folders/init")
	h := AuthMiddleware(verifier, public, testLogger())(echoUser)

	tests := []struct {
		name     string
		method   string
		path     string
		header   string
		wantCode int
		wantUser string
	}{
		{"protected without token", http.MethodPost, "/api/folders", "", http.StatusUnauthorized, ""},
		{"protected with token", http.MethodPost, "/api/folders", "Bearer " + token, http.StatusOK, "alice"},
		{"protected with bad token", http.MethodPost, "/api/folders", "Bearer nope", http.StatusUnauthorized, ""},
		{"wrong scheme", http.MethodPost, "/api/folders", "Basic " + token, http.StatusUnauthorized, ""},
		{"public exact", http.MethodGet, "/health", "", http.StatusOK, ""},
		{"public prefix", http.MethodGet, "/api/documents/123", "", http.StatusOK, ""},
		{"public with token keeps caller", http.MethodGet, "/api/documents/123", "Bearer " + token, http.StatusOK, "alice"},
		{"method must match", http.MethodDelete, "/api/documents/123", "", http.StatusUnauthorized, ""},
		{"public init", http.MethodPost, "/api/folders/init", "", http.StatusOK, ""},
		{"preflight passes", http.MethodOptions, "/api/folders", "", http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if rec.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantCode)
			}
			if tt.wantCode == http.StatusOK && rec.Body.String() != tt.wantUser {
				t.Errorf("user = %q, want %q", rec.Body.String(), tt.wantUser)
			}
			if tt.wantCode == http.StatusUnauthorized && rec.Header().Get("Content-Type") != "application/problem+json" {
				t.Errorf("content type = %q", rec.Header().Get("Content-Type"))
			}
		})
	}
}

func TestRateLimit(t *testing.T) {
	limiter := NewRateLimiter(3, time.Minute)
	defer limiter.Close()
	h := RateLimit(limiter, testLogger())(echoUser)

	call := func(remote, user string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/documents", nil)
		req.RemoteAddr = remote
		if user != "" {
			req = httputil.WithCaller(req, httputil.Caller{ID: user})
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	for i := 0; i < 3; i++ {
		if rec := call("10.0.0.1:1234", ""); rec.Code != http.StatusOK {
			t.Fatalf("request %d: status %d", i+1, rec.Code)
		}
	}

	rec := call("10.0.0.1:5678", "")
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("4th request: status %d, want 429", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Error("missing Retry-After header")
	}
	if rec.Header().Get("X-RateLimit-Limit") != "3" {
		t.Errorf("X-RateLimit-Limit = %q", rec.Header().Get("X-RateLimit-Limit"))
	}

	// Other callers have their own budget
	if rec := call("10.0.0.2:1234", ""); rec.Code != http.StatusOK {
		t.Errorf("other ip: status %d", rec.Code)
	}
	if rec := call("10.0.0.1:1234", "alice"); rec.Code != http.StatusOK {
		t.Errorf("authenticated caller: status %d", rec.Code)
	}
}

func TestRateLimiter_CleanupKeepsActiveBuckets(t *testing.T) {
	limiter := NewRateLimiter(2, time.Minute)
	defer limiter.Close()

	limiter.allow("idle")
	limiter.allow("busy")

	// Neither bucket is stale yet
	limiter.cleanup(time.Now())
	if len(limiter.buckets) != 2 {
		t.Fatalf("buckets = %d, want 2", len(limiter.buckets))
	}

	// Far in the future both are idle and refilled
	limiter.cleanup(time.Now().Add(time.Hour))
	if len(limiter.buckets) != 0 {
		t.Errorf("buckets = %d, want 0", len(limiter.buckets))
	}
}

func TestRecovery(t *testing.T) {
	h := Recovery(testLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}

func TestRecovery_ReraisesAbort(t *testing.T) {
	h := Recovery(testLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic(http.ErrAbortHandler)
	}))

	defer func() {
		if rec := recover(); rec != http.ErrAbortHandler {
			t.Errorf("recovered %v, want http.ErrAbortHandler", rec)
		}
	}()
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	t.Error("panic was swallowed")
}
