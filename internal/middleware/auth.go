package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"folio/internal/auth"
	"folio/internal/httputil"
)

// RouteMatcher reports whether a request may proceed without a token
type RouteMatcher func(r *http.Request) bool

// PublicRoutes matches "METHOD /path" patterns. A trailing "/*" matches any
// path below the prefix.
func PublicRoutes(patterns ...string) RouteMatcher {
	type route struct {
		method string
		path   string
		prefix bool
	}
	routes := make([]route, 0, len(patterns))
	for _, p := range patterns {
		method, path, _ := strings.Cut(p, " ")
		rt := route{method: method, path: path}
		if strings.HasSuffix(path, "/*") {
			rt.path = strings.TrimSuffix(path, "*")
			rt.prefix = true
		}
		routes = append(routes, rt)
	}

	return func(r *http.Request) bool {
		for _, rt := range routes {
			if rt.method != r.Method {
				continue
			}
			if rt.prefix && strings.HasPrefix(r.URL.Path, rt.path) && len(r.URL.Path) > len(rt.path) {
				return true
			}
			if !rt.prefix && r.URL.Path == rt.path {
				return true
			}
		}
		return false
	}
}

// AuthMiddleware verifies the bearer token and stores the caller in the
// request context. Public routes pass without a token, but a token sent to
// them is still verified so handlers see the caller.
func AuthMiddleware(verifier auth.JWTVerifier, public RouteMatcher, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// CORS preflight never carries credentials
			if r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			isPublic := public != nil && public(r)

			token, ok := bearerToken(r)
			if !ok {
				if isPublic {
					next.ServeHTTP(w, r)
					return
				}
				httputil.RespondError(w, http.StatusUnauthorized, "missing bearer token")
				return
			}

			claims, err := verifier.VerifyToken(token)
			if err != nil {
				logger.Debug("token rejected", "path", r.URL.Path, "error", err)
				httputil.RespondError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			next.ServeHTTP(w, httputil.WithCaller(r, httputil.Caller{
				ID:    claims.GetUserID(),
				Email: claims.Email,
				Role:  claims.Role,
			}))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
