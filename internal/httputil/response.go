package httputil

import (
	"encoding/json"
	"net/http"
)

// RespondJSON marshals data before touching the header, so an encoding
// failure still yields a clean 500.
func RespondJSON(w http.ResponseWriter, status int, data interface{}) {
	payload, err := json.Marshal(data)
	if err != nil {
		RespondError(w, http.StatusInternalServerError, "failed to encode response")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(payload)
}

// NoContent writes a bodiless 204
func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// ProblemDetail represents an RFC 7807 Problem Details response
type ProblemDetail struct {
	Type     string                 `json:"type"`
	Title    string                 `json:"title"`
	Status   int                    `json:"status"`
	Detail   string                 `json:"detail,omitempty"`
	Instance string                 `json:"instance,omitempty"`
	Extra    map[string]interface{} `json:"-"`
}

// MarshalJSON flattens Extra into the top-level object. Extra keys never
// override the standard members.
func (p ProblemDetail) MarshalJSON() ([]byte, error) {
	m := map[string]interface{}{
		"type":   p.Type,
		"title":  p.Title,
		"status": p.Status,
	}

	if p.Detail != "" {
		m["detail"] = p.Detail
	}
	if p.Instance != "" {
		m["instance"] = p.Instance
	}

	for k, v := range p.Extra {
		if _, taken := m[k]; !taken {
			m[k] = v
		}
	}

	return json.Marshal(m)
}

// RespondError writes an RFC 7807 Problem Details error response
func RespondError(w http.ResponseWriter, status int, detail string) {
	writeProblem(w, ProblemDetail{
		Type:   errorTypeFromStatus(status),
		Title:  http.StatusText(status),
		Status: status,
		Detail: detail,
	})
}

// RespondErrorWithExtras writes an RFC 7807 error whose extras sit beside
// the standard members
func RespondErrorWithExtras(w http.ResponseWriter, status int, detail string, extras map[string]interface{}) {
	writeProblem(w, ProblemDetail{
		Type:   errorTypeFromStatus(status),
		Title:  http.StatusText(status),
		Status: status,
		Detail: detail,
		Extra:  extras,
	})
}

func writeProblem(w http.ResponseWriter, problem ProblemDetail) {
	payload, err := json.Marshal(problem)
	if err != nil {
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/problem+json")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(problem.Status)
	_, _ = w.Write(payload)
}

const (
	rfc7231 = "https://datatracker.ietf.org/doc/html/rfc7231#section-"
	rfc7235 = "https://datatracker.ietf.org/doc/html/rfc7235#section-"
	rfc6585 = "https://datatracker.ietf.org/doc/html/rfc6585#section-"
)

var problemTypes = map[int]string{
	http.StatusBadRequest:            rfc7231 + "6.5.1",
	http.StatusUnauthorized:          rfc7235 + "3.1",
	http.StatusForbidden:             rfc7231 + "6.5.3",
	http.StatusNotFound:              rfc7231 + "6.5.4",
	http.StatusMethodNotAllowed:      rfc7231 + "6.5.5",
	http.StatusConflict:              rfc7231 + "6.5.8",
	http.StatusRequestEntityTooLarge: rfc7231 + "6.5.11",
	http.StatusTooManyRequests:       rfc6585 + "4",
	http.StatusInternalServerError:   rfc7231 + "6.6.1",
}

func errorTypeFromStatus(status int) string {
	if t, ok := problemTypes[status]; ok {
		return t
	}
	return "about:blank"
}
