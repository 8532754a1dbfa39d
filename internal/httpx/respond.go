// Package httpx exposes the JSON API. Handlers translate HTTP requests into
// service calls and domain errors back into status codes; all business rules
// live in the service layer.
package httpx

import (
	"encoding/json"
	"net/http"

	"github.com/bilasin/bilasin/internal/domain"
	"github.com/bilasin/bilasin/internal/middleware"
)

// envelope is the uniform response shape of the API.
type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func respondData(w http.ResponseWriter, code int, data any) {
	writeJSON(w, code, envelope{Success: true, Data: data})
}

func respondMessage(w http.ResponseWriter, code int, message string, data any) {
	writeJSON(w, code, envelope{Success: true, Message: message, Data: data})
}

// respondError maps a domain error code to its HTTP status. Internal errors
// are logged with their cause and answered with a generic message.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	code := domain.ErrorCode(err)
	status := errorStatus(code)

	if code == domain.EINTERNAL {
		middleware.GetLogger(r.Context()).Error("request failed", "error", err)
	}

	writeJSON(w, status, envelope{Success: false, Message: domain.ErrorMessage(err)})
}

func errorStatus(code string) int {
	switch code {
	case domain.EINVALID:
		return http.StatusBadRequest
	case domain.EUNAUTHORIZED:
		return http.StatusUnauthorized
	case domain.EFORBIDDEN:
		return http.StatusForbidden
	case domain.ENOTFOUND:
		return http.StatusNotFound
	case domain.ECONFLICT:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// decodeJSON reads the request body into dst, rejecting malformed payloads
// with EINVALID.
func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return domain.Invalid("request.decode", "invalid JSON payload")
	}
	return nil
}
