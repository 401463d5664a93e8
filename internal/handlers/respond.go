// Package handlers exposes the HTTP boundary. Every mutating endpoint runs
// the same pipeline: client identifier, rate limit (middleware), parse and
// validate, authenticate and authorize, persist, best-effort notify,
// respond.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/inmogo/inmogo/internal/auth"
	"github.com/inmogo/inmogo/internal/models"
	"github.com/inmogo/inmogo/internal/services"
	"github.com/inmogo/inmogo/internal/validation"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// ValidationErrorResponse carries the full field error map so a client can
// render every problem at once.
type ValidationErrorResponse struct {
	Error       string                 `json:"error"`
	Code        string                 `json:"code"`
	FieldErrors validation.FieldErrors `json:"field_errors"`
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// writeValidationErrors writes the 400 response for a failed validation
// pass.
func writeValidationErrors(w http.ResponseWriter, errs validation.FieldErrors) {
	writeJSON(w, http.StatusBadRequest, ValidationErrorResponse{
		Error:       "validation failed",
		Code:        "VALIDATION_FAILED",
		FieldErrors: errs,
	})
}

// writeInvalidBody writes the 400 response for an undecodable request body.
func writeInvalidBody(w http.ResponseWriter) {
	writeJSON(w, http.StatusBadRequest, ErrorResponse{
		Error: "invalid request body",
		Code:  "INVALID_REQUEST",
	})
}

// mapErrorToResponse maps service errors to HTTP responses. An ownership
// failure gets the exact same body as a missing resource so the response
// never reveals whether the resource exists.
func mapErrorToResponse(err error) (int, ErrorResponse) {
	switch {
	case errors.Is(err, auth.ErrNoCredential), errors.Is(err, auth.ErrInvalidCredential):
		return http.StatusUnauthorized, ErrorResponse{
			Error: "authentication required",
			Code:  "UNAUTHENTICATED",
		}
	case errors.Is(err, services.ErrForbidden),
		errors.Is(err, models.ErrPropertyNotFound),
		errors.Is(err, models.ErrInvoiceNotFound),
		errors.Is(err, models.ErrLeadNotFound),
		errors.Is(err, models.ErrClientNotFound):
		return http.StatusNotFound, ErrorResponse{
			Error: "resource not found",
			Code:  "NOT_FOUND",
		}
	default:
		return http.StatusInternalServerError, ErrorResponse{
			Error: "internal server error",
			Code:  "INTERNAL_ERROR",
		}
	}
}

// identify resolves the caller or writes the 401 response.
func identify(w http.ResponseWriter, r *http.Request, verifier auth.Verifier) (*auth.Identity, bool) {
	caller, err := verifier.CurrentIdentity(r)
	if err != nil {
		status, resp := mapErrorToResponse(err)
		writeJSON(w, status, resp)
		return nil, false
	}
	return caller, true
}

// pathID parses the {id} path segment.
func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// listParams parses pagination query parameters. Services clamp the limit.
func listParams(r *http.Request) (limit, offset int) {
	q := r.URL.Query()
	limit, _ = strconv.Atoi(q.Get("limit"))
	offset, _ = strconv.Atoi(q.Get("offset"))
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
