package handlers

import (
	"net/http"
	"strings"

	"github.com/inmogo/inmogo/internal/auth"
)

// AuthHandler handles session endpoints.
type AuthHandler struct {
	verifier auth.Verifier
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(verifier auth.Verifier) *AuthHandler {
	return &AuthHandler{verifier: verifier}
}

// SignOut handles POST /api/v1/portal/signout requests. The presented
// credential is revoked for the remainder of its lifetime.
func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	if _, ok := identify(w, r, h.verifier); !ok {
		return
	}

	header := r.Header.Get("Authorization")
	parts := strings.SplitN(header, " ", 2)
	// identify already proved the header is a well-formed bearer token.
	if err := h.verifier.SignOut(r.Context(), parts[1]); err != nil {
		status, resp := mapErrorToResponse(err)
		writeJSON(w, status, resp)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
