// Package auth provides the single identity boundary for the application.
// One capability interface, one implementation: the dual-provider drift in
// older deployments is intentionally not carried forward.
package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
)

// Identity is the stable result of verifying a credential.
type Identity struct {
	UserID string
	Email  string
	Role   string
}

// IsAdmin reports whether the identity carries the given admin role.
func (i *Identity) IsAdmin(adminRole string) bool {
	return i != nil && adminRole != "" && i.Role == adminRole
}

// Identity errors. "No credential" and "credential present but invalid"
// map to the same 401 response, but handlers distinguish them from
// ownership failures (403/404 semantics).
var (
	ErrNoCredential      = errors.New("no credential provided")
	ErrInvalidCredential = errors.New("invalid credential")
)

// Verifier is the identity-provider capability.
type Verifier interface {
	// VerifyCredential validates a bearer token and returns the identity.
	VerifyCredential(ctx context.Context, token string) (*Identity, error)

	// CurrentIdentity resolves the identity of the request's caller.
	CurrentIdentity(r *http.Request) (*Identity, error)

	// SignOut revokes a credential for the remainder of its lifetime.
	SignOut(ctx context.Context, token string) error
}

// bearerToken extracts the token from an Authorization header.
func bearerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", ErrNoCredential
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", ErrNoCredential
	}
	return parts[1], nil
}
