package auth

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

// JWTVerifier verifies HMAC-signed tokens issued by the identity provider.
// Revocation is an in-process set of token IDs; a revoked token stays
// rejected until its natural expiry.
type JWTVerifier struct {
	secret []byte
	issuer string

	mu      sync.RWMutex
	revoked map[string]struct{}
}

// NewJWTVerifier creates a verifier for tokens signed with the given
// shared secret. issuer is matched when non-empty.
func NewJWTVerifier(secret, issuer string) (*JWTVerifier, error) {
	if secret == "" {
		return nil, fmt.Errorf("jwt secret must not be empty")
	}
	return &JWTVerifier{
		secret:  []byte(secret),
		issuer:  issuer,
		revoked: make(map[string]struct{}),
	}, nil
}

// VerifyCredential validates a bearer token and returns the identity.
func (v *JWTVerifier) VerifyCredential(ctx context.Context, token string) (*Identity, error) {
	opts := []jwt.ParseOption{
		jwt.WithContext(ctx),
		jwt.WithKey(jwa.HS256, v.secret),
		jwt.WithValidate(true),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	parsed, err := jwt.ParseString(token, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCredential, err)
	}

	if jti := parsed.JwtID(); jti != "" && v.isRevoked(jti) {
		return nil, ErrInvalidCredential
	}

	sub := parsed.Subject()
	if sub == "" {
		return nil, fmt.Errorf("%w: token has no subject", ErrInvalidCredential)
	}

	identity := &Identity{UserID: sub}
	if email, ok := parsed.Get("email"); ok {
		identity.Email, _ = email.(string)
	}
	if role, ok := parsed.Get("role"); ok {
		identity.Role, _ = role.(string)
	}
	return identity, nil
}

// CurrentIdentity resolves the identity of the request's caller from its
// Authorization header.
func (v *JWTVerifier) CurrentIdentity(r *http.Request) (*Identity, error) {
	token, err := bearerToken(r)
	if err != nil {
		return nil, err
	}
	return v.VerifyCredential(r.Context(), token)
}

// SignOut revokes the token's ID so later verifications fail.
func (v *JWTVerifier) SignOut(ctx context.Context, token string) error {
	parsed, err := jwt.ParseString(token,
		jwt.WithContext(ctx),
		jwt.WithKey(jwa.HS256, v.secret),
		jwt.WithValidate(false),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidCredential, err)
	}
	jti := parsed.JwtID()
	if jti == "" {
		return fmt.Errorf("%w: token has no id", ErrInvalidCredential)
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	v.revoked[jti] = struct{}{}
	return nil
}

func (v *JWTVerifier) isRevoked(jti string) bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	_, ok := v.revoked[jti]
	return ok
}
