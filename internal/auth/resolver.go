// Package auth resolves bearer tokens to users via the external identity
// service.
package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/docvault-ai/docvault/internal/model"
)

// Resolver exchanges an opaque bearer token for a user identity.
type Resolver interface {
	// Resolve returns the user for token, or model.UnauthenticatedError when
	// the token is missing, unknown, or the identity service rejects it.
	Resolve(ctx context.Context, token string) (*model.User, error)
}

// ExtractBearerToken extracts the bearer token from the Authorization header.
// Returns the token or an error on missing/invalid format.
func ExtractBearerToken(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", errors.New("missing Authorization header")
	}

	// Expect "Bearer <token>" format
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || strings.TrimSpace(parts[1]) == "" {
		return "", errors.New("invalid Authorization header format, expected 'Bearer <token>'")
	}

	return strings.TrimSpace(parts[1]), nil
}
