package auth

import (
	"context"
	"crypto/subtle"

	"github.com/docvault-ai/docvault/internal/model"
)

// StaticResolver accepts a single fixed token and resolves it to a fixed
// user. Local development only.
type StaticResolver struct {
	token  string
	userID string
}

var _ Resolver = (*StaticResolver)(nil)

// NewStaticResolver creates a StaticResolver mapping token to userID.
func NewStaticResolver(token, userID string) *StaticResolver {
	return &StaticResolver{token: token, userID: userID}
}

// Resolve accepts only the configured token.
func (s *StaticResolver) Resolve(ctx context.Context, token string) (*model.User, error) {
	if subtle.ConstantTimeCompare([]byte(token), []byte(s.token)) != 1 {
		return nil, model.NewUnauthenticatedError("unauthorized")
	}
	return &model.User{ID: s.userID}, nil
}
