package auth

import (
	"context"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"

	"github.com/docvault-ai/docvault/internal/model"
)

// HTTPResolver resolves tokens against the identity service's /me endpoint.
// The token is forwarded verbatim; success requires HTTP 200 and a user_id
// field in the JSON body.
type HTTPResolver struct {
	client *resty.Client
}

var _ Resolver = (*HTTPResolver)(nil)

type meResponse struct {
	UserID string `json:"user_id"`
}

// NewHTTPResolver creates a resolver for the identity service at baseURL
// (e.g. "http://localhost:8000/v1") with the given per-call timeout.
func NewHTTPResolver(baseURL string, timeout time.Duration) *HTTPResolver {
	c := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Accept", "application/json").
		SetTimeout(timeout)
	return &HTTPResolver{client: c}
}

// Resolve calls GET {base}/me with the bearer token. Any transport failure or
// non-200 status maps to UnauthenticatedError; the upstream detail is logged
// so operators can tell invalid tokens from identity-service outages.
func (r *HTTPResolver) Resolve(ctx context.Context, token string) (*model.User, error) {
	var me meResponse
	resp, err := r.client.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetResult(&me).
		Get("/me")
	if err != nil {
		log.Warn().Err(err).Msg("identity lookup failed")
		return nil, model.NewUnauthenticatedError("unauthorized")
	}
	if resp.StatusCode() != http.StatusOK {
		log.Warn().Int("status", resp.StatusCode()).Msg("identity lookup rejected token")
		return nil, model.NewUnauthenticatedError("unauthorized")
	}
	if me.UserID == "" {
		log.Warn().Msg("identity lookup returned empty user_id")
		return nil, model.NewUnauthenticatedError("unauthorized")
	}
	return &model.User{ID: me.UserID}, nil
}
