package api

import (
	"errors"
	"net/http"

	"github.com/docvault-ai/docvault/internal/api/respond"
	"github.com/docvault-ai/docvault/internal/model"
)

// writeServiceError maps a service error onto the HTTP status contract.
// Only caller-safe messages leave the process; store and upstream detail
// stays in the logs.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case model.IsValidationError(err):
		respond.WriteBadRequest(w, err.Error())
	case model.IsNotFoundError(err):
		respond.WriteNotFound(w, err.Error())
	case model.IsUnauthenticatedError(err):
		respond.WriteUnauthorized(w, "unauthorized")
	case model.IsUpstreamError(err):
		var ue model.UpstreamError
		if errors.As(err, &ue) {
			respond.WriteInternalError(w, ue.Message)
			return
		}
		respond.WriteInternalError(w, "internal error")
	default:
		respond.WriteInternalError(w, "internal error")
	}
}
