package api

import (
	"net/http"
	"time"

	"github.com/docvault-ai/docvault/internal/api/respond"
	"github.com/docvault-ai/docvault/internal/blob"
	"github.com/docvault-ai/docvault/internal/searchindex"
)

// HealthHandler reports dependency health.
type HealthHandler struct {
	store blob.Store
	idx   searchindex.HealthPinger // nil when no index is configured
}

func NewHealthHandler(store blob.Store, idx searchindex.HealthPinger) *HealthHandler {
	return &HealthHandler{store: store, idx: idx}
}

// CheckHealth GET /health
// Always returns 200; the body reports healthy/unhealthy per dependency.
func (h *HealthHandler) CheckHealth(w http.ResponseWriter, r *http.Request) {
	status := "healthy"
	deps := map[string]string{}

	if err := h.store.Ping(r.Context()); err != nil {
		status = "unhealthy"
		deps["blob"] = err.Error()
	} else {
		deps["blob"] = "ok"
	}
	if h.idx != nil {
		if err := h.idx.HealthPing(r.Context()); err != nil {
			status = "unhealthy"
			deps["searchIndex"] = err.Error()
		} else {
			deps["searchIndex"] = "ok"
		}
	}

	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":       status,
		"dependencies": deps,
		"timestamp":    time.Now().Format(time.RFC3339),
	})
}
