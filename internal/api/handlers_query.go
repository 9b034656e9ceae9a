package api

import (
	"encoding/json"
	"net/http"

	"github.com/docvault-ai/docvault/internal/api/respond"
	"github.com/docvault-ai/docvault/internal/services"
)

// QueryHandler exposes the RAG query endpoint.
type QueryHandler struct {
	svc *services.QueryService
}

func NewQueryHandler(svc *services.QueryService) *QueryHandler { return &QueryHandler{svc: svc} }

// HandleQuery POST /toolhouse-rag
//
// The rag field carries the full "{userId}/{folderName}" path, so the
// endpoint needs no bearer token of its own.
func (h *QueryHandler) HandleQuery(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Rag   string `json:"rag"`
		Query string `json:"query"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}

	res, err := h.svc.Query(r.Context(), req.Rag, req.Query)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if res.Empty {
		respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"message": "Folder is empty"})
		return
	}
	respond.WriteJSON(w, http.StatusOK, res)
}
