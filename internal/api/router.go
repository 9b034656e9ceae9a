package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/docvault-ai/docvault/internal/api/recovery"
	"github.com/docvault-ai/docvault/internal/auth"
	"github.com/docvault-ai/docvault/internal/blob"
	"github.com/docvault-ai/docvault/internal/searchindex"
	"github.com/docvault-ai/docvault/internal/services"
)

// RouterDeps carries the wired dependencies for the HTTP surface.
type RouterDeps struct {
	Store    blob.Store
	Resolver auth.Resolver
	Folders  *services.FolderService
	Query    *services.QueryService
	Health   searchindex.HealthPinger // nil when no index is configured
}

// NewRouter creates the HTTP router with all API routes. CORS and request-id
// handling wrap the router itself so OPTIONS preflights are answered even on
// routes that only register other methods.
func NewRouter(deps RouterDeps) http.Handler {
	router := mux.NewRouter()

	// Global middlewares
	router.Use(recovery.Middleware)

	healthHandler := NewHealthHandler(deps.Store, deps.Health)
	folderHandler := NewFolderHandler(deps.Folders)
	queryHandler := NewQueryHandler(deps.Query)

	// Health endpoint
	router.HandleFunc("/health", healthHandler.CheckHealth).Methods("GET")

	// Query endpoint; the rag path encodes the caller's identity
	router.HandleFunc("/toolhouse-rag", queryHandler.HandleQuery).Methods("POST")

	// Folder and file endpoints, bearer-token authenticated
	rag := router.PathPrefix("/v1/rag").Subrouter()
	rag.Use(AuthMiddleware(deps.Resolver))
	rag.HandleFunc("", folderHandler.ListFolders).Methods("GET")
	rag.HandleFunc("", folderHandler.CreateFolder).Methods("POST")
	rag.HandleFunc("/{folder_name}", folderHandler.ListFiles).Methods("GET")
	rag.HandleFunc("/{folder_name}", folderHandler.UploadFiles).Methods("POST")
	rag.HandleFunc("/{folder_name}", folderHandler.DeleteFolder).Methods("DELETE")
	rag.HandleFunc("/{folder_name}/{filename}", folderHandler.DeleteFile).Methods("DELETE")

	return RequestIDMiddleware(CORSMiddleware(router))
}
