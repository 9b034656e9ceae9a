package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/docvault-ai/docvault/internal/ai"
	"github.com/docvault-ai/docvault/internal/api"
	"github.com/docvault-ai/docvault/internal/auth"
	"github.com/docvault-ai/docvault/internal/blob"
	minioblob "github.com/docvault-ai/docvault/internal/blob/minio"
	"github.com/docvault-ai/docvault/internal/config"
	"github.com/docvault-ai/docvault/internal/logger"
	"github.com/docvault-ai/docvault/internal/searchindex"
	"github.com/docvault-ai/docvault/internal/services"
)

func main() {
	// Optional query-mode flag override (search | fanout)
	queryMode := flag.String("query-mode", "", "Override DOCVAULT_QUERY_MODE (search, fanout)")
	flag.Parse()

	log := logger.New("docvault")

	cfg, err := config.New()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if *queryMode != "" {
		cfg.QueryMode = *queryMode
		if err := cfg.ResolveDefaults(); err != nil {
			log.Fatal().Err(err).Msg("Invalid query-mode override")
		}
	}

	log.Info().
		Str("blob_backend", cfg.BlobBackend).
		Str("auth_mode", cfg.AuthMode).
		Str("query_mode", cfg.QueryMode).
		Int("http_port", cfg.HTTPPort).
		Msg("docvault starting…")

	ctx := context.Background()

	// -------- Blob store --------------------
	var store blob.Store
	switch cfg.BlobBackend {
	case "minio":
		store, err = minioblob.New(ctx, minioblob.Config{
			Endpoint:  cfg.MinioEndpoint,
			AccessKey: cfg.MinioAccessKey,
			SecretKey: cfg.MinioSecretKey,
			UseSSL:    cfg.MinioUseSSL,
			Bucket:    cfg.BlobBucket,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("Blob store unavailable")
		}
	case "memory":
		store = blob.NewMemStore()
	}

	// -------- Identity ----------------------
	var resolver auth.Resolver
	switch cfg.AuthMode {
	case "http":
		resolver = auth.NewHTTPResolver(cfg.IdentityURL, time.Duration(cfg.IdentityTimeoutSeconds)*time.Second)
	case "static":
		resolver = auth.NewStaticResolver(cfg.DevToken, cfg.DevUserID)
	}

	// -------- Search index ------------------
	var (
		idx    searchindex.Index
		health searchindex.HealthPinger
	)
	if cfg.QueryMode == services.QueryModeSearch {
		if err := searchindex.BootstrapWeaviate(ctx, cfg.SearchIndexURL); err != nil {
			log.Fatal().Err(err).Msg("Search index bootstrap failed")
		}
		idx, err = searchindex.NewWeaviateIndex(cfg.SearchIndexURL)
		if err != nil {
			log.Fatal().Err(err).Msg("Search index unavailable")
		}
		health, _ = idx.(searchindex.HealthPinger)
	}

	// -------- AI provider -------------------
	var provider ai.Provider
	if cfg.QueryMode == services.QueryModeFanout {
		provider = ai.NewClient(ai.Config{
			BaseURL: cfg.AIBaseURL,
			APIKey:  cfg.AIAPIKey,
			Model:   cfg.AIModel,
			Timeout: time.Duration(cfg.AITimeoutSeconds) * time.Second,
		})
	}

	// -------- Services, router, server ------
	folderSvc := services.NewFolderService(store, idx)
	querySvc := services.NewQueryService(store, provider, idx, cfg.QueryMode, cfg.SearchTopK)

	router := api.NewRouter(api.RouterDeps{
		Store:    store,
		Resolver: resolver,
		Folders:  folderSvc,
		Query:    querySvc,
		Health:   health,
	})
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Int("port", cfg.HTTPPort).Msg("HTTP server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server…")
	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited")
}
