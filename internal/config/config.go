package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Config holds the configuration for the docvault service.
// Environment variables are parsed from the DOCVAULT_ prefix, e.g.
// DOCVAULT_HTTP_PORT, DOCVAULT_BLOB_BACKEND.
type Config struct {
	// HTTP Configuration
	HTTPPort int `envconfig:"HTTP_PORT" default:"8080"`

	// Blob store backend: "minio" or "memory" (local dev / tests)
	BlobBackend string `envconfig:"BLOB_BACKEND" default:"minio"`

	// MinIO / S3-compatible store
	MinioEndpoint  string `envconfig:"MINIO_ENDPOINT" default:"localhost:9000"`
	MinioAccessKey string `envconfig:"MINIO_ACCESS_KEY" default:"minioadmin"`
	MinioSecretKey string `envconfig:"MINIO_SECRET_KEY" default:"minioadmin"`
	MinioUseSSL    bool   `envconfig:"MINIO_USE_SSL" default:"false"`
	BlobBucket     string `envconfig:"BLOB_BUCKET" default:"docvault"`

	// Identity service. AuthMode "http" resolves bearer tokens against
	// {IdentityURL}/me; "static" accepts DevToken as DevUserID for local dev.
	AuthMode               string `envconfig:"AUTH_MODE" default:"http"`
	IdentityURL            string `envconfig:"IDENTITY_URL" default:"http://localhost:8000/v1"`
	IdentityTimeoutSeconds int    `envconfig:"IDENTITY_TIMEOUT_SECONDS" default:"10"`
	DevToken               string `envconfig:"DEV_TOKEN" default:"dv_local_dev_token"`
	DevUserID              string `envconfig:"DEV_USER_ID" default:"docvault-dev"`

	// AI completion service (OpenAI-compatible)
	AIBaseURL        string `envconfig:"AI_BASE_URL" default:""`
	AIAPIKey         string `envconfig:"AI_API_KEY" default:""`
	AIModel          string `envconfig:"AI_MODEL" default:"gpt-4o-mini"`
	AITimeoutSeconds int    `envconfig:"AI_TIMEOUT_SECONDS" default:"120"`

	// Query mode: "search" (managed index, primary) or "fanout" (fallback)
	QueryMode string `envconfig:"QUERY_MODE" default:"search"`

	// Managed search index (Weaviate), host:port without scheme
	SearchIndexURL string `envconfig:"SEARCH_INDEX_URL" default:"localhost:8081"`
	SearchTopK     int    `envconfig:"SEARCH_TOP_K" default:"10"`
}

// ResolveDefaults validates enum-style fields after parsing.
func (c *Config) ResolveDefaults() error {
	switch c.BlobBackend {
	case "minio", "memory":
	default:
		return fmt.Errorf("unsupported DOCVAULT_BLOB_BACKEND: %s", c.BlobBackend)
	}
	switch c.AuthMode {
	case "http", "static":
	default:
		return fmt.Errorf("unsupported DOCVAULT_AUTH_MODE: %s", c.AuthMode)
	}
	switch c.QueryMode {
	case "search", "fanout":
	default:
		return fmt.Errorf("unsupported DOCVAULT_QUERY_MODE: %s", c.QueryMode)
	}
	if c.QueryMode == "fanout" && c.AIAPIKey == "" {
		return fmt.Errorf("DOCVAULT_AI_API_KEY is required in fanout query mode")
	}
	if c.SearchTopK <= 0 {
		return fmt.Errorf("DOCVAULT_SEARCH_TOP_K must be positive, got %d", c.SearchTopK)
	}
	return nil
}

// New creates a new Config by parsing DOCVAULT_-prefixed environment variables.
func New() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("DOCVAULT", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}
	if err := cfg.ResolveDefaults(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
