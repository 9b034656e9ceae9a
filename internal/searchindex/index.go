// Package searchindex abstracts the managed search index used by the primary
// query mode.
package searchindex

import (
	"context"

	"github.com/docvault-ai/docvault/internal/model"
)

// Document is one stored file's indexable form.
type Document struct {
	Folder   string
	FileName string
	Content  string
}

// Index provides keyword search scoped to a folder plus index maintenance.
// Maintenance calls mirror blob mutations so the index tracks the store.
type Index interface {
	// Search returns up to topK hits for query among documents whose folder
	// equals folder, best first.
	Search(ctx context.Context, folder, query string, topK int) ([]model.SearchHit, error)

	// UpsertDocument adds or replaces one document.
	UpsertDocument(ctx context.Context, doc Document) error

	// DeleteDocument removes one document. Missing documents are not an error.
	DeleteDocument(ctx context.Context, folder, fileName string) error

	// DeleteFolder removes every document in folder.
	DeleteFolder(ctx context.Context, folder string) error
}

// HealthPinger is optionally implemented by an Index to expose specialized
// health check logic. Returns nil when healthy.
type HealthPinger interface {
	HealthPing(ctx context.Context) error
}
