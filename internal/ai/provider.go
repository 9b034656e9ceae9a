// Package ai abstracts the external generative-AI completion service used by
// the fan-out query path.
package ai

import "context"

// Document is one stored file handed to the model for excerpt extraction.
type Document struct {
	Name        string
	ContentType string
	Data        []byte
}

// Provider issues one completion per document and returns the excerpts the
// model extracted for the query.
type Provider interface {
	// ExtractExcerpts returns the verbatim excerpts of doc that answer query.
	// An empty slice means the document matched nothing.
	ExtractExcerpts(ctx context.Context, doc Document, query string) ([]string, error)
}
