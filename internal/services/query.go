package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/docvault-ai/docvault/internal/ai"
	"github.com/docvault-ai/docvault/internal/blob"
	"github.com/docvault-ai/docvault/internal/model"
	"github.com/docvault-ai/docvault/internal/searchindex"
)

// Query modes. Search consults the managed index; fanout reads every
// document in the folder and runs one model completion per document.
const (
	QueryModeSearch = "search"
	QueryModeFanout = "fanout"
)

// fanoutConcurrency caps in-flight document extractions per query.
const fanoutConcurrency = 8

// QueryService answers natural-language queries against a folder, either via
// the search index or by fanning out over the folder's documents.
type QueryService struct {
	store blob.Store
	ai    ai.Provider       // required in fanout mode
	idx   searchindex.Index // required in search mode
	mode  string
	topK  int
}

// NewQueryService creates a QueryService in the given mode.
func NewQueryService(store blob.Store, provider ai.Provider, idx searchindex.Index, mode string, topK int) *QueryService {
	return &QueryService{store: store, ai: provider, idx: idx, mode: mode, topK: topK}
}

// Query resolves folderID (a "{userId}/{folderName}" path, surrounding
// slashes tolerated) and answers query against its contents.
func (s *QueryService) Query(ctx context.Context, folderID, query string) (*model.QueryResult, error) {
	folderID = sanitizeName(folderID)
	if folderID == "" {
		return nil, model.NewValidationError("rag", "rag folder path is required")
	}
	if strings.TrimSpace(query) == "" {
		return nil, model.NewValidationError("query", "query is required")
	}

	if s.mode == QueryModeSearch {
		return s.querySearch(ctx, folderID, query)
	}
	return s.queryFanout(ctx, folderID, query)
}

// querySearch answers via the BM25 index, formatting each hit as a scored
// excerpt block.
func (s *QueryService) querySearch(ctx context.Context, folderID, query string) (*model.QueryResult, error) {
	hits, err := s.idx.Search(ctx, folderID, query, s.topK)
	if err != nil {
		log.Error().Err(err).Str("folder", folderID).Msg("index search failed")
		return nil, model.NewUpstreamError("internal error", err)
	}

	excerpts := make([]string, 0, len(hits))
	for _, h := range hits {
		excerpts = append(excerpts, fmt.Sprintf("Score: %.4f\nSource: %s\n\n%s", h.Score, h.FileName, h.Content))
	}
	return &model.QueryResult{Excerpts: excerpts}, nil
}

// queryFanout lists the folder, reads each document, and asks the model for
// relevant excerpts, one completion per document. Individual document
// failures are dropped; excerpts land in completion order. Only when every
// attempted document fails does the query itself fail.
func (s *QueryService) queryFanout(ctx context.Context, folderID, query string) (*model.QueryResult, error) {
	prefix := folderID + "/"
	l, err := s.store.List(ctx, blob.ListOptions{Prefix: prefix})
	if err != nil {
		log.Error().Err(err).Str("folder", folderID).Msg("folder listing failed")
		return nil, model.NewUpstreamError("internal error", err)
	}

	var docs []blob.ObjectInfo
	for _, obj := range l.Objects {
		if obj.Key == prefix {
			continue
		}
		docs = append(docs, obj)
	}
	if len(docs) == 0 {
		return &model.QueryResult{Empty: true}, nil
	}

	// zero-size objects count toward folder non-emptiness but carry nothing
	// to extract
	var keys []string
	for _, obj := range docs {
		if obj.Size == 0 {
			continue
		}
		keys = append(keys, obj.Key)
	}

	var (
		mu        sync.Mutex
		excerpts  []string
		attempted int
		failures  int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(fanoutConcurrency)
	for _, key := range keys {
		attempted++
		key := key
		g.Go(func() error {
			out, derr := s.extractOne(gctx, key, query)
			mu.Lock()
			defer mu.Unlock()
			if derr != nil {
				failures++
				log.Warn().Err(derr).Str("key", key).Msg("document extraction failed")
				return nil
			}
			excerpts = append(excerpts, out...)
			return nil
		})
	}
	g.Wait()

	if attempted > 0 && failures == attempted {
		return nil, model.NewUpstreamError("extraction failed", nil)
	}
	if excerpts == nil {
		excerpts = []string{}
	}
	return &model.QueryResult{Excerpts: excerpts}, nil
}

// extractOne reads one document and asks the provider for matching excerpts.
func (s *QueryService) extractOne(ctx context.Context, key, query string) ([]string, error) {
	data, contentType, err := s.store.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	doc := ai.Document{
		Name:        key[strings.LastIndex(key, "/")+1:],
		ContentType: contentType,
		Data:        data,
	}
	return s.ai.ExtractExcerpts(ctx, doc, query)
}
