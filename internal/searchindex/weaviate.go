package searchindex

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	weaviate "github.com/weaviate/weaviate-go-client/v5/weaviate"
	filters "github.com/weaviate/weaviate-go-client/v5/weaviate/filters"
	gql "github.com/weaviate/weaviate-go-client/v5/weaviate/graphql"

	"github.com/docvault-ai/docvault/internal/model"
)

const className = "RagDocument"

// wavIndex implements Index using the Weaviate Go client with BM25 ranking.
// No embedder is involved: the index is keyword-ranked.
type wavIndex struct{ client *weaviate.Client }

// NewWeaviateIndex constructs an Index backed by Weaviate at baseURL.
// baseURL should be host:port (without scheme), e.g. "localhost:8081".
func NewWeaviateIndex(baseURL string) (Index, error) {
	cfg := weaviate.Config{Scheme: "http", Host: baseURL}
	cl, err := weaviate.NewClient(cfg)
	if err != nil {
		return nil, err
	}
	return &wavIndex{client: cl}, nil
}

// docID derives a stable object ID from the document's folder-scoped name so
// re-uploading a file replaces its index entry.
func docID(folder, fileName string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(folder+"/"+fileName)).String()
}

func (w *wavIndex) Search(ctx context.Context, folder, query string, topK int) ([]model.SearchHit, error) {
	bm25 := (&gql.BM25ArgumentBuilder{}).
		WithQuery(query).
		WithProperties("content", "fileName")

	where := filters.Where().WithPath([]string{"folder"}).WithOperator(filters.Equal).WithValueText(folder)

	resp, err := w.client.GraphQL().Get().
		WithClassName(className).
		WithWhere(where).
		WithBM25(bm25).
		WithLimit(topK).
		WithFields(
			gql.Field{Name: "fileName"},
			gql.Field{Name: "content"},
			gql.Field{Name: "_additional", Fields: []gql.Field{{Name: "score"}}},
		).
		Do(ctx)
	if err != nil {
		return nil, err
	}
	if len(resp.Errors) > 0 {
		return nil, fmt.Errorf("weaviate graphql: %s", formatGraphQLErrors(resp.Errors))
	}

	getData, ok := resp.Data["Get"].(map[string]interface{})
	if !ok {
		return nil, nil
	}
	raw, ok := getData[className].([]interface{})
	if !ok {
		return []model.SearchHit{}, nil
	}
	out := make([]model.SearchHit, 0, len(raw))
	for _, item := range raw {
		m, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		var score float64
		if add, ok := m["_additional"].(map[string]interface{}); ok {
			switch v := add["score"].(type) {
			case float64:
				score = v
			case string:
				if f, err := strconv.ParseFloat(v, 64); err == nil {
					score = f
				}
			}
		}
		name, _ := m["fileName"].(string)
		content, _ := m["content"].(string)
		out = append(out, model.SearchHit{FileName: name, Content: content, Score: score})
	}
	return out, nil
}

// UpsertDocument replaces the document's index entry. Delete-then-create
// because Creator rejects an existing ID.
func (w *wavIndex) UpsertDocument(ctx context.Context, doc Document) error {
	id := docID(doc.Folder, doc.FileName)
	_ = w.client.Data().Deleter().WithClassName(className).WithID(id).Do(ctx)
	_, err := w.client.Data().Creator().
		WithClassName(className).
		WithID(id).
		WithProperties(map[string]interface{}{
			"folder":   doc.Folder,
			"fileName": doc.FileName,
			"content":  doc.Content,
		}).
		Do(ctx)
	return err
}

func (w *wavIndex) DeleteDocument(ctx context.Context, folder, fileName string) error {
	if w == nil || w.client == nil || folder == "" || fileName == "" {
		return nil
	}
	_ = w.client.Data().Deleter().WithClassName(className).WithID(docID(folder, fileName)).Do(ctx)
	return nil
}

// DeleteFolder lists the folder's documents and deletes them by ID.
func (w *wavIndex) DeleteFolder(ctx context.Context, folder string) error {
	if w == nil || w.client == nil || folder == "" {
		return nil
	}
	where := filters.Where().WithPath([]string{"folder"}).WithOperator(filters.Equal).WithValueText(folder)
	resp, err := w.client.GraphQL().Get().
		WithClassName(className).
		WithWhere(where).
		WithFields(gql.Field{Name: "fileName"}).
		Do(ctx)
	if err != nil || len(resp.Errors) > 0 {
		return err
	}
	getData, ok := resp.Data["Get"].(map[string]interface{})
	if !ok {
		return nil
	}
	arr, ok := getData[className].([]interface{})
	if !ok {
		return nil
	}
	for _, item := range arr {
		name, _ := item.(map[string]interface{})["fileName"].(string)
		if name != "" {
			_ = w.client.Data().Deleter().WithClassName(className).WithID(docID(folder, name)).Do(ctx)
		}
	}
	return nil
}

func formatGraphQLErrors(errs interface{}) string {
	if b, err := json.Marshal(errs); err == nil {
		return string(b)
	}
	return fmt.Sprintf("%v", errs)
}

// HealthPing reports whether Weaviate is ready.
func (w *wavIndex) HealthPing(ctx context.Context) error {
	ready, err := w.client.Misc().ReadyChecker().Do(ctx)
	if err != nil {
		return err
	}
	if !ready {
		return fmt.Errorf("weaviate not ready")
	}
	return nil
}
