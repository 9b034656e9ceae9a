package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docvault-ai/docvault/internal/blob"
	"github.com/docvault-ai/docvault/internal/model"
	"github.com/docvault-ai/docvault/internal/searchindex"
)

// fakeIndex records index operations for assertions.
type fakeIndex struct {
	mu             sync.Mutex
	upserts        []searchindex.Document
	deletedDocs    []string
	deletedFolders []string
	searchHits     []model.SearchHit
	searchErr      error
}

func (f *fakeIndex) Search(_ context.Context, _, _ string, _ int) ([]model.SearchHit, error) {
	return f.searchHits, f.searchErr
}

func (f *fakeIndex) UpsertDocument(_ context.Context, doc searchindex.Document) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.upserts = append(f.upserts, doc)
	return nil
}

func (f *fakeIndex) DeleteDocument(_ context.Context, folder, fileName string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletedDocs = append(f.deletedDocs, folder+"/"+fileName)
	return nil
}

func (f *fakeIndex) DeleteFolder(_ context.Context, folder string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletedFolders = append(f.deletedFolders, folder)
	return nil
}

func newTestFolderService(idx searchindex.Index) (*FolderService, *blob.MemStore) {
	store := blob.NewMemStore()
	svc := NewFolderService(store, idx)
	svc.uploadBackoff = time.Millisecond
	return svc, store
}

func TestCreateFolderIsVisibleInListing(t *testing.T) {
	svc, _ := newTestFolderService(nil)
	ctx := context.Background()

	ref, err := svc.CreateFolder(ctx, "alice", "reports")
	require.NoError(t, err)
	assert.Equal(t, "reports", ref.Name)
	assert.Equal(t, "alice/reports/", ref.Key)

	folders, err := svc.ListFolders(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, []string{"reports"}, folders)
}

func TestCreateFolderIdempotent(t *testing.T) {
	svc, store := newTestFolderService(nil)
	ctx := context.Background()

	_, err := svc.CreateFolder(ctx, "alice", "reports")
	require.NoError(t, err)
	require.NoError(t, store.Put(ctx, "alice/reports/a.txt", []byte("x"), "text/plain"))

	_, err = svc.CreateFolder(ctx, "alice", "reports")
	require.NoError(t, err)

	files, err := svc.ListFiles(ctx, "alice", "reports")
	require.NoError(t, err)
	assert.Equal(t, []string{"a.txt"}, files, "re-creating a folder must not disturb its files")
}

func TestFolderNameSlashNormalization(t *testing.T) {
	svc, _ := newTestFolderService(nil)
	ctx := context.Background()

	_, err := svc.CreateFolder(ctx, "alice", "//reports/")
	require.NoError(t, err)

	// lookup with different slash decoration resolves to the same folder
	files, err := svc.ListFiles(ctx, "alice", "/reports//")
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestFolderNameValidation(t *testing.T) {
	svc, _ := newTestFolderService(nil)
	ctx := context.Background()

	for _, bad := range []string{"", "///", "my folder", "a/b", "sp€cial"} {
		_, err := svc.CreateFolder(ctx, "alice", bad)
		assert.True(t, model.IsValidationError(err), "name %q should be rejected", bad)
	}
}

func TestListFilesExcludesMarker(t *testing.T) {
	svc, store := newTestFolderService(nil)
	ctx := context.Background()

	_, err := svc.CreateFolder(ctx, "alice", "reports")
	require.NoError(t, err)
	require.NoError(t, store.Put(ctx, "alice/reports/q1.pdf", []byte("pdf"), "application/pdf"))
	require.NoError(t, store.Put(ctx, "alice/reports/q2.pdf", []byte("pdf"), "application/pdf"))

	files, err := svc.ListFiles(ctx, "alice", "reports")
	require.NoError(t, err)
	assert.Equal(t, []string{"q1.pdf", "q2.pdf"}, files)
}

func TestListFilesMissingFolder(t *testing.T) {
	svc, _ := newTestFolderService(nil)

	_, err := svc.ListFiles(context.Background(), "alice", "nope")
	assert.True(t, model.IsNotFoundError(err))
}

func TestListFilesFolderWithoutMarker(t *testing.T) {
	svc, store := newTestFolderService(nil)
	ctx := context.Background()

	// files exist but the marker was never written (or was lost)
	require.NoError(t, store.Put(ctx, "alice/reports/a.txt", []byte("x"), "text/plain"))

	files, err := svc.ListFiles(ctx, "alice", "reports")
	require.NoError(t, err, "existence is decided by the prefix listing, not the marker")
	assert.Equal(t, []string{"a.txt"}, files)
}

func TestUploadFiles(t *testing.T) {
	idx := &fakeIndex{}
	svc, store := newTestFolderService(idx)
	ctx := context.Background()

	_, err := svc.CreateFolder(ctx, "alice", "reports")
	require.NoError(t, err)

	results, summary, err := svc.UploadFiles(ctx, "alice", "reports", []model.UploadFile{
		{Name: "a.txt", ContentType: "text/plain", Data: []byte("alpha")},
		{Name: "b.txt", Data: []byte("beta")},
	})
	require.NoError(t, err)
	assert.Equal(t, model.UploadSummary{Total: 2, Successful: 2, Failed: 0}, summary)

	for _, r := range results {
		assert.Equal(t, model.StatusSuccess, r.Status)
	}
	byName := map[string]model.UploadResult{}
	for _, r := range results {
		byName[r.FileName] = r
	}
	assert.Equal(t, "alice/reports/a.txt", byName["a.txt"].FileKey)
	assert.Equal(t, int64(5), byName["a.txt"].Size)
	assert.Equal(t, "application/octet-stream", byName["b.txt"].Type, "missing content type gets a default")

	_, _, err = store.Get(ctx, "alice/reports/a.txt")
	require.NoError(t, err)

	assert.Len(t, idx.upserts, 2, "successful uploads are mirrored into the index")
}

func TestUploadFilesMissingFolder(t *testing.T) {
	svc, _ := newTestFolderService(nil)

	_, _, err := svc.UploadFiles(context.Background(), "alice", "nope", []model.UploadFile{
		{Name: "a.txt", Data: []byte("x")},
	})
	assert.True(t, model.IsNotFoundError(err))
}

// failingStore wraps a MemStore and fails Put for chosen keys.
type failingStore struct {
	*blob.MemStore
	mu       sync.Mutex
	failKeys map[string]bool
}

func (f *failingStore) Put(ctx context.Context, key string, data []byte, contentType string) error {
	f.mu.Lock()
	fail := f.failKeys[key]
	f.mu.Unlock()
	if fail {
		return model.NewStoreError("put", context.DeadlineExceeded)
	}
	return f.MemStore.Put(ctx, key, data, contentType)
}

func TestUploadFilesPartialFailure(t *testing.T) {
	store := &failingStore{
		MemStore: blob.NewMemStore(),
		failKeys: map[string]bool{"alice/reports/bad.txt": true},
	}
	svc := NewFolderService(store, nil)
	svc.uploadBackoff = time.Millisecond
	ctx := context.Background()

	_, err := svc.CreateFolder(ctx, "alice", "reports")
	require.NoError(t, err)

	results, summary, err := svc.UploadFiles(ctx, "alice", "reports", []model.UploadFile{
		{Name: "good.txt", Data: []byte("ok")},
		{Name: "bad.txt", Data: []byte("nope")},
	})
	require.NoError(t, err)
	assert.Equal(t, model.UploadSummary{Total: 2, Successful: 1, Failed: 1}, summary)

	byName := map[string]model.UploadResult{}
	for _, r := range results {
		byName[r.FileName] = r
	}
	assert.Equal(t, model.StatusSuccess, byName["good.txt"].Status)
	assert.Equal(t, model.StatusError, byName["bad.txt"].Status)
	assert.NotEmpty(t, byName["bad.txt"].Error)
}

func TestDeleteFolder(t *testing.T) {
	idx := &fakeIndex{}
	svc, store := newTestFolderService(idx)
	ctx := context.Background()

	_, err := svc.CreateFolder(ctx, "alice", "reports")
	require.NoError(t, err)
	require.NoError(t, store.Put(ctx, "alice/reports/a.txt", []byte("x"), "text/plain"))
	require.NoError(t, store.Put(ctx, "alice/reports/b.txt", []byte("y"), "text/plain"))

	deleted, failed, err := svc.DeleteFolder(ctx, "alice", "reports")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a.txt", "b.txt"}, deleted)
	assert.Empty(t, failed)
	assert.Equal(t, []string{"alice/reports"}, idx.deletedFolders)

	_, err = svc.ListFiles(ctx, "alice", "reports")
	assert.True(t, model.IsNotFoundError(err), "folder is gone, marker included")
}

func TestDeleteFolderMissing(t *testing.T) {
	svc, _ := newTestFolderService(nil)

	_, _, err := svc.DeleteFolder(context.Background(), "alice", "nope")
	assert.True(t, model.IsNotFoundError(err))
}

func TestDeleteFileDistinguishesFolderAndFile(t *testing.T) {
	svc, store := newTestFolderService(nil)
	ctx := context.Background()

	_, err := svc.CreateFolder(ctx, "alice", "reports")
	require.NoError(t, err)
	require.NoError(t, store.Put(ctx, "alice/reports/a.txt", []byte("x"), "text/plain"))

	err = svc.DeleteFile(ctx, "alice", "nope", "a.txt")
	require.True(t, model.IsNotFoundError(err))
	var nf model.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "folder", nf.Field)

	err = svc.DeleteFile(ctx, "alice", "reports", "missing.txt")
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "file", nf.Field)

	require.NoError(t, svc.DeleteFile(ctx, "alice", "reports", "a.txt"))
	files, err := svc.ListFiles(ctx, "alice", "reports")
	require.NoError(t, err)
	assert.Empty(t, files)
}
