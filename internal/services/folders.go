// Package services contains the core business logic: the folder/file
// lifecycle over the blob store and the RAG query orchestration.
package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog/log"

	"github.com/docvault-ai/docvault/internal/blob"
	"github.com/docvault-ai/docvault/internal/model"
	"github.com/docvault-ai/docvault/internal/searchindex"
)

// folder names: letters, digits, dashes, underscores
var folderNameRx = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

const (
	uploadMaxRetries   = 3
	defaultBackoff     = time.Second
	defaultContentType = "application/octet-stream"
)

// FolderService manages per-user folders and files stored as objects keyed
// {userId}/{folderName}/{fileName}, with a zero-byte marker object at
// {userId}/{folderName}/ designating the folder.
//
// The store is the single source of truth and is only eventually consistent
// across keys: concurrent create/upload/delete against the same prefix can
// interleave. No advisory locking is attempted.
type FolderService struct {
	store blob.Store
	idx   searchindex.Index // optional; nil disables index propagation

	// uploadBackoff is the initial retry interval for store writes.
	// Doubled on each attempt (1s, 2s, 4s). Tests shrink it.
	uploadBackoff time.Duration
}

// NewFolderService creates a FolderService. idx may be nil.
func NewFolderService(store blob.Store, idx searchindex.Index) *FolderService {
	return &FolderService{store: store, idx: idx, uploadBackoff: defaultBackoff}
}

// sanitizeName strips all leading and trailing slashes.
func sanitizeName(s string) string {
	return strings.Trim(s, "/")
}

// validateFolderName sanitizes rawName and rejects names outside
// [A-Za-z0-9_-]+.
func validateFolderName(rawName string) (string, error) {
	name := sanitizeName(rawName)
	if name == "" {
		return "", model.NewValidationError("folder_name", "folder name is required")
	}
	if !folderNameRx.MatchString(name) {
		return "", model.NewValidationError("folder_name",
			"folder name can only contain letters, numbers, dashes, and underscores")
	}
	return name, nil
}

// markerKey is the folder's zero-byte marker object; folderPrefix is the
// listing prefix. Both render the same string, kept separate for intent.
func markerKey(userID, name string) string { return userID + "/" + name + "/" }

func folderPrefix(userID, name string) string { return userID + "/" + name + "/" }

// folderExists is the canonical existence predicate: a folder exists iff at
// least one object (marker included) lives under its prefix. Used on every
// path that gates on folder existence, so lost markers do not orphan files.
func (s *FolderService) folderExists(ctx context.Context, userID, name string) (bool, error) {
	l, err := s.store.List(ctx, blob.ListOptions{Prefix: folderPrefix(userID, name), Limit: 1})
	if err != nil {
		return false, model.NewStoreError("list", err)
	}
	return len(l.Objects) > 0, nil
}

// CreateFolder writes the folder's zero-byte marker object. Creating an
// existing folder is a no-op that succeeds (idempotent by construction).
func (s *FolderService) CreateFolder(ctx context.Context, userID, rawName string) (*model.FolderRef, error) {
	name, err := validateFolderName(rawName)
	if err != nil {
		return nil, err
	}

	key := markerKey(userID, name)
	log.Info().Str("userId", userID).Str("folder", name).Msg("creating folder")
	if err := s.store.Put(ctx, key, nil, ""); err != nil {
		log.Error().Err(err).Str("key", key).Msg("failed to write folder marker")
		return nil, model.NewStoreError("put", err)
	}
	return &model.FolderRef{Name: name, Key: key}, nil
}

// ListFolders returns the caller's folder names, derived from the common
// prefixes directly under {userId}/.
func (s *FolderService) ListFolders(ctx context.Context, userID string) ([]string, error) {
	l, err := s.store.List(ctx, blob.ListOptions{Prefix: userID + "/", Delimited: true})
	if err != nil {
		log.Warn().Err(err).Str("userId", userID).Msg("ListFolders failed")
		return nil, model.NewStoreError("list", err)
	}

	folders := make([]string, 0, len(l.CommonPrefixes))
	for _, p := range l.CommonPrefixes {
		folders = append(folders, strings.TrimSuffix(strings.TrimPrefix(p, userID+"/"), "/"))
	}
	return folders, nil
}

// ListFiles returns the file names inside a folder, in store order, with the
// folder marker excluded by exact key match. NotFound only when nothing at
// all exists under the prefix; a folder holding just its marker lists as
// empty.
func (s *FolderService) ListFiles(ctx context.Context, userID, rawName string) ([]string, error) {
	name, err := validateFolderName(rawName)
	if err != nil {
		return nil, err
	}

	prefix := folderPrefix(userID, name)
	l, err := s.store.List(ctx, blob.ListOptions{Prefix: prefix})
	if err != nil {
		return nil, model.NewStoreError("list", err)
	}
	if len(l.Objects) == 0 {
		return nil, model.NewNotFoundError("folder", fmt.Sprintf("RAG folder '%s' not found", name))
	}

	files := make([]string, 0, len(l.Objects))
	for _, obj := range l.Objects {
		if obj.Key == markerKey(userID, name) {
			continue
		}
		files = append(files, strings.TrimPrefix(obj.Key, prefix))
	}
	return files, nil
}

// DeleteFolder removes every object under the folder's prefix, marker
// included, deleting concurrently. It returns the names of deleted files and
// the per-key failures; the index is told to drop the folder before any blob
// is touched so a failed index stays consistent with still-present data.
func (s *FolderService) DeleteFolder(ctx context.Context, userID, rawName string) (deleted []string, failed []model.DeleteOutcome, err error) {
	name, verr := validateFolderName(rawName)
	if verr != nil {
		return nil, nil, verr
	}

	prefix := folderPrefix(userID, name)
	l, err := s.store.List(ctx, blob.ListOptions{Prefix: prefix})
	if err != nil {
		return nil, nil, model.NewStoreError("list", err)
	}
	if len(l.Objects) == 0 {
		return nil, nil, model.NewNotFoundError("folder", fmt.Sprintf("RAG folder '%s' not found", name))
	}

	if s.idx != nil {
		if err := s.idx.DeleteFolder(ctx, userID+"/"+name); err != nil {
			log.Error().Err(err).Str("folder", name).Msg("index folder delete failed")
			return nil, nil, model.NewStoreError("index delete", err)
		}
	}

	log.Info().Str("userId", userID).Str("folder", name).Int("objects", len(l.Objects)).Msg("deleting folder")

	outcomes := make([]model.DeleteOutcome, len(l.Objects))
	var wg sync.WaitGroup
	for i, obj := range l.Objects {
		wg.Add(1)
		go func(i int, key string) {
			defer wg.Done()
			fileName := strings.TrimPrefix(key, prefix)
			if key == markerKey(userID, name) {
				fileName = name + "/"
			}
			if derr := s.store.Delete(ctx, key); derr != nil {
				outcomes[i] = model.DeleteOutcome{Name: fileName, Status: model.StatusError, Error: derr.Error()}
				return
			}
			outcomes[i] = model.DeleteOutcome{Name: fileName, Status: model.StatusSuccess}
		}(i, obj.Key)
	}
	wg.Wait()

	for i, out := range outcomes {
		isMarker := l.Objects[i].Key == markerKey(userID, name)
		switch {
		case out.Status == model.StatusError:
			failed = append(failed, out)
		case !isMarker:
			deleted = append(deleted, out.Name)
		}
	}
	return deleted, failed, nil
}

// DeleteFile removes one file. Folder absence and file absence are distinct
// NotFound errors.
func (s *FolderService) DeleteFile(ctx context.Context, userID, rawName, fileName string) error {
	name, err := validateFolderName(rawName)
	if err != nil {
		return err
	}
	fileName = sanitizeName(fileName)
	if fileName == "" {
		return model.NewValidationError("filename", "file name is required")
	}

	exists, err := s.folderExists(ctx, userID, name)
	if err != nil {
		return err
	}
	if !exists {
		return model.NewNotFoundError("folder", "RAG folder not found or does not exist")
	}

	key := folderPrefix(userID, name) + fileName
	if _, err := s.store.Stat(ctx, key); err != nil {
		if model.IsNotFoundError(err) {
			return model.NewNotFoundError("file",
				fmt.Sprintf("File '%s' not found or does not exist in folder '%s'", fileName, name))
		}
		return model.NewStoreError("stat", err)
	}

	if s.idx != nil {
		if err := s.idx.DeleteDocument(ctx, userID+"/"+name, fileName); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("index document delete failed")
		}
	}

	if err := s.store.Delete(ctx, key); err != nil {
		return model.NewStoreError("delete", err)
	}
	log.Info().Str("key", key).Msg("file deleted")
	return nil
}

// UploadFiles writes each file under the folder's prefix, all files
// concurrently and each independently: one file's permanent failure does not
// abort the others. Store writes are retried up to three times with
// exponential backoff. Successful uploads are mirrored into the search index
// best-effort.
func (s *FolderService) UploadFiles(ctx context.Context, userID, rawName string, files []model.UploadFile) ([]model.UploadResult, model.UploadSummary, error) {
	name, err := validateFolderName(rawName)
	if err != nil {
		return nil, model.UploadSummary{}, err
	}

	exists, err := s.folderExists(ctx, userID, name)
	if err != nil {
		return nil, model.UploadSummary{}, err
	}
	if !exists {
		return nil, model.UploadSummary{}, model.NewNotFoundError("folder",
			"RAG folder not found or you do not have access to it")
	}

	results := make([]model.UploadResult, len(files))
	var wg sync.WaitGroup
	for i, f := range files {
		wg.Add(1)
		go func(i int, f model.UploadFile) {
			defer wg.Done()
			results[i] = s.uploadOne(ctx, userID, name, f)
		}(i, f)
	}
	wg.Wait()

	summary := model.UploadSummary{Total: len(files)}
	for _, r := range results {
		if r.Status == model.StatusSuccess {
			summary.Successful++
		} else {
			summary.Failed++
		}
	}
	return results, summary, nil
}

// uploadOne writes a single file with bounded retry and reports its outcome.
func (s *FolderService) uploadOne(ctx context.Context, userID, folder string, f model.UploadFile) model.UploadResult {
	fileName := sanitizeName(f.Name)
	if fileName == "" {
		return model.UploadResult{FileName: f.Name, Error: "file name is required", Status: model.StatusError}
	}
	contentType := f.ContentType
	if contentType == "" {
		contentType = defaultContentType
	}
	key := folderPrefix(userID, folder) + fileName

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = s.uploadBackoff
	bo.Multiplier = 2
	bo.RandomizationFactor = 0

	attempt := 0
	op := func() error {
		attempt++
		perr := s.store.Put(ctx, key, f.Data, contentType)
		if perr != nil {
			log.Warn().Err(perr).Str("key", key).Int("attempt", attempt).Msg("upload attempt failed")
		}
		return perr
	}
	if err := backoff.Retry(op, backoff.WithContext(backoff.WithMaxRetries(bo, uploadMaxRetries), ctx)); err != nil {
		log.Error().Err(err).Str("key", key).Msg("upload failed after retries")
		return model.UploadResult{FileName: f.Name, Error: err.Error(), Status: model.StatusError}
	}

	if s.idx != nil {
		doc := searchindex.Document{Folder: userID + "/" + folder, FileName: fileName, Content: string(f.Data)}
		if ierr := s.idx.UpsertDocument(ctx, doc); ierr != nil {
			log.Warn().Err(ierr).Str("key", key).Msg("index upsert failed")
		}
	}

	return model.UploadResult{
		FileName: f.Name,
		FileKey:  key,
		Size:     int64(len(f.Data)),
		Type:     contentType,
		Status:   model.StatusSuccess,
	}
}
