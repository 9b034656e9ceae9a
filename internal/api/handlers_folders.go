package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"github.com/docvault-ai/docvault/internal/api/respond"
	"github.com/docvault-ai/docvault/internal/model"
	"github.com/docvault-ai/docvault/internal/services"
)

// maxUploadMemory bounds how much of a multipart body is buffered in memory;
// the rest spills to temp files.
const maxUploadMemory = 32 << 20

// FolderHandler is a thin HTTP transport over the FolderService.
type FolderHandler struct {
	svc *services.FolderService
}

func NewFolderHandler(svc *services.FolderService) *FolderHandler { return &FolderHandler{svc: svc} }

// ListFolders GET /v1/rag
func (h *FolderHandler) ListFolders(w http.ResponseWriter, r *http.Request) {
	user := CurrentUser(r)
	folders, err := h.svc.ListFolders(r.Context(), user.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, folders)
}

// CreateFolder POST /v1/rag
func (h *FolderHandler) CreateFolder(w http.ResponseWriter, r *http.Request) {
	user := CurrentUser(r)
	var req struct {
		FolderName string `json:"folder_name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	ref, err := h.svc.CreateFolder(r.Context(), user.ID, req.FolderName)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"message":    fmt.Sprintf("Folder '%s' created successfully", ref.Name),
		"folderName": ref.Name,
	})
}

// ListFiles GET /v1/rag/{folder_name}
func (h *FolderHandler) ListFiles(w http.ResponseWriter, r *http.Request) {
	user := CurrentUser(r)
	folderName := mux.Vars(r)["folder_name"]
	files, err := h.svc.ListFiles(r.Context(), user.ID, folderName)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"message":    "Files retrieved successfully",
		"folderName": folderName,
		"files":      files,
	})
}

// UploadFiles POST /v1/rag/{folder_name}
//
// Accepts multipart/form-data; every file part is uploaded regardless of its
// field name. 200 when all files land, 207 on a mixed outcome, 500 when every
// file fails.
func (h *FolderHandler) UploadFiles(w http.ResponseWriter, r *http.Request) {
	user := CurrentUser(r)
	folderName := mux.Vars(r)["folder_name"]

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		respond.WriteBadRequest(w, "Invalid multipart form data")
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	var files []model.UploadFile
	if r.MultipartForm != nil {
		for _, headers := range r.MultipartForm.File {
			for _, fh := range headers {
				f, err := fh.Open()
				if err != nil {
					log.Warn().Err(err).Str("file", fh.Filename).Msg("failed to open multipart file")
					continue
				}
				data, err := io.ReadAll(f)
				_ = f.Close()
				if err != nil {
					log.Warn().Err(err).Str("file", fh.Filename).Msg("failed to read multipart file")
					continue
				}
				files = append(files, model.UploadFile{
					Name:        fh.Filename,
					ContentType: fh.Header.Get("Content-Type"),
					Data:        data,
				})
			}
		}
	}
	if len(files) == 0 {
		respond.WriteBadRequest(w, "No files provided")
		return
	}

	results, summary, err := h.svc.UploadFiles(r.Context(), user.ID, folderName, files)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	status := http.StatusOK
	message := "All files uploaded successfully"
	switch {
	case summary.Failed == summary.Total:
		status = http.StatusInternalServerError
		message = "All file uploads failed"
	case summary.Failed > 0:
		status = http.StatusMultiStatus
		message = "Some files failed to upload"
	}
	respond.WriteJSON(w, status, map[string]interface{}{
		"message": message,
		"files":   results,
		"summary": summary,
	})
}

// DeleteFolder DELETE /v1/rag/{folder_name}
//
// 200 when every object under the prefix was removed, 207 when some per-key
// deletions failed, with the failures listed in the body.
func (h *FolderHandler) DeleteFolder(w http.ResponseWriter, r *http.Request) {
	user := CurrentUser(r)
	folderName := mux.Vars(r)["folder_name"]
	deleted, failed, err := h.svc.DeleteFolder(r.Context(), user.ID, folderName)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if deleted == nil {
		deleted = []string{}
	}
	status := http.StatusOK
	body := map[string]interface{}{
		"message":      fmt.Sprintf("Folder '%s' deleted successfully", folderName),
		"folderName":   folderName,
		"deletedFiles": deleted,
	}
	if len(failed) > 0 {
		status = http.StatusMultiStatus
		body["message"] = fmt.Sprintf("Folder '%s' deleted with errors", folderName)
		body["failed"] = failed
	}
	respond.WriteJSON(w, status, body)
}

// DeleteFile DELETE /v1/rag/{folder_name}/{filename}
func (h *FolderHandler) DeleteFile(w http.ResponseWriter, r *http.Request) {
	user := CurrentUser(r)
	vars := mux.Vars(r)
	if err := h.svc.DeleteFile(r.Context(), user.ID, vars["folder_name"], vars["filename"]); err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteNoContent(w)
}
