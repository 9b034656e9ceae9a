package model

// User is the authenticated caller, resolved from a bearer token by the
// identity service. It lives for one request only.
type User struct {
	ID string `json:"id"`
}

// FolderRef identifies a folder by its sanitized name and its marker key.
type FolderRef struct {
	Name string `json:"folderName"`
	Key  string `json:"-"`
}

// UploadFile is one file submitted in a multipart upload.
type UploadFile struct {
	Name        string
	ContentType string
	Data        []byte
}

// UploadResult is the per-file outcome of an upload.
type UploadResult struct {
	FileName string `json:"file_name"`
	FileKey  string `json:"file_key,omitempty"`
	Size     int64  `json:"size,omitempty"`
	Type     string `json:"type,omitempty"`
	Error    string `json:"error,omitempty"`
	Status   string `json:"status"`
}

// Upload and deletion outcome statuses.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// UploadSummary aggregates the per-file outcomes of one upload request.
type UploadSummary struct {
	Total      int `json:"total"`
	Successful int `json:"successful"`
	Failed     int `json:"failed"`
}

// DeleteOutcome is the per-key result of a folder deletion.
type DeleteOutcome struct {
	Name   string `json:"name"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// QueryResult is the outcome of a RAG query. Empty distinguishes "the folder
// holds no documents" from a query that legitimately matched nothing.
type QueryResult struct {
	Empty    bool     `json:"-"`
	Excerpts []string `json:"response"`
}

// SearchHit is one ranked result from the managed search index.
type SearchHit struct {
	FileName string  `json:"fileName"`
	Content  string  `json:"content"`
	Score    float64 `json:"score"`
}
