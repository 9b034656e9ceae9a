package minio

import (
	"context"
	"errors"
	"net/http"

	miniogo "github.com/minio/minio-go/v7"

	"github.com/docvault-ai/docvault/internal/model"
)

// mapError translates a MinIO SDK error into a domain error. Missing objects
// become model.NotFoundError so callers can branch with model.IsNotFoundError;
// everything else is a model.StoreError.
func mapError(err error, op string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return model.NewStoreError(op, err)
	}

	var resp miniogo.ErrorResponse
	if errors.As(err, &resp) {
		if resp.StatusCode == http.StatusNotFound {
			return model.NewNotFoundError("object", resp.Code)
		}
		switch resp.Code {
		case "NoSuchBucket", "NoSuchKey", "NoSuchUpload":
			return model.NewNotFoundError("object", resp.Code)
		}
	}

	return model.NewStoreError(op, err)
}
