// Package minio provides a MinIO-backed implementation of blob.Store.
package minio

import (
	"bytes"
	"context"
	"io"

	miniogo "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/docvault-ai/docvault/internal/blob"
)

// Config holds the connection settings for a MinIO / S3-compatible endpoint.
type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Bucket    string
}

// Driver is a MinIO implementation of blob.Store. It is safe for concurrent
// use by multiple goroutines.
type Driver struct {
	client *miniogo.Client
	bucket string
}

var _ blob.Store = (*Driver)(nil)

// New connects to MinIO, ensures the configured bucket exists, and returns a
// Driver. It pings the server before returning.
func New(ctx context.Context, cfg Config) (*Driver, error) {
	client, err := miniogo.New(cfg.Endpoint, &miniogo.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, mapError(err, "create client")
	}

	d := &Driver{client: client, bucket: cfg.Bucket}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, mapError(err, "check bucket")
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, miniogo.MakeBucketOptions{}); err != nil {
			return nil, mapError(err, "create bucket")
		}
	}
	return d, nil
}

// Ping verifies the MinIO server is reachable.
func (d *Driver) Ping(ctx context.Context) error {
	if _, err := d.client.BucketExists(ctx, d.bucket); err != nil {
		return mapError(err, "ping")
	}
	return nil
}

// Put writes data under key, overwriting any existing object.
func (d *Driver) Put(ctx context.Context, key string, data []byte, contentType string) error {
	_, err := d.client.PutObject(ctx, d.bucket, key, bytes.NewReader(data), int64(len(data)),
		miniogo.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return mapError(err, "put")
	}
	return nil
}

// Get returns the object's content and content type.
func (d *Driver) Get(ctx context.Context, key string) ([]byte, string, error) {
	obj, err := d.client.GetObject(ctx, d.bucket, key, miniogo.GetObjectOptions{})
	if err != nil {
		return nil, "", mapError(err, "get")
	}
	defer func() { _ = obj.Close() }()

	stat, err := obj.Stat()
	if err != nil {
		return nil, "", mapError(err, "get")
	}
	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, "", mapError(err, "get")
	}
	return data, stat.ContentType, nil
}

// Stat returns metadata for the object at key without downloading it.
func (d *Driver) Stat(ctx context.Context, key string) (*blob.ObjectInfo, error) {
	stat, err := d.client.StatObject(ctx, d.bucket, key, miniogo.StatObjectOptions{})
	if err != nil {
		return nil, mapError(err, "stat")
	}
	return &blob.ObjectInfo{
		Key:         stat.Key,
		Size:        stat.Size,
		ContentType: stat.ContentType,
	}, nil
}

// Delete removes the object at key. MinIO treats removal of a missing key as
// success, matching the Store contract.
func (d *Driver) Delete(ctx context.Context, key string) error {
	if err := d.client.RemoveObject(ctx, d.bucket, key, miniogo.RemoveObjectOptions{}); err != nil {
		return mapError(err, "delete")
	}
	return nil
}

// List returns objects under opts.Prefix. With Delimited set, keys below the
// first "/" past the prefix are grouped into common prefixes. The underlying
// SDK follows listing continuation internally, so results are complete
// regardless of object count.
func (d *Driver) List(ctx context.Context, opts blob.ListOptions) (*blob.Listing, error) {
	listOpts := miniogo.ListObjectsOptions{
		Prefix:    opts.Prefix,
		Recursive: !opts.Delimited,
	}

	out := &blob.Listing{}
	count := 0
	for obj := range d.client.ListObjects(ctx, d.bucket, listOpts) {
		if obj.Err != nil {
			return nil, mapError(obj.Err, "list")
		}
		// Non-recursive listings surface virtual folders as keys ending in "/".
		if opts.Delimited && obj.Key != opts.Prefix && len(obj.Key) > 0 && obj.Key[len(obj.Key)-1] == '/' {
			out.CommonPrefixes = append(out.CommonPrefixes, obj.Key)
			continue
		}
		out.Objects = append(out.Objects, blob.ObjectInfo{
			Key:         obj.Key,
			Size:        obj.Size,
			ContentType: obj.ContentType,
		})
		count++
		if opts.Limit > 0 && count >= opts.Limit {
			break
		}
	}
	return out, nil
}
