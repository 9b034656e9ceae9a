// Package blob defines the object-store interface the service depends on.
//
// Folders and files are persisted as objects keyed
// {userId}/{folderName}/{fileName}, with a zero-byte marker object at
// {userId}/{folderName}/ designating the folder itself. Providers implement
// Store; callers depend only on this package.
package blob

import "context"

// ObjectInfo describes a single stored object.
type ObjectInfo struct {
	// Key is the full object path within the bucket.
	Key string

	// Size is the byte size of the object.
	Size int64

	// ContentType is the MIME type, when the backend reports one.
	ContentType string
}

// ListOptions controls how List filters results.
type ListOptions struct {
	// Prefix restricts results to keys starting with this string.
	Prefix string

	// Delimited, when true, groups keys below the first "/" past the prefix
	// into common prefixes instead of returning them as objects.
	Delimited bool

	// Limit caps the number of returned objects. 0 means no cap.
	Limit int
}

// Listing is the result of a List call.
type Listing struct {
	Objects []ObjectInfo

	// CommonPrefixes holds the delimited prefixes (virtual folders) when
	// Delimited was requested. Each ends with "/".
	CommonPrefixes []string
}

// Store is the single interface all blob storage providers implement.
// Implementations must be safe for concurrent use.
type Store interface {
	// Ping verifies the storage backend is reachable.
	Ping(ctx context.Context) error

	// Put writes data under key, overwriting any existing object.
	Put(ctx context.Context, key string, data []byte, contentType string) error

	// Get returns the object's content and content type.
	Get(ctx context.Context, key string) ([]byte, string, error)

	// Stat returns metadata for the object at key without its content.
	Stat(ctx context.Context, key string) (*ObjectInfo, error)

	// Delete removes the object at key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// List returns the objects (and, when Delimited, the common prefixes)
	// matching opts. Listings are complete: providers follow continuation
	// internally.
	List(ctx context.Context, opts ListOptions) (*Listing, error)
}
