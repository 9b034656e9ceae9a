package blob

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/docvault-ai/docvault/internal/model"
)

// MemStore is an in-memory Store for local development and tests.
// Listings are returned in lexical key order.
type MemStore struct {
	mu      sync.RWMutex
	objects map[string]memObject
}

type memObject struct {
	data        []byte
	contentType string
}

var _ Store = (*MemStore)(nil)

// NewMemStore returns an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{objects: make(map[string]memObject)}
}

// Ping always succeeds.
func (m *MemStore) Ping(ctx context.Context) error { return nil }

// Put writes data under key, overwriting any existing object.
func (m *MemStore) Put(ctx context.Context, key string, data []byte, contentType string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make([]byte, len(data))
	copy(cp, data)
	m.objects[key] = memObject{data: cp, contentType: contentType}
	return nil
}

// Get returns the object's content and content type.
func (m *MemStore) Get(ctx context.Context, key string) ([]byte, string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	obj, ok := m.objects[key]
	if !ok {
		return nil, "", model.NewNotFoundError("object", key)
	}
	cp := make([]byte, len(obj.data))
	copy(cp, obj.data)
	return cp, obj.contentType, nil
}

// Stat returns metadata for the object at key.
func (m *MemStore) Stat(ctx context.Context, key string) (*ObjectInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	obj, ok := m.objects[key]
	if !ok {
		return nil, model.NewNotFoundError("object", key)
	}
	return &ObjectInfo{Key: key, Size: int64(len(obj.data)), ContentType: obj.contentType}, nil
}

// Delete removes the object at key. Missing keys are not an error.
func (m *MemStore) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	return nil
}

// List returns objects under opts.Prefix in lexical order. With Delimited
// set, keys below the first "/" past the prefix collapse into common prefixes.
func (m *MemStore) List(ctx context.Context, opts ListOptions) (*Listing, error) {
	m.mu.RLock()
	keys := make([]string, 0, len(m.objects))
	for k := range m.objects {
		if strings.HasPrefix(k, opts.Prefix) {
			keys = append(keys, k)
		}
	}
	m.mu.RUnlock()
	sort.Strings(keys)

	out := &Listing{}
	seenPrefix := make(map[string]bool)
	for _, k := range keys {
		if opts.Delimited {
			rest := strings.TrimPrefix(k, opts.Prefix)
			if i := strings.Index(rest, "/"); i >= 0 {
				p := opts.Prefix + rest[:i+1]
				if !seenPrefix[p] {
					seenPrefix[p] = true
					out.CommonPrefixes = append(out.CommonPrefixes, p)
				}
				continue
			}
		}
		m.mu.RLock()
		obj := m.objects[k]
		m.mu.RUnlock()
		out.Objects = append(out.Objects, ObjectInfo{
			Key:         k,
			Size:        int64(len(obj.data)),
			ContentType: obj.contentType,
		})
		if opts.Limit > 0 && len(out.Objects) >= opts.Limit {
			break
		}
	}
	return out, nil
}
