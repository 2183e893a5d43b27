package export

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// BlobScheme prefixes every transient handle issued by a BlobStore.
const BlobScheme = "blob:"

var ErrBlobNotFound = errors.New("blob not found")

// BlobStore holds bytes behind short-lived handles until they are revoked.
type BlobStore interface {
	Create(ctx context.Context, data []byte, contentType string) (string, error)
	Open(ctx context.Context, href string) ([]byte, string, error)
	Revoke(ctx context.Context, href string) error
}

func newHandle() string {
	return BlobScheme + uuid.NewString()
}

func blobID(href string) (string, bool) {
	id, ok := strings.CutPrefix(href, BlobScheme)
	return id, ok && id != ""
}

type memBlob struct {
	data        []byte
	contentType string
}

// MemoryBlobs is a process-local BlobStore.
type MemoryBlobs struct {
	mu    sync.Mutex
	blobs map[string]memBlob
}

var _ BlobStore = (*MemoryBlobs)(nil)

func NewMemoryBlobs() *MemoryBlobs {
	return &MemoryBlobs{blobs: map[string]memBlob{}}
}

func (m *MemoryBlobs) Create(_ context.Context, data []byte, contentType string) (string, error) {
	href := newHandle()
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blobs[href] = memBlob{data: append([]byte(nil), data...), contentType: contentType}
	return href, nil
}

func (m *MemoryBlobs) Open(_ context.Context, href string) ([]byte, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.blobs[href]
	if !ok {
		return nil, "", ErrBlobNotFound
	}
	return b.data, b.contentType, nil
}

func (m *MemoryBlobs) Revoke(_ context.Context, href string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.blobs, href)
	return nil
}

// Len returns the number of live handles.
func (m *MemoryBlobs) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.blobs)
}
