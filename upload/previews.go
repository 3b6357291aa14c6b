package upload

import (
	"errors"
	"sync"

	"github.com/google/uuid"
)

// PreviewStore creates and releases local preview references: opaque
// handles that let a placeholder display a file before it is stored.
type PreviewStore interface {
	Create(f File) (string, error)
	Release(handle string)
}

// ErrEmptyFile is returned when a preview is requested for a file with no
// data.
var ErrEmptyFile = errors.New("file has no data")

// MemoryPreviews keeps preview data in memory under "blob:<uuid>" handles.
type MemoryPreviews struct {
	mu    sync.Mutex
	blobs map[string]File
}

// NewMemoryPreviews returns an empty preview store.
func NewMemoryPreviews() *MemoryPreviews {
	return &MemoryPreviews{blobs: make(map[string]File)}
}

// Create registers f and returns its handle.
func (m *MemoryPreviews) Create(f File) (string, error) {
	if len(f.Data) == 0 {
		return "", ErrEmptyFile
	}
	h := "blob:" + uuid.New().String()
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blobs[h] = f
	return h, nil
}

// Release forgets handle. Unknown handles are ignored.
func (m *MemoryPreviews) Release(handle string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.blobs, handle)
}

// Len returns the number of live previews.
func (m *MemoryPreviews) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.blobs)
}
