package store

import (
	"bytes"
	"context"
	"errors"
	"sort"
	"sync"
)

// ErrNotFound is returned when no document is stored under a path.
var ErrNotFound = errors.New("document not found")

// Backend is the key/value store behind the document index. Keys are
// document paths; values are serialized feeds.
type Backend interface {
	Get(ctx context.Context, path string) ([]byte, error)
	Put(ctx context.Context, path string, body []byte) error
	Delete(ctx context.Context, path string) error
	// List returns every stored path in lexical order.
	List(ctx context.Context) ([]string, error)
	Close() error
}

// Memory provides thread-safe, in-memory storage for documents.
// All public methods are safe for concurrent use.
type Memory struct {
	mu   sync.RWMutex
	docs map[string][]byte
}

// NewMemory creates an empty Memory ready for use.
func NewMemory() *Memory {
	return &Memory{docs: make(map[string][]byte)}
}

// Get returns a copy of the document stored under path, or ErrNotFound.
func (m *Memory) Get(_ context.Context, path string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	body, ok := m.docs[path]
	if !ok {
		return nil, ErrNotFound
	}
	return bytes.Clone(body), nil
}

// Put stores a copy of body under path, replacing any earlier document.
func (m *Memory) Put(_ context.Context, path string, body []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.docs[path] = bytes.Clone(body)
	return nil
}

// Delete removes the document under path. It returns ErrNotFound if there
// is none.
func (m *Memory) Delete(_ context.Context, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.docs[path]; !ok {
		return ErrNotFound
	}
	delete(m.docs, path)
	return nil
}

// List returns every stored path in sorted order.
func (m *Memory) List(context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	paths := make([]string, 0, len(m.docs))
	for p := range m.docs {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths, nil
}

// Close is a no-op; Memory holds no external resources.
func (m *Memory) Close() error { return nil }
