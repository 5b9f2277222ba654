package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"sync"
)

// Memory is an in-memory FileStore.
type Memory struct {
	mu    sync.RWMutex
	files map[string][]byte
}

// NewMemory returns an empty Memory store.
func NewMemory() *Memory {
	return &Memory{files: make(map[string][]byte)}
}

// Read returns a reader over a snapshot of the named file.
func (m *Memory) Read(_ context.Context, path string) (io.ReadCloser, error) {
	c, ok := Clean(path)
	if !ok {
		return nil, fmt.Errorf("storage: invalid path %q", path)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.files[c]
	if !ok {
		return nil, fmt.Errorf("storage: read %s: %w", path, os.ErrNotExist)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

// Write returns a writer whose contents replace the named file on Close.
func (m *Memory) Write(_ context.Context, path string) (io.WriteCloser, error) {
	c, ok := Clean(path)
	if !ok {
		return nil, fmt.Errorf("storage: invalid path %q", path)
	}
	return &memoryWriter{m: m, path: c}, nil
}

// Delete removes the named file.
func (m *Memory) Delete(_ context.Context, path string) error {
	c, _ := Clean(path)
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.files, c)
	return nil
}

// Exists reports whether the named file exists.
func (m *Memory) Exists(_ context.Context, path string) (bool, error) {
	c, _ := Clean(path)
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.files[c]
	return ok, nil
}

// List returns every file under prefix.
func (m *Memory) List(_ context.Context, prefix string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var paths []string
	for p := range m.files {
		if hasPrefix(p, prefix) {
			paths = append(paths, p)
		}
	}
	sort.Strings(paths)
	return paths, nil
}

type memoryWriter struct {
	m      *Memory
	path   string
	buf    bytes.Buffer
	closed bool
}

func (w *memoryWriter) Write(p []byte) (int, error) {
	if w.closed {
		return 0, os.ErrClosed
	}
	return w.buf.Write(p)
}

func (w *memoryWriter) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	w.m.mu.Lock()
	defer w.m.mu.Unlock()
	w.m.files[w.path] = bytes.Clone(w.buf.Bytes())
	return nil
}

var _ FileStore = (*Memory)(nil)
