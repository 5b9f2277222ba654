// Package storage defines the FileStore interface the ambient sound library
// reads its samples from. Implementations exist for the local filesystem,
// S3-compatible object stores and memory.
package storage

import (
	"context"
	"io"
	"path"
	"strings"
)

// FileStore is a minimal interface for file-oriented storage.
//
// Paths are forward-slash separated and relative to the store root.
// Implementations must be safe for concurrent use.
type FileStore interface {
	// Read opens the named file for reading. The caller must close it.
	// A missing file yields an error wrapping os.ErrNotExist.
	Read(ctx context.Context, path string) (io.ReadCloser, error)

	// Write opens the named file for writing, truncating any existing file.
	// The data is committed when the returned writer is closed.
	Write(ctx context.Context, path string) (io.WriteCloser, error)

	// Delete removes the named file. Deleting a missing file is not an error.
	Delete(ctx context.Context, path string) error

	// Exists reports whether the named file exists.
	Exists(ctx context.Context, path string) (bool, error)

	// List returns the paths of all files under prefix in lexical order.
	// An empty prefix lists the whole store.
	List(ctx context.Context, prefix string) ([]string, error)
}

// Clean normalizes p to a slash-separated path relative to the store root.
// Leading ".." elements are dropped, so the result never leaves the root.
// It reports false if nothing is left.
func Clean(p string) (string, bool) {
	c := strings.TrimPrefix(path.Clean("/"+strings.ReplaceAll(p, "\\", "/")), "/")
	return c, c != ""
}

// hasPrefix reports whether the file at p is under the directory-or-name
// prefix.
func hasPrefix(p, prefix string) bool {
	return prefix == "" || strings.HasPrefix(p, prefix)
}
