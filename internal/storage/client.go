// Package storage defines the blob store used for source files and rendered
// artifacts. Providers live under providers/.
package storage

import (
	"context"
	"errors"
	"io"
	"time"
)

// ErrNotFound is returned by providers when a path does not exist.
var ErrNotFound = errors.New("storage: object not found")

// FileInfo contains metadata about a stored object or directory
type FileInfo struct {
	Name        string
	Path        string
	IsDir       bool
	Size        int64
	ModifiedAt  time.Time
	ContentType string
}

// Client defines the interface for blob storage operations. Paths are
// slash-separated keys relative to the provider root.
type Client interface {
	// List returns entries directly under the specified directory path
	List(ctx context.Context, path string) ([]FileInfo, error)

	// Download retrieves the contents of a file
	Download(ctx context.Context, path string) (io.ReadCloser, error)

	// Upload writes content to a file path, replacing any previous content
	Upload(ctx context.Context, path string, content io.Reader) error

	// Delete removes a file, or a directory with everything below it
	Delete(ctx context.Context, path string) error

	// Exists checks if a file or directory exists
	Exists(ctx context.Context, path string) (bool, error)

	// GetMetadata retrieves file info without downloading content
	GetMetadata(ctx context.Context, path string) (*FileInfo, error)
}

// FilterFiles filters file list by a predicate function
func FilterFiles(files []FileInfo, predicate func(FileInfo) bool) []FileInfo {
	var filtered []FileInfo
	for _, f := range files {
		if predicate(f) {
			filtered = append(filtered, f)
		}
	}
	return filtered
}

// OlderThan matches entries last modified before cutoff. Entries without a
// modification time never match.
func OlderThan(cutoff time.Time) func(FileInfo) bool {
	return func(f FileInfo) bool {
		return !f.ModifiedAt.IsZero() && f.ModifiedAt.Before(cutoff)
	}
}
