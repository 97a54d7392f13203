// Package local implements storage.Client on a directory tree through afero.
package local

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/mrlokans/manuscript/internal/storage"
)

// Client stores objects as files below a root directory.
type Client struct {
	fs afero.Fs
}

// NewClient roots a client at dir on the OS filesystem, creating it if needed.
func NewClient(dir string) (*Client, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage root %s: %w", dir, err)
	}
	return NewClientWithFs(afero.NewBasePathFs(afero.NewOsFs(), dir)), nil
}

// NewClientWithFs wraps an arbitrary afero filesystem. Tests use a MemMapFs.
func NewClientWithFs(fs afero.Fs) *Client {
	return &Client{fs: fs}
}

// clean maps a storage key to a rooted filesystem path. Keys may not
// contain ".." segments.
func clean(key string) (string, error) {
	for _, seg := range strings.Split(key, "/") {
		if seg == ".." {
			return "", fmt.Errorf("invalid storage key %q", key)
		}
	}
	return filepath.FromSlash(path.Clean("/" + strings.TrimSpace(key))), nil
}

func (c *Client) List(ctx context.Context, dir string) ([]storage.FileInfo, error) {
	p, err := clean(dir)
	if err != nil {
		return nil, err
	}
	entries, err := afero.ReadDir(c.fs, p)
	if errors.Is(err, os.ErrNotExist) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}

	out := make([]storage.FileInfo, 0, len(entries))
	for _, e := range entries {
		out = append(out, toFileInfo(path.Join(strings.Trim(dir, "/"), e.Name()), e))
	}
	return out, nil
}

func (c *Client) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	p, err := clean(key)
	if err != nil {
		return nil, err
	}
	f, err := c.fs.Open(p)
	if errors.Is(err, os.ErrNotExist) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", key, err)
	}
	return f, nil
}

// Upload writes to a temporary file first and renames it into place so a
// failed write never leaves a truncated object behind.
func (c *Client) Upload(ctx context.Context, key string, content io.Reader) error {
	p, err := clean(key)
	if err != nil {
		return err
	}
	dir := filepath.Dir(p)
	if err := c.fs.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory for %s: %w", key, err)
	}

	tmp, err := afero.TempFile(c.fs, dir, ".upload-*")
	if err != nil {
		return fmt.Errorf("create temp file for %s: %w", key, err)
	}
	tmpName := tmp.Name()

	if _, err := io.Copy(tmp, content); err != nil {
		tmp.Close()
		c.fs.Remove(tmpName)
		return fmt.Errorf("write %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		c.fs.Remove(tmpName)
		return fmt.Errorf("close %s: %w", key, err)
	}
	if err := c.fs.Rename(tmpName, p); err != nil {
		c.fs.Remove(tmpName)
		return fmt.Errorf("move %s into place: %w", key, err)
	}
	return nil
}

func (c *Client) Delete(ctx context.Context, key string) error {
	p, err := clean(key)
	if err != nil {
		return err
	}
	if p == string(filepath.Separator) {
		return fmt.Errorf("refusing to delete storage root")
	}
	exists, err := afero.Exists(c.fs, p)
	if err != nil {
		return fmt.Errorf("stat %s: %w", key, err)
	}
	if !exists {
		return storage.ErrNotFound
	}
	return c.fs.RemoveAll(p)
}

func (c *Client) Exists(ctx context.Context, key string) (bool, error) {
	p, err := clean(key)
	if err != nil {
		return false, err
	}
	return afero.Exists(c.fs, p)
}

func (c *Client) GetMetadata(ctx context.Context, key string) (*storage.FileInfo, error) {
	p, err := clean(key)
	if err != nil {
		return nil, err
	}
	info, err := c.fs.Stat(p)
	if errors.Is(err, os.ErrNotExist) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", key, err)
	}
	fi := toFileInfo(strings.Trim(key, "/"), info)
	return &fi, nil
}

func toFileInfo(key string, info os.FileInfo) storage.FileInfo {
	fi := storage.FileInfo{
		Name:       info.Name(),
		Path:       key,
		IsDir:      info.IsDir(),
		Size:       info.Size(),
		ModifiedAt: info.ModTime(),
	}
	if !info.IsDir() {
		fi.ContentType = mime.TypeByExtension(path.Ext(info.Name()))
	}
	return fi
}
