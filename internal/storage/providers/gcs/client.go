// Package gcs implements storage.Client on a Google Cloud Storage bucket.
// Keys are stored below an optional prefix so one bucket can hold several
// manuscripts.
package gcs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"path"
	"strings"
	"time"

	gcs "cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"github.com/mrlokans/manuscript/internal/logging"
	"github.com/mrlokans/manuscript/internal/storage"
)

const operationTimeout = 60 * time.Second

// Client stores objects in a single bucket.
type Client struct {
	client *gcs.Client
	bucket string
	prefix string
	log    *logging.Logger
}

// NewClient connects with application default credentials unless opts say otherwise.
func NewClient(ctx context.Context, bucket, prefix string, log *logging.Logger, opts ...option.ClientOption) (*Client, error) {
	if bucket == "" {
		return nil, fmt.Errorf("gcs bucket name is required")
	}
	opts = append(opts, option.WithScopes(gcs.ScopeReadWrite))
	client, err := gcs.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	log.Info("Object storage initialized", "provider", "gcs", "bucket", bucket, "prefix", prefix)
	return &Client{client: client, bucket: bucket, prefix: strings.Trim(prefix, "/"), log: log}, nil
}

// Close releases the underlying client.
func (c *Client) Close() error {
	return c.client.Close()
}

func (c *Client) objectName(key string) string {
	return ObjectName(c.prefix, key)
}

// ObjectName joins prefix and key into a bucket object name.
func ObjectName(prefix, key string) string {
	key = strings.TrimLeft(path.Clean("/"+key), "/")
	if prefix == "" {
		return key
	}
	return prefix + "/" + key
}

func (c *Client) relative(name string) string {
	if c.prefix == "" {
		return name
	}
	return strings.TrimPrefix(name, c.prefix+"/")
}

func (c *Client) List(ctx context.Context, dir string) ([]storage.FileInfo, error) {
	ctx, cancel := context.WithTimeout(ctx, operationTimeout)
	defer cancel()

	prefix := c.objectName(dir)
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	it := c.client.Bucket(c.bucket).Objects(ctx, &gcs.Query{Prefix: prefix, Delimiter: "/"})

	var out []storage.FileInfo
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("list %s: %w", dir, err)
		}
		if attrs.Prefix != "" {
			name := strings.TrimSuffix(attrs.Prefix, "/")
			modified, err := c.newestUnder(ctx, attrs.Prefix)
			if err != nil {
				return nil, fmt.Errorf("list %s: %w", dir, err)
			}
			out = append(out, storage.FileInfo{
				Name:       path.Base(name),
				Path:       c.relative(name),
				IsDir:      true,
				ModifiedAt: modified,
			})
			continue
		}
		out = append(out, c.toFileInfo(attrs))
	}
	return out, nil
}

// newestUnder returns the latest update time of any object below prefix.
// Prefixes are not objects in GCS and carry no time of their own.
func (c *Client) newestUnder(ctx context.Context, prefix string) (time.Time, error) {
	var newest time.Time
	it := c.client.Bucket(c.bucket).Objects(ctx, &gcs.Query{Prefix: prefix})
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			return newest, nil
		}
		if err != nil {
			return time.Time{}, err
		}
		newest = latest(newest, attrs.Updated)
	}
}

func latest(a, b time.Time) time.Time {
	if b.After(a) {
		return b
	}
	return a
}

func (c *Client) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	r, err := c.client.Bucket(c.bucket).Object(c.objectName(key)).NewReader(ctx)
	if errors.Is(err, gcs.ErrObjectNotExist) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", key, err)
	}
	return r, nil
}

func (c *Client) Upload(ctx context.Context, key string, content io.Reader) error {
	ctx, cancel := context.WithTimeout(ctx, operationTimeout)
	defer cancel()

	w := c.client.Bucket(c.bucket).Object(c.objectName(key)).NewWriter(ctx)
	if ct := mime.TypeByExtension(path.Ext(key)); ct != "" {
		w.ContentType = ct
	}
	if _, err := io.Copy(w, content); err != nil {
		_ = w.Close()
		return fmt.Errorf("failed to write data to GCS: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to close GCS writer: %w", err)
	}
	return nil
}

// Delete removes an object. When key names a prefix instead, every object
// below it is removed.
func (c *Client) Delete(ctx context.Context, key string) error {
	ctx, cancel := context.WithTimeout(ctx, operationTimeout)
	defer cancel()

	bucket := c.client.Bucket(c.bucket)
	err := bucket.Object(c.objectName(key)).Delete(ctx)
	if err == nil {
		return nil
	}
	if !errors.Is(err, gcs.ErrObjectNotExist) {
		return fmt.Errorf("delete %s: %w", key, err)
	}

	it := bucket.Objects(ctx, &gcs.Query{Prefix: c.objectName(key) + "/"})
	deleted := 0
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return fmt.Errorf("list %s for delete: %w", key, err)
		}
		if err := bucket.Object(attrs.Name).Delete(ctx); err != nil && !errors.Is(err, gcs.ErrObjectNotExist) {
			return fmt.Errorf("delete %s: %w", attrs.Name, err)
		}
		deleted++
	}
	if deleted == 0 {
		return storage.ErrNotFound
	}
	c.log.Debug("Deleted object prefix", "prefix", key, "objects", deleted)
	return nil
}

func (c *Client) Exists(ctx context.Context, key string) (bool, error) {
	_, err := c.GetMetadata(ctx, key)
	if errors.Is(err, storage.ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (c *Client) GetMetadata(ctx context.Context, key string) (*storage.FileInfo, error) {
	ctx, cancel := context.WithTimeout(ctx, operationTimeout)
	defer cancel()

	attrs, err := c.client.Bucket(c.bucket).Object(c.objectName(key)).Attrs(ctx)
	if errors.Is(err, gcs.ErrObjectNotExist) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", key, err)
	}
	fi := c.toFileInfo(attrs)
	return &fi, nil
}

func (c *Client) toFileInfo(attrs *gcs.ObjectAttrs) storage.FileInfo {
	return storage.FileInfo{
		Name:        path.Base(attrs.Name),
		Path:        c.relative(attrs.Name),
		Size:        attrs.Size,
		ModifiedAt:  attrs.Updated,
		ContentType: attrs.ContentType,
	}
}
