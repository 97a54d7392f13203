package local

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/manuscript/internal/storage"
)

func TestClient_UploadDownload(t *testing.T) {
	ctx := context.Background()
	client := NewClientWithFs(afero.NewMemMapFs())

	require.NoError(t, client.Upload(ctx, "docs/abc.pdf", strings.NewReader("hello")))

	rc, err := client.Download(ctx, "docs/abc.pdf")
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	meta, err := client.GetMetadata(ctx, "docs/abc.pdf")
	require.NoError(t, err)
	assert.Equal(t, int64(5), meta.Size)
	assert.Equal(t, "abc.pdf", meta.Name)
	assert.Equal(t, "application/pdf", meta.ContentType)
}

func TestClient_UploadReplaces(t *testing.T) {
	ctx := context.Background()
	client := NewClientWithFs(afero.NewMemMapFs())

	require.NoError(t, client.Upload(ctx, "notes/a.md", strings.NewReader("first version")))
	require.NoError(t, client.Upload(ctx, "notes/a.md", strings.NewReader("second")))

	entries, err := client.List(ctx, "notes")
	require.NoError(t, err)
	require.Len(t, entries, 1, "temp files must not be left behind")
	assert.Equal(t, "notes/a.md", entries[0].Path)
	assert.Equal(t, int64(6), entries[0].Size)
}

func TestClient_DeleteAndExists(t *testing.T) {
	ctx := context.Background()
	client := NewClientWithFs(afero.NewMemMapFs())
	require.NoError(t, client.Upload(ctx, "web/site-1/index.html", strings.NewReader("<html>")))

	exists, err := client.Exists(ctx, "web/site-1")
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, client.Delete(ctx, "web/site-1"))

	exists, err = client.Exists(ctx, "web/site-1/index.html")
	require.NoError(t, err)
	assert.False(t, exists)

	err = client.Delete(ctx, "web/site-1")
	assert.True(t, errors.Is(err, storage.ErrNotFound))
}

func TestClient_NotFound(t *testing.T) {
	ctx := context.Background()
	client := NewClientWithFs(afero.NewMemMapFs())

	_, err := client.Download(ctx, "missing.txt")
	assert.True(t, errors.Is(err, storage.ErrNotFound))

	_, err = client.GetMetadata(ctx, "missing.txt")
	assert.True(t, errors.Is(err, storage.ErrNotFound))

	_, err = client.List(ctx, "nowhere")
	assert.True(t, errors.Is(err, storage.ErrNotFound))
}

func TestClient_RejectsTraversal(t *testing.T) {
	ctx := context.Background()
	client := NewClientWithFs(afero.NewMemMapFs())

	err := client.Upload(ctx, "../escape.txt", strings.NewReader("x"))
	assert.Error(t, err)

	_, err = client.Download(ctx, "docs/../../etc/passwd")
	assert.Error(t, err)
}

func TestNewClient_OnDisk(t *testing.T) {
	ctx := context.Background()
	root := filepath.Join(t.TempDir(), "sources")

	client, err := NewClient(root)
	require.NoError(t, err)
	require.NoError(t, client.Upload(ctx, "docs/file.txt", strings.NewReader("on disk")))

	data, err := os.ReadFile(filepath.Join(root, "docs", "file.txt"))
	require.NoError(t, err)
	assert.Equal(t, "on disk", string(data))
}
