package services

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/mrlokans/manuscript/internal/entities"
	"github.com/mrlokans/manuscript/internal/logging"
	"github.com/mrlokans/manuscript/internal/storage"
	"github.com/mrlokans/manuscript/internal/utils"
)

// UploadInput describes an incoming source file.
type UploadInput struct {
	OriginalName string                  `json:"originalName"`
	Size         int64                   `json:"fileSize"`
	Category     entities.SourceCategory `json:"category"`
	Tags         []string                `json:"tags"`
}

func (in UploadInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.OriginalName, validation.Required.Error("a file is required"), validation.Length(1, 512)),
		validation.Field(&in.Size, validation.Min(int64(0))),
		validation.Field(&in.Category, validation.Required, sourceCategoryRule()),
	)
}

// SourceCatalog owns source metadata and the blobs behind it. Metadata is the
// source of truth: a blob without a row is garbage, a row without a blob is a
// broken download.
type SourceCatalog struct {
	store SourceStore
	blobs storage.Client
	log   *logging.Logger
}

func NewSourceCatalog(store SourceStore, blobs storage.Client, log *logging.Logger) *SourceCatalog {
	return &SourceCatalog{store: store, blobs: blobs, log: log}
}

func (c *SourceCatalog) List(filter entities.SourceFilter) ([]entities.Source, error) {
	filter.Search = strings.TrimSpace(filter.Search)
	filter.Tag = strings.TrimSpace(filter.Tag)
	if filter.Category != "" && !filter.Category.Valid() {
		return nil, entities.NewValidationError("category", "must be one of: notebooklm, docs, notes, website, other")
	}
	return c.store.ListSources(filter)
}

func (c *SourceCatalog) Get(id string) (*entities.Source, error) {
	return c.store.GetSource(id)
}

// Create records metadata for a blob that is already in place.
func (c *SourceCatalog) Create(source *entities.Source) error {
	err := validation.ValidateStruct(source,
		validation.Field(&source.Filename, validation.Required),
		validation.Field(&source.OriginalName, validation.Required),
		validation.Field(&source.FileType, validation.Required),
		validation.Field(&source.Category, validation.Required, sourceCategoryRule()),
	)
	if err := asValidationError(err); err != nil {
		return err
	}
	source.Tags = normalizeTags(source.Tags)
	return c.store.CreateSource(source)
}

// Upload stores the blob under <category>/<uuid><ext> and then inserts the
// metadata row. A failed insert removes the blob again.
func (c *SourceCatalog) Upload(ctx context.Context, content io.Reader, in UploadInput) (*entities.Source, error) {
	in.OriginalName = strings.TrimSpace(in.OriginalName)
	if in.Category == "" {
		in.Category = entities.SourceCategoryOther
	}
	if err := asValidationError(in.Validate()); err != nil {
		return nil, err
	}
	in.OriginalName = utils.SanitizeFilename(filepath.Base(in.OriginalName))

	source := &entities.Source{
		Filename:     uuid.NewString() + strings.ToLower(filepath.Ext(in.OriginalName)),
		OriginalName: in.OriginalName,
		FileType:     utils.FileTypeFromName(in.OriginalName),
		Category:     in.Category,
		Tags:         normalizeTags(in.Tags),
		FileSize:     in.Size,
	}

	counter := &countingReader{r: content}
	if err := c.blobs.Upload(ctx, source.BlobKey(), counter); err != nil {
		return nil, entities.NewStoreError("upload source blob", err)
	}
	if counter.n > 0 || source.FileSize == 0 {
		source.FileSize = counter.n
	}

	if err := c.store.CreateSource(source); err != nil {
		if delErr := c.blobs.Delete(context.WithoutCancel(ctx), source.BlobKey()); delErr != nil {
			c.log.Warn("Failed to remove orphaned source blob", "key", source.BlobKey(), "error", delErr)
		}
		return nil, err
	}

	c.log.Info("Source uploaded", "id", source.ID, "category", source.Category, "bytes", source.FileSize)
	return source, nil
}

// Open returns the blob of a source. The caller closes the reader.
func (c *SourceCatalog) Open(ctx context.Context, id string) (io.ReadCloser, *entities.Source, error) {
	source, err := c.store.GetSource(id)
	if err != nil {
		return nil, nil, err
	}
	rc, err := c.blobs.Download(ctx, source.BlobKey())
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil, entities.NewNotFoundError("source file", id)
	}
	if err != nil {
		return nil, nil, entities.NewStoreError("download source blob", err)
	}
	return rc, source, nil
}

// Update replaces the annotation fields that are present in patch.
func (c *SourceCatalog) Update(id string, patch entities.SourcePatch) (*entities.Source, error) {
	if patch.Empty() {
		return nil, entities.NewValidationError("", "no fields to update")
	}
	if patch.Tags != nil {
		tags := normalizeTags(*patch.Tags)
		patch.Tags = &tags
	}
	return c.store.UpdateSource(id, patch)
}

// Delete removes the metadata and then the blob. Blob failures are logged,
// not returned.
func (c *SourceCatalog) Delete(ctx context.Context, id string) error {
	source, err := c.store.DeleteSource(id)
	if err != nil {
		return err
	}
	if err := c.blobs.Delete(ctx, source.BlobKey()); err != nil && !errors.Is(err, storage.ErrNotFound) {
		c.log.Warn("Failed to delete source blob", "id", id, "key", source.BlobKey(), "error", err)
	}
	return nil
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
