package http

import (
	"context"
	"io"
	"time"

	"github.com/mikestefanello/backlite"

	"github.com/mrlokans/manuscript/internal/entities"
	"github.com/mrlokans/manuscript/internal/exporters"
	"github.com/mrlokans/manuscript/internal/services"
)

// ChapterService defines the chapter registry operations used by the API.
type ChapterService interface {
	List(variant entities.BookVariant) ([]entities.Chapter, error)
	Get(id string) (*entities.Chapter, error)
	Create(in services.CreateChapterInput) (*entities.Chapter, error)
	Update(id string, patch entities.ChapterPatch) (*entities.Chapter, error)
	Delete(id string) error
	Reorder(positions []entities.ChapterPosition) error
}

// SourceCatalog defines source metadata and blob operations.
type SourceCatalog interface {
	List(filter entities.SourceFilter) ([]entities.Source, error)
	Get(id string) (*entities.Source, error)
	Create(source *entities.Source) error
	Upload(ctx context.Context, content io.Reader, in services.UploadInput) (*entities.Source, error)
	Open(ctx context.Context, id string) (io.ReadCloser, *entities.Source, error)
	Update(id string, patch entities.SourcePatch) (*entities.Source, error)
	Delete(ctx context.Context, id string) error
}

// Snapshotter defines version operations.
type Snapshotter interface {
	Capture(in services.CaptureInput) (*entities.Version, error)
	List(variant entities.BookVariant) ([]entities.Version, error)
	Get(id string) (*entities.VersionDetail, error)
	Archive(w io.Writer, id string) (string, error)
}

type QuoteService interface {
	List(search string) ([]entities.Quote, error)
	Create(in services.CreateQuoteInput) (*entities.Quote, error)
	Update(id string, patch entities.QuotePatch) (*entities.Quote, error)
	Delete(id string) error
}

type SettingsService interface {
	All() (map[string]string, error)
	Upsert(values map[string]any) (map[string]string, error)
}

// ExportRenderer renders an export synchronously.
type ExportRenderer interface {
	Render(ctx context.Context, format exporters.Format, in services.ExportInput) (*exporters.ExportResult, error)
}

type StatsService interface {
	Stats(variant entities.BookVariant) (*entities.Stats, error)
}

type SessionService interface {
	Start(in services.StartSessionInput) (*entities.WritingSession, error)
	Finish(id string, in services.FinishSessionInput) (*entities.WritingSession, error)
	List(variant entities.BookVariant, since time.Time) ([]entities.WritingSession, error)
}

// TaskQueue enqueues background work and reports on it.
type TaskQueue interface {
	Enqueue(task backlite.Task) (string, error)
	Status(ctx context.Context, taskID string) (backlite.TaskStatus, error)
}
