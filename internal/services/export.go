package services

import (
	"context"
	"errors"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/mrlokans/manuscript/internal/entities"
	"github.com/mrlokans/manuscript/internal/exporters"
	"github.com/mrlokans/manuscript/internal/logging"
	"github.com/mrlokans/manuscript/internal/storage"
)

const defaultManuscriptTitle = "Untitled Manuscript"

// ManuscriptWriter turns an assembled manuscript into a stored artifact.
type ManuscriptWriter interface {
	Export(ctx context.Context, m *exporters.Manuscript) (*exporters.ExportResult, error)
}

type ExportInput struct {
	BookVariant entities.BookVariant `json:"bookType"`
	Title       string               `json:"title"`
	Subtitle    string               `json:"subtitle"`
	// RequestedAt stamps the artifact name. Zero means now.
	RequestedAt time.Time `json:"requestedAt,omitempty"`
}

func (in ExportInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Title, validation.Length(0, 512)),
		validation.Field(&in.Subtitle, validation.Length(0, 512)),
	)
}

// ExportService renders the ordered chapters of a variant into a PDF
// document or a static site and prunes old artifacts.
type ExportService struct {
	chapters ChapterStore
	renderer exporters.MarkupRenderer
	writers  map[exporters.Format]ManuscriptWriter
	output   storage.Client
	now      Clock
	log      *logging.Logger
}

func NewExportService(
	chapters ChapterStore,
	renderer exporters.MarkupRenderer,
	document ManuscriptWriter,
	site ManuscriptWriter,
	output storage.Client,
	log *logging.Logger,
) *ExportService {
	return &ExportService{
		chapters: chapters,
		renderer: renderer,
		writers: map[exporters.Format]ManuscriptWriter{
			exporters.FormatDocument: document,
			exporters.FormatSite:     site,
		},
		output: output,
		now:    time.Now,
		log:    log,
	}
}

// ParseFormat maps the route names "pdf" and "web" as well as the format
// names onto a format.
func ParseFormat(raw string) (exporters.Format, error) {
	switch strings.ToLower(raw) {
	case "pdf", string(exporters.FormatDocument):
		return exporters.FormatDocument, nil
	case "web", string(exporters.FormatSite):
		return exporters.FormatSite, nil
	default:
		return "", entities.NewValidationError("format", "must be one of: pdf, web")
	}
}

func (s *ExportService) Render(ctx context.Context, format exporters.Format, in ExportInput) (*exporters.ExportResult, error) {
	writer, ok := s.writers[format]
	if !ok {
		return nil, entities.NewValidationError("format", "must be one of: pdf, web")
	}
	if err := asValidationError(in.Validate()); err != nil {
		return nil, err
	}
	variant, err := entities.ParseBookVariant(string(in.BookVariant))
	if err != nil {
		return nil, err
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		title = defaultManuscriptTitle
	}
	at := in.RequestedAt
	if at.IsZero() {
		at = s.now()
	}

	chapters, err := s.chapters.ListChapters(variant)
	if err != nil {
		return nil, err
	}
	m, err := exporters.Assemble(variant, title, strings.TrimSpace(in.Subtitle), chapters, s.renderer, at)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	result, err := writer.Export(ctx, m)
	if err != nil {
		return nil, err
	}
	s.log.Info("Export rendered",
		"format", format,
		"book_type", variant,
		"path", result.Path,
		"chapters", result.Chapters,
		"duration", time.Since(start),
	)
	return result, nil
}

// PruneArtifacts deletes exported PDFs and site folders last modified
// before cutoff and returns how many were removed.
func (s *ExportService) PruneArtifacts(ctx context.Context, cutoff time.Time) (int, error) {
	removed := 0
	for _, dir := range []string{"pdf", "web"} {
		entries, err := s.output.List(ctx, dir)
		if errors.Is(err, storage.ErrNotFound) {
			continue
		}
		if err != nil {
			return removed, entities.NewStoreError("list "+dir+" exports", err)
		}
		for _, entry := range storage.FilterFiles(entries, storage.OlderThan(cutoff)) {
			if err := s.output.Delete(ctx, entry.Path); err != nil && !errors.Is(err, storage.ErrNotFound) {
				return removed, entities.NewStoreError("delete export "+entry.Path, err)
			}
			removed++
		}
	}
	if removed > 0 {
		s.log.Info("Old exports removed", "count", removed, "cutoff", cutoff)
	}
	return removed, nil
}
