package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/mikestefanello/backlite"

	"github.com/mrlokans/manuscript/internal/entities"
	"github.com/mrlokans/manuscript/internal/exporters"
	"github.com/mrlokans/manuscript/internal/logging"
	"github.com/mrlokans/manuscript/internal/services"
)

const RenderExportQueue = "render_export"

// ExportRenderer renders a variant into an artifact.
type ExportRenderer interface {
	Render(ctx context.Context, format exporters.Format, in services.ExportInput) (*exporters.ExportResult, error)
}

// RenderExportTask renders a PDF or site export in the background.
// RequestedAt pins the artifact name so the caller knows it up front.
type RenderExportTask struct {
	Format      exporters.Format     `json:"format"`
	BookVariant entities.BookVariant `json:"book_type"`
	Title       string               `json:"title"`
	Subtitle    string               `json:"subtitle"`
	RequestedAt time.Time            `json:"requested_at"`
}

// Config returns the queue configuration for export rendering.
func (t RenderExportTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        RenderExportQueue,
		MaxAttempts: 1,
		Backoff:     30 * time.Second,
		Timeout:     5 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// RenderExportProcessor creates a processor function for RenderExportTask.
func RenderExportProcessor(renderer ExportRenderer, log *logging.Logger) backlite.QueueProcessor[RenderExportTask] {
	return func(ctx context.Context, task RenderExportTask) error {
		if renderer == nil {
			return fmt.Errorf("export renderer not configured")
		}

		result, err := renderer.Render(ctx, task.Format, services.ExportInput{
			BookVariant: task.BookVariant,
			Title:       task.Title,
			Subtitle:    task.Subtitle,
			RequestedAt: task.RequestedAt,
		})
		if err != nil {
			return fmt.Errorf("render %s export: %w", task.Format, err)
		}

		log.Info("Background export finished", "format", task.Format, "path", result.Path)
		return nil
	}
}

// NewRenderExportQueue creates a backlite queue for export rendering.
func NewRenderExportQueue(renderer ExportRenderer, log *logging.Logger) backlite.Queue {
	return backlite.NewQueue(RenderExportProcessor(renderer, log))
}
