package tasks

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/manuscript/internal/entities"
	"github.com/mrlokans/manuscript/internal/exporters"
	"github.com/mrlokans/manuscript/internal/logging"
	"github.com/mrlokans/manuscript/internal/services"
)

type stubRenderer struct {
	format exporters.Format
	input  services.ExportInput
	err    error
}

func (s *stubRenderer) Render(ctx context.Context, format exporters.Format, in services.ExportInput) (*exporters.ExportResult, error) {
	s.format = format
	s.input = in
	if s.err != nil {
		return nil, s.err
	}
	return &exporters.ExportResult{Format: format, Path: "pdf/x.pdf"}, nil
}

type stubPruner struct {
	cutoff time.Time
	calls  int
}

func (s *stubPruner) PruneArtifacts(ctx context.Context, cutoff time.Time) (int, error) {
	s.cutoff = cutoff
	s.calls++
	return 2, nil
}

type fixedRetention int

func (f fixedRetention) GetExportRetentionDays() int { return int(f) }

func TestRenderExportTaskConfig(t *testing.T) {
	cfg := RenderExportTask{}.Config()

	assert.Equal(t, RenderExportQueue, cfg.Name)
	assert.Equal(t, 1, cfg.MaxAttempts, "a failed render is reported, not retried")
	assert.Equal(t, 5*time.Minute, cfg.Timeout)
	assert.NotNil(t, cfg.Retention)
}

func TestRenderExportProcessor(t *testing.T) {
	renderer := &stubRenderer{}
	at := time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC)
	process := RenderExportProcessor(renderer, logging.NewNop())

	err := process(context.Background(), RenderExportTask{
		Format:      exporters.FormatDocument,
		BookVariant: entities.BookVariantBooklet,
		Title:       "Pocket",
		RequestedAt: at,
	})
	require.NoError(t, err)
	assert.Equal(t, exporters.FormatDocument, renderer.format)
	assert.Equal(t, entities.BookVariantBooklet, renderer.input.BookVariant)
	assert.Equal(t, at, renderer.input.RequestedAt)

	renderer.err = &entities.EmptyInputError{BookVariant: entities.BookVariantBooklet}
	err = process(context.Background(), RenderExportTask{Format: exporters.FormatSite})
	require.Error(t, err)
	assert.True(t, errors.Is(err, entities.ErrEmptyInput))
}

func TestCleanupExportsProcessor(t *testing.T) {
	pruner := &stubPruner{}
	process := CleanupExportsProcessor(pruner, fixedRetention(7), logging.NewNop())

	require.NoError(t, process(context.Background(), CleanupExportsTask{}))
	assert.Equal(t, 1, pruner.calls)
	assert.WithinDuration(t, time.Now().AddDate(0, 0, -7), pruner.cutoff, time.Minute)
}

func TestCleanupExportsProcessor_RetentionDisabled(t *testing.T) {
	pruner := &stubPruner{}
	process := CleanupExportsProcessor(pruner, fixedRetention(0), logging.NewNop())

	require.NoError(t, process(context.Background(), CleanupExportsTask{}))
	assert.Zero(t, pruner.calls)
}

func TestCleanupExportsProcessor_NotConfigured(t *testing.T) {
	process := CleanupExportsProcessor(nil, nil, logging.NewNop())
	assert.Error(t, process(context.Background(), CleanupExportsTask{}))
}
