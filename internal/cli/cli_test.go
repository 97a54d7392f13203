package cli

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/manuscript/internal/config"
	"github.com/mrlokans/manuscript/internal/database"
	"github.com/mrlokans/manuscript/internal/database/chapters"
	"github.com/mrlokans/manuscript/internal/database/versions"
	"github.com/mrlokans/manuscript/internal/entities"
	"github.com/mrlokans/manuscript/internal/logging"
	"github.com/mrlokans/manuscript/internal/services"
)

type recordingCreator struct {
	inputs []services.CreateChapterInput
	err    error
}

func (r *recordingCreator) Create(in services.CreateChapterInput) (*entities.Chapter, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.inputs = append(r.inputs, in)
	return &entities.Chapter{Title: in.Title, OrderIndex: len(r.inputs) - 1}, nil
}

func testConfig() *config.Config {
	return &config.Config{Database: config.Database{Path: "unused.db"}, Logging: config.Logging{Mode: "development"}}
}

func TestImportChaptersCommand_ParseFlags(t *testing.T) {
	cmd := NewImportChaptersCommand(testConfig())
	require.NoError(t, cmd.ParseFlags([]string{"-dir", "./drafts", "-book-type", "booklet"}))
	assert.Equal(t, "./drafts", cmd.Directory)
	assert.Equal(t, "booklet", cmd.BookVariant)
	assert.Equal(t, "unused.db", cmd.DatabasePath)

	cmd = NewImportChaptersCommand(testConfig())
	assert.Error(t, cmd.ParseFlags([]string{"-dir", "x", "-book-type", "novella"}))
}

func TestImportChaptersCommand_Import(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/drafts/b.md", []byte("# Second\n\nbody two\n"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/drafts/a.md", []byte("body one\n"), 0o644))

	cmd := NewImportChaptersCommand(testConfig())
	cmd.fs = fs
	cmd.Directory = "/drafts"
	cmd.BookVariant = "booklet"
	creator := &recordingCreator{}

	require.NoError(t, cmd.Import(creator, logging.NewNop()))

	require.Len(t, creator.inputs, 2)
	assert.Equal(t, "a", creator.inputs[0].Title)
	assert.Equal(t, "body one", creator.inputs[0].Content)
	assert.Equal(t, "Second", creator.inputs[1].Title)
	assert.Equal(t, entities.BookVariantBooklet, creator.inputs[1].BookVariant)
}

func TestImportChaptersCommand_Import_StopsOnError(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/drafts/a.md", []byte("# A\n"), 0o644))

	cmd := NewImportChaptersCommand(testConfig())
	cmd.fs = fs
	cmd.Directory = "/drafts"
	cmd.BookVariant = "full"

	err := cmd.Import(&recordingCreator{err: entities.NewValidationError("title", "too long")}, logging.NewNop())
	assert.True(t, errors.Is(err, entities.ErrValidation))
}

func TestImportChaptersCommand_Import_MissingDir(t *testing.T) {
	cmd := NewImportChaptersCommand(testConfig())
	cmd.fs = afero.NewMemMapFs()
	cmd.Directory = "/nope"
	cmd.BookVariant = "full"

	assert.Error(t, cmd.Import(nil, logging.NewNop()))
}

func TestImportChaptersCommand_Import_AppendsToExisting(t *testing.T) {
	db, err := database.NewDatabase(filepath.Join(t.TempDir(), "cli.db"), logging.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	repo := chapters.NewRepository(db.DB)
	svc := services.NewChapterService(repo, logging.NewNop())
	_, err = svc.Create(services.CreateChapterInput{BookVariant: entities.BookVariantFull, Title: "Prologue"})
	require.NoError(t, err)

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/drafts/01.md", []byte("# One\n\nfirst words\n"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/drafts/02.md", []byte("# Two\n"), 0o644))

	cmd := NewImportChaptersCommand(testConfig())
	cmd.fs = fs
	cmd.Directory = "/drafts"
	cmd.BookVariant = "full"
	require.NoError(t, cmd.Import(svc, logging.NewNop()))

	list, err := svc.List(entities.BookVariantFull)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "Prologue", list[0].Title)
	assert.Equal(t, "One", list[1].Title)
	assert.Equal(t, 1, list[1].OrderIndex)
	assert.Equal(t, 2, list[1].WordCount)
	assert.Equal(t, "Two", list[2].Title)
}

func TestSnapshotCommand(t *testing.T) {
	cmd := NewSnapshotCommand(testConfig())
	assert.Error(t, cmd.ParseFlags([]string{"-book-type", "full"}))

	db, err := database.NewDatabase(filepath.Join(t.TempDir(), "cli.db"), logging.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	chapterSvc := services.NewChapterService(chapters.NewRepository(db.DB), logging.NewNop())
	_, err = chapterSvc.Create(services.CreateChapterInput{BookVariant: entities.BookVariantBooklet, Title: "Only", Content: "three small words"})
	require.NoError(t, err)

	cmd = NewSnapshotCommand(testConfig())
	require.NoError(t, cmd.ParseFlags([]string{"-book-type", "booklet", "-name", "Sent to editor"}))
	snapshotter := services.NewSnapshotter(versions.NewRepository(db.DB), logging.NewNop())
	require.NoError(t, cmd.Capture(snapshotter))

	list, err := snapshotter.List(entities.BookVariantBooklet)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Sent to editor", list[0].VersionName)
	assert.Equal(t, 3, list[0].TotalWords)
}
