package exporters

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/manuscript/internal/entities"
	"github.com/mrlokans/manuscript/internal/logging"
	"github.com/mrlokans/manuscript/internal/render"
	"github.com/mrlokans/manuscript/internal/storage/providers/local"
)

type fakeEngine struct {
	html []byte
	err  error
}

func (f *fakeEngine) PrintPDF(ctx context.Context, html []byte) ([]byte, error) {
	f.html = html
	if f.err != nil {
		return nil, f.err
	}
	return []byte("%PDF-1.7 fake"), nil
}

var fixedNow = time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

func testChapters() []entities.Chapter {
	return []entities.Chapter{
		{ID: "c", Title: "Crossing", Slug: "crossing", Content: "The **river** was wide.", OrderIndex: 0, WordCount: 4},
		{ID: "a", Title: "Arrival", Slug: "arrival", Content: "They arrived at dusk.", OrderIndex: 1, WordCount: 4},
	}
}

func assemble(t *testing.T) *Manuscript {
	t.Helper()
	m, err := Assemble(entities.BookVariantFull, "River Book", "A novel", testChapters(), render.NewRenderer(), fixedNow)
	require.NoError(t, err)
	return m
}

func TestAssemble_EmptyVariant(t *testing.T) {
	_, err := Assemble(entities.BookVariantBooklet, "T", "", nil, render.NewRenderer(), fixedNow)
	require.Error(t, err)
	assert.True(t, errors.Is(err, entities.ErrEmptyInput))
}

func TestAssemble_NumbersInStoredOrder(t *testing.T) {
	m := assemble(t)

	require.Len(t, m.Chapters, 2)
	assert.Equal(t, "Chapter 1: Crossing", m.Chapters[0].Label())
	assert.Equal(t, "Chapter 2: Arrival", m.Chapters[1].Label())
	assert.Equal(t, 8, m.TotalWords)
	assert.Contains(t, string(m.Chapters[0].Body), "<strong>river</strong>")
}

func TestRenderDocument(t *testing.T) {
	html, err := RenderDocument(assemble(t))
	require.NoError(t, err)
	doc := string(html)

	assert.Contains(t, doc, "<h1>River Book</h1>")
	assert.Contains(t, doc, "A novel")
	assert.Contains(t, doc, "8 words")
	assert.Equal(t, 2, strings.Count(doc, `<section class="chapter"`))
	assert.Less(t, strings.Index(doc, "Chapter 1: Crossing"), strings.Index(doc, "Chapter 2: Arrival"))
	assert.Contains(t, doc, "page-break-before: always")
}

func TestDocumentExporter_Export(t *testing.T) {
	ctx := context.Background()
	out := local.NewClientWithFs(afero.NewMemMapFs())
	engine := &fakeEngine{}
	exp := NewDocumentExporter(engine, out, logging.NewNop())

	res, err := exp.Export(ctx, assemble(t))
	require.NoError(t, err)

	assert.Equal(t, FormatDocument, res.Format)
	assert.Equal(t, "full-20260314-092653.pdf", res.Name)
	assert.Equal(t, "pdf/full-20260314-092653.pdf", res.Path)
	assert.Equal(t, int64(len("%PDF-1.7 fake")), res.Size)
	assert.Equal(t, 2, res.Chapters)
	assert.Contains(t, string(engine.html), "Chapter 2: Arrival")

	exists, err := out.Exists(ctx, res.Path)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestDocumentExporter_EngineFailure(t *testing.T) {
	ctx := context.Background()
	out := local.NewClientWithFs(afero.NewMemMapFs())
	exp := NewDocumentExporter(&fakeEngine{err: errors.New("chrome missing")}, out, logging.NewNop())

	_, err := exp.Export(ctx, assemble(t))
	require.Error(t, err)

	exists, err := out.Exists(ctx, "pdf")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestSiteExporter_Export(t *testing.T) {
	ctx := context.Background()
	out := local.NewClientWithFs(afero.NewMemMapFs())
	exp := NewSiteExporter(out, logging.NewNop())

	res, err := exp.Export(ctx, assemble(t))
	require.NoError(t, err)

	assert.Equal(t, FormatSite, res.Format)
	assert.Equal(t, "web/full-web-20260314-092653", res.Path)
	assert.Equal(t, []string{"index.html", "chapter-1.html", "chapter-2.html", "styles.css"}, res.Files)

	read := func(name string) string {
		rc, err := out.Download(ctx, res.Path+"/"+name)
		require.NoError(t, err)
		defer rc.Close()
		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		return string(data)
	}

	index := read("index.html")
	assert.Less(t, strings.Index(index, `href="chapter-1.html"`), strings.Index(index, `href="chapter-2.html"`))
	assert.Contains(t, index, "8 words")

	first := read("chapter-1.html")
	assert.NotContains(t, first, `rel="prev"`)
	assert.Contains(t, first, `rel="next" href="chapter-2.html"`)
	assert.Contains(t, first, `href="index.html"`)

	last := read("chapter-2.html")
	assert.Contains(t, last, `rel="prev" href="chapter-1.html"`)
	assert.NotContains(t, last, `rel="next"`)

	assert.Contains(t, read("styles.css"), "font-family")
}

func TestWriteVersionArchive(t *testing.T) {
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	detail := &entities.VersionDetail{
		Version: entities.Version{
			BookVariant:  entities.BookVariantFull,
			VersionName:  "First draft",
			Description:  "before edits",
			ChapterCount: 2,
			TotalWords:   5,
			CreatedAt:    created,
		},
		Chapters: []entities.ChapterSnapshot{
			{Title: "Opening", Slug: "opening", Content: "Once upon a time", Status: entities.ChapterStatusReady, WordCount: 4, Notes: "tighten"},
			{Title: "Untitled", Content: "End.", Status: entities.ChapterStatusDraft, WordCount: 1},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteVersionArchive(&buf, detail))

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)

	files := map[string]string{}
	for _, f := range zr.File {
		rc, err := f.Open()
		require.NoError(t, err)
		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		rc.Close()
		files[f.Name] = string(data)
	}

	require.Contains(t, files, "01-opening.md")
	require.Contains(t, files, "02-chapter.md")
	require.Contains(t, files, "metadata.json")

	opening := files["01-opening.md"]
	assert.True(t, strings.HasPrefix(opening, "---\ntitle: Opening\nstatus: ready\nword_count: 4\nnotes: tighten\n---\n\n"))
	assert.True(t, strings.HasSuffix(opening, "Once upon a time\n"))
	assert.NotContains(t, files["02-chapter.md"], "notes:")

	var meta map[string]any
	require.NoError(t, json.Unmarshal([]byte(files["metadata.json"]), &meta))
	assert.Equal(t, "full", meta["bookType"])
	assert.Equal(t, "First draft", meta["versionName"])
	assert.EqualValues(t, 2, meta["chapterCount"])
	assert.EqualValues(t, 5, meta["totalWords"])
}

func TestArchiveFileName(t *testing.T) {
	v := entities.Version{BookVariant: entities.BookVariantBooklet, CreatedAt: fixedNow}
	assert.Equal(t, "booklet-20260314-092653.zip", ArchiveFileName(v))
}
