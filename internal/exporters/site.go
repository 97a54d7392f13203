package exporters

import (
	"bytes"
	"context"
	"fmt"
	"path"

	"golang.org/x/sync/errgroup"

	"github.com/mrlokans/manuscript/internal/logging"
	"github.com/mrlokans/manuscript/internal/storage"
)

const siteWriteConcurrency = 4

// SiteExporter writes a static multi-page site under web/.
type SiteExporter struct {
	output storage.Client
	log    *logging.Logger
}

func NewSiteExporter(output storage.Client, log *logging.Logger) *SiteExporter {
	return &SiteExporter{output: output, log: log}
}

type sitePage struct {
	Title   string
	Chapter ManuscriptChapter
	Prev    *ManuscriptChapter
	Next    *ManuscriptChapter
}

// RenderSite returns every page of the site keyed by file name.
func RenderSite(m *Manuscript) (map[string][]byte, error) {
	pages := make(map[string][]byte, len(m.Chapters)+2)

	var buf bytes.Buffer
	if err := siteIndexTemplate.Execute(&buf, m); err != nil {
		return nil, fmt.Errorf("execute index template: %w", err)
	}
	pages["index.html"] = buf.Bytes()

	for i, ch := range m.Chapters {
		p := sitePage{Title: m.Title, Chapter: ch}
		if i > 0 {
			p.Prev = &m.Chapters[i-1]
		}
		if i < len(m.Chapters)-1 {
			p.Next = &m.Chapters[i+1]
		}
		var page bytes.Buffer
		if err := siteChapterTemplate.Execute(&page, p); err != nil {
			return nil, fmt.Errorf("execute chapter template %d: %w", ch.Number, err)
		}
		pages[ch.PageName()] = page.Bytes()
	}

	css, err := templateFS.ReadFile("templates/styles.css")
	if err != nil {
		return nil, fmt.Errorf("read stylesheet: %w", err)
	}
	pages["styles.css"] = css
	return pages, nil
}

func (e *SiteExporter) Export(ctx context.Context, m *Manuscript) (*ExportResult, error) {
	pages, err := RenderSite(m)
	if err != nil {
		return nil, err
	}

	name, dir := ArtifactName(FormatSite, m.BookVariant, m.GeneratedAt)

	files := make([]string, 0, len(pages))
	files = append(files, "index.html")
	for _, ch := range m.Chapters {
		files = append(files, ch.PageName())
	}
	files = append(files, "styles.css")

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(siteWriteConcurrency)
	var size int64
	for _, file := range files {
		content := pages[file]
		size += int64(len(content))
		key := path.Join(dir, file)
		g.Go(func() error {
			if err := e.output.Upload(gctx, key, bytes.NewReader(content)); err != nil {
				return fmt.Errorf("store %s: %w", key, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		// Leave no half-written site behind
		if delErr := e.output.Delete(context.WithoutCancel(ctx), dir); delErr != nil {
			e.log.Warn("Failed to remove partial site export", "path", dir, "error", delErr)
		}
		return nil, err
	}

	e.log.Info("Site exported", "path", dir, "files", len(files))
	return &ExportResult{
		Format:     FormatSite,
		Name:       name,
		Path:       dir,
		Size:       size,
		Files:      files,
		Chapters:   len(m.Chapters),
		TotalWords: m.TotalWords,
	}, nil
}
