package exporters

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
)

//go:embed templates/*
var templateFS embed.FS

var (
	documentTemplate    = template.Must(template.ParseFS(templateFS, "templates/document.html"))
	siteIndexTemplate   = template.Must(template.ParseFS(templateFS, "templates/site_index.html"))
	siteChapterTemplate = template.Must(template.ParseFS(templateFS, "templates/site_chapter.html"))
)

// RenderDocument builds the single printable HTML tree: cover, contents and
// one section per chapter, each starting on a new page.
func RenderDocument(m *Manuscript) ([]byte, error) {
	var buf bytes.Buffer
	if err := documentTemplate.Execute(&buf, m); err != nil {
		return nil, fmt.Errorf("execute document template: %w", err)
	}
	return buf.Bytes(), nil
}
