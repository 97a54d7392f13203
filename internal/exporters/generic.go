package exporters

import (
	"fmt"
	"html/template"
	"path"
	"time"

	"github.com/mrlokans/manuscript/internal/entities"
)

type Format string

const (
	FormatDocument Format = "document"
	FormatSite     Format = "site"
)

// MarkupRenderer converts chapter content into presentation HTML.
type MarkupRenderer interface {
	ToHTML(markup string) (template.HTML, error)
}

// Manuscript is the ordered document tree every output format is built from.
type Manuscript struct {
	BookVariant entities.BookVariant
	Title       string
	Subtitle    string
	TotalWords  int
	GeneratedAt time.Time
	Chapters    []ManuscriptChapter
}

// ManuscriptChapter is one chapter with its human-facing number (1-based).
type ManuscriptChapter struct {
	Number    int
	Title     string
	Slug      string
	WordCount int
	Body      template.HTML
}

// Label is the heading used in the table of contents and navigation.
func (c ManuscriptChapter) Label() string {
	return fmt.Sprintf("Chapter %d: %s", c.Number, c.Title)
}

// PageName is the file name of the chapter page in a site export.
func (c ManuscriptChapter) PageName() string {
	return fmt.Sprintf("chapter-%d.html", c.Number)
}

// Assemble numbers chapters 1..N in the order given and renders their bodies.
// chapters must already be sorted by order_index.
func Assemble(variant entities.BookVariant, title, subtitle string, chapters []entities.Chapter, renderer MarkupRenderer, now time.Time) (*Manuscript, error) {
	if len(chapters) == 0 {
		return nil, &entities.EmptyInputError{BookVariant: variant}
	}

	m := &Manuscript{
		BookVariant: variant,
		Title:       title,
		Subtitle:    subtitle,
		GeneratedAt: now,
		Chapters:    make([]ManuscriptChapter, 0, len(chapters)),
	}
	for i, ch := range chapters {
		body, err := renderer.ToHTML(ch.Content)
		if err != nil {
			return nil, fmt.Errorf("render chapter %q: %w", ch.Title, err)
		}
		m.TotalWords += ch.WordCount
		m.Chapters = append(m.Chapters, ManuscriptChapter{
			Number:    i + 1,
			Title:     ch.Title,
			Slug:      ch.Slug,
			WordCount: ch.WordCount,
			Body:      body,
		})
	}
	return m, nil
}

// ExportResult describes a rendered artifact. Path is relative to the export root.
type ExportResult struct {
	Format     Format   `json:"format"`
	Name       string   `json:"name"`
	Path       string   `json:"path"`
	Size       int64    `json:"size,omitempty"`
	Files      []string `json:"files,omitempty"`
	Chapters   int      `json:"chapters"`
	TotalWords int      `json:"total_words"`
}

// artifactStamp formats the timestamp used in artifact names.
func artifactStamp(t time.Time) string {
	return t.UTC().Format("20060102-150405")
}

// ArtifactName returns the file or folder name an export of variant
// generated at t is stored under, and its key in the output store.
func ArtifactName(format Format, variant entities.BookVariant, t time.Time) (name, key string) {
	switch format {
	case FormatSite:
		name = fmt.Sprintf("%s-web-%s", variant, artifactStamp(t))
		return name, path.Join("web", name)
	default:
		name = fmt.Sprintf("%s-%s.pdf", variant, artifactStamp(t))
		return name, path.Join("pdf", name)
	}
}
