package exporters

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mrlokans/manuscript/internal/entities"
)

type chapterFrontMatter struct {
	Title     string                 `yaml:"title"`
	Status    entities.ChapterStatus `yaml:"status"`
	WordCount int                    `yaml:"word_count"`
	Notes     string                 `yaml:"notes,omitempty"`
}

type archiveMetadata struct {
	BookType     entities.BookVariant `json:"bookType"`
	VersionName  string               `json:"versionName"`
	Description  string               `json:"description"`
	CreatedAt    time.Time            `json:"createdAt"`
	ChapterCount int                  `json:"chapterCount"`
	TotalWords   int                  `json:"totalWords"`
	Checksum     string               `json:"checksum"`
}

// ArchiveFileName is the suggested download name for a version archive.
func ArchiveFileName(v entities.Version) string {
	return fmt.Sprintf("%s-%s.zip", v.BookVariant, artifactStamp(v.CreatedAt))
}

// ChapterFileName names a chapter inside an archive, e.g. 03-the-storm.md.
func ChapterFileName(position int, slug string) string {
	if slug == "" {
		slug = "chapter"
	}
	return fmt.Sprintf("%02d-%s.md", position, slug)
}

// MarkdownWithFrontMatter renders a snapshot chapter as a markdown file.
func MarkdownWithFrontMatter(ch entities.ChapterSnapshot) ([]byte, error) {
	fm, err := yaml.Marshal(chapterFrontMatter{
		Title:     ch.Title,
		Status:    ch.Status,
		WordCount: ch.WordCount,
		Notes:     ch.Notes,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal front matter: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString("---\n")
	buf.Write(fm)
	buf.WriteString("---\n\n")
	buf.WriteString(ch.Content)
	if len(ch.Content) > 0 && ch.Content[len(ch.Content)-1] != '\n' {
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}

// WriteVersionArchive streams a zip holding one markdown file per chapter
// plus metadata.json.
func WriteVersionArchive(w io.Writer, detail *entities.VersionDetail) error {
	zw := zip.NewWriter(w)

	for i, ch := range detail.Chapters {
		content, err := MarkdownWithFrontMatter(ch)
		if err != nil {
			return err
		}
		if err := writeZipEntry(zw, ChapterFileName(i+1, ch.Slug), content, detail.CreatedAt); err != nil {
			return err
		}
	}

	meta, err := json.MarshalIndent(archiveMetadata{
		BookType:     detail.BookVariant,
		VersionName:  detail.VersionName,
		Description:  detail.Description,
		CreatedAt:    detail.CreatedAt,
		ChapterCount: detail.ChapterCount,
		TotalWords:   detail.TotalWords,
		Checksum:     detail.Checksum,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal archive metadata: %w", err)
	}
	if err := writeZipEntry(zw, "metadata.json", meta, detail.CreatedAt); err != nil {
		return err
	}

	return zw.Close()
}

func writeZipEntry(zw *zip.Writer, name string, content []byte, modified time.Time) error {
	f, err := zw.CreateHeader(&zip.FileHeader{
		Name:     name,
		Method:   zip.Deflate,
		Modified: modified,
	})
	if err != nil {
		return fmt.Errorf("create archive entry %s: %w", name, err)
	}
	if _, err := f.Write(content); err != nil {
		return fmt.Errorf("write archive entry %s: %w", name, err)
	}
	return nil
}
