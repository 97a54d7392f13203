package parsers

import (
	"bufio"
	"bytes"
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/mrlokans/manuscript/internal/entities"
	"github.com/mrlokans/manuscript/internal/logging"
)

// ParsedChapter is a chapter read from a markdown file.
type ParsedChapter struct {
	File    string
	Title   string
	Content string
	Status  entities.ChapterStatus
	Notes   string
}

// ParseResult contains the results of parsing a directory.
type ParseResult struct {
	FilesProcessed int `json:"files_processed"`
	FilesFailed    int `json:"files_failed"`
}

type frontMatter struct {
	Title  string `yaml:"title"`
	Status string `yaml:"status"`
	Notes  string `yaml:"notes"`
}

var (
	headingRe      = regexp.MustCompile(`^#\s+(.+?)\s*#*\s*$`)
	orderPrefixRe  = regexp.MustCompile(`^\d+[-_. ]+`)
	frontMatterSep = []byte("---")
)

// MarkdownParser reads chapter files from a directory.
type MarkdownParser struct {
	fs  afero.Fs
	log *logging.Logger
}

func NewMarkdownParser(fs afero.Fs, log *logging.Logger) *MarkdownParser {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &MarkdownParser{fs: fs, log: log}
}

// ParseDir parses every *.md file directly inside dir, in lexical order of
// the file names. Unreadable files are counted and skipped.
func (p *MarkdownParser) ParseDir(dir string) ([]ParsedChapter, ParseResult, error) {
	result := ParseResult{}

	entries, err := afero.ReadDir(p.fs, dir)
	if err != nil {
		return nil, result, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".md") {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	chapters := make([]ParsedChapter, 0, len(names))
	for _, name := range names {
		path := filepath.Join(dir, name)
		data, err := afero.ReadFile(p.fs, path)
		if err != nil {
			p.log.Warn("Failed to read chapter file", "path", path, "error", err)
			result.FilesFailed++
			continue
		}
		chapter, err := ParseChapter(name, data)
		if err != nil {
			p.log.Warn("Failed to parse chapter file", "path", path, "error", err)
			result.FilesFailed++
			continue
		}
		chapters = append(chapters, chapter)
		result.FilesProcessed++
	}

	return chapters, result, nil
}

// ParseChapter extracts a chapter from markdown. The title comes from YAML
// front matter, else the first "# " heading (which is then dropped from the
// body), else the file name.
func ParseChapter(name string, data []byte) (ParsedChapter, error) {
	chapter := ParsedChapter{File: name}

	fm, body, err := splitFrontMatter(data)
	if err != nil {
		return chapter, err
	}
	chapter.Title = strings.TrimSpace(fm.Title)
	chapter.Notes = fm.Notes
	if status := entities.ChapterStatus(strings.ToLower(strings.TrimSpace(fm.Status))); status.Valid() {
		chapter.Status = status
	}

	if chapter.Title == "" {
		if title, rest, ok := takeHeading(body); ok {
			chapter.Title = title
			body = rest
		}
	}
	if chapter.Title == "" {
		chapter.Title = titleFromFilename(name)
	}

	chapter.Content = strings.TrimSpace(body)
	return chapter, nil
}

func splitFrontMatter(data []byte) (frontMatter, string, error) {
	var fm frontMatter
	data = bytes.TrimPrefix(data, []byte("\ufeff"))
	if !bytes.HasPrefix(data, frontMatterSep) {
		return fm, string(data), nil
	}

	rest := data[len(frontMatterSep):]
	if i := bytes.IndexByte(rest, '\n'); i < 0 || len(bytes.TrimSpace(rest[:i])) > 0 {
		// "---" followed by text on the same line is a thematic break.
		return fm, string(data), nil
	} else {
		rest = rest[i+1:]
	}

	end := bytes.Index(rest, []byte("\n---"))
	if end < 0 {
		return fm, string(data), nil
	}
	if err := yaml.Unmarshal(rest[:end], &fm); err != nil {
		return fm, "", fmt.Errorf("invalid front matter: %w", err)
	}

	body := rest[end+len("\n---"):]
	if i := bytes.IndexByte(body, '\n'); i >= 0 {
		body = body[i+1:]
	} else {
		body = nil
	}
	return fm, string(body), nil
}

// takeHeading finds the first level-one heading and returns the body without it.
func takeHeading(body string) (string, string, bool) {
	scanner := bufio.NewScanner(strings.NewReader(body))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var before []string
	inFence := false
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			inFence = !inFence
		}
		if !inFence {
			if m := headingRe.FindStringSubmatch(line); m != nil {
				var after []string
				for scanner.Scan() {
					after = append(after, scanner.Text())
				}
				rest := strings.Join(append(before, after...), "\n")
				return strings.TrimSpace(m[1]), rest, true
			}
		}
		before = append(before, line)
	}
	return "", body, false
}

func titleFromFilename(name string) string {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	base = orderPrefixRe.ReplaceAllString(base, "")
	base = strings.NewReplacer("-", " ", "_", " ").Replace(base)
	base = strings.Join(strings.Fields(base), " ")
	if base == "" {
		return strings.TrimSuffix(name, filepath.Ext(name))
	}
	return base
}
