package utils

import (
	"path/filepath"
	"regexp"
	"strings"
)

var (
	// Characters invalid in filenames on most filesystems
	invalidFilenameChars = regexp.MustCompile(`[<>:"/\\|?*]`)
	// Whitespace characters to normalize
	whitespaceChars = regexp.MustCompile(`[\r\n\t]`)
	// Multiple spaces to collapse
	multipleSpaces = regexp.MustCompile(`\s+`)
)

// SanitizeFilename makes an uploaded or exported name safe to use as a
// filename and in a Content-Disposition header.
func SanitizeFilename(filename string) string {
	filename = invalidFilenameChars.ReplaceAllString(filename, "")
	filename = whitespaceChars.ReplaceAllString(filename, " ")
	filename = multipleSpaces.ReplaceAllString(filename, " ")
	filename = strings.TrimSpace(filename)

	// Leave room for a timestamp suffix
	if len(filename) > 200 {
		filename = strings.TrimSpace(filename[:200])
	}

	if filename == "" {
		filename = "Untitled"
	}

	return filename
}

// File types recorded on sources
const (
	FileTypePDF      = "pdf"
	FileTypeWord     = "word"
	FileTypeText     = "text"
	FileTypeMarkdown = "markdown"
	FileTypeRTF      = "rtf"
	FileTypeODT      = "odt"
	FileTypeHTML     = "html"
	FileTypeOther    = "other"
)

var fileTypesByExtension = map[string]string{
	".pdf":  FileTypePDF,
	".doc":  FileTypeWord,
	".docx": FileTypeWord,
	".txt":  FileTypeText,
	".md":   FileTypeMarkdown,
	".rtf":  FileTypeRTF,
	".odt":  FileTypeODT,
	".html": FileTypeHTML,
	".htm":  FileTypeHTML,
}

// FileTypeFromName infers a source file type from the extension of name.
func FileTypeFromName(name string) string {
	if ft, ok := fileTypesByExtension[strings.ToLower(filepath.Ext(name))]; ok {
		return ft
	}
	return FileTypeOther
}
