package utils

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	slugDisallowed = regexp.MustCompile(`[^\p{L}\p{N}\s-]+`)
	slugSpaces     = regexp.MustCompile(`\s+`)
	slugDashes     = regexp.MustCompile(`-{2,}`)
)

// CountWords counts runs of letters and digits. Punctuation and markup
// characters act as separators, so "don't" counts as two words.
func CountWords(text string) int {
	return len(strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	}))
}

// Slugify derives a URL fragment from a title. The mapping is lossy and
// different titles may produce the same slug. Dashes written into the title
// survive at either end.
func Slugify(title string) string {
	s := strings.ToLower(strings.TrimSpace(title))
	s = slugDisallowed.ReplaceAllString(s, "")
	s = slugSpaces.ReplaceAllString(s, "-")
	return slugDashes.ReplaceAllString(s, "-")
}
