package entity

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	annotations  = regexp.MustCompile(`\s*\([^)]*\)|\s*\[[^\]]*\]`)
	numberPrefix = regexp.MustCompile(`^\d{1,2}\s*-\s*`)
)

// Query is a catalog search derived from a file name:
// structured when the name follows the "Artist - Title" pattern,
// plain text otherwise.
type Query struct {
	Artist string
	Title  string
	Text   string
}

// CleanName drops parenthesized and bracketed annotations, e.g.:
// > Artist - Title (Remastered 2011) [Live] -> Artist - Title
func CleanName(name string) string {
	return strings.TrimSpace(annotations.ReplaceAllString(name, ""))
}

// StripNumberPrefix drops a leading "NN - " track position.
func StripNumberPrefix(value string) string {
	return strings.TrimSpace(numberPrefix.ReplaceAllString(value, ""))
}

func ParseQuery(name string) Query {
	if parts := strings.SplitN(name, " - ", 2); len(parts) == 2 {
		return Query{
			Artist: strings.TrimSpace(parts[0]),
			Title:  strings.TrimSpace(parts[1]),
			Text:   name,
		}
	}
	return Query{Text: name}
}

func (query Query) Structured() bool {
	return len(query.Artist) > 0
}

func (query Query) String() string {
	if query.Structured() {
		return fmt.Sprintf("artist:%s track:%s", query.Artist, query.Title)
	}
	return query.Text
}

// Fallback is the best title guess when the catalog has nothing to say.
func (query Query) Fallback() string {
	if query.Structured() {
		return query.Title
	}
	return query.Text
}
