// Package entitytest provides an in-memory entity.Tagger for tests.
package entitytest

import (
	"errors"

	"github.com/streambinder/albumfix/entity"
)

var ErrBroken = errors.New("broken tag")

type Cover struct {
	Data     []byte
	MimeType string
}

// Tagger keeps tags by path. Paths listed in Failing fail every operation,
// paths listed in FailingCovers only fail cover embedding.
type Tagger struct {
	Tags          map[string]entity.Tags
	Covers        map[string]Cover
	Failing       map[string]bool
	FailingCovers map[string]bool
	Writes        int
}

func New() *Tagger {
	return &Tagger{
		Tags:          make(map[string]entity.Tags),
		Covers:        make(map[string]Cover),
		Failing:       make(map[string]bool),
		FailingCovers: make(map[string]bool),
	}
}

func (tagger *Tagger) Read(path string) (entity.Tags, error) {
	if tagger.Failing[path] {
		return entity.Tags{}, &entity.TagError{Path: path, Op: "read", Err: ErrBroken}
	}
	return tagger.Tags[path], nil
}

func (tagger *Tagger) Write(path string, tags entity.Tags) error {
	if tagger.Failing[path] {
		return &entity.TagError{Path: path, Op: "write", Err: ErrBroken}
	}

	stored := tagger.Tags[path]
	if tags.Title != nil {
		stored.Title = tags.Title
	}
	if tags.Artist != nil {
		stored.Artist = tags.Artist
	}
	if tags.Album != nil {
		stored.Album = tags.Album
	}
	if tags.TrackNumber != nil {
		stored.TrackNumber = tags.TrackNumber
	}
	tagger.Tags[path] = stored
	tagger.Writes++
	return nil
}

func (tagger *Tagger) EmbedCover(path string, data []byte, mimeType string) error {
	if tagger.Failing[path] || tagger.FailingCovers[path] {
		return &entity.TagError{Path: path, Op: "embed cover into", Err: ErrBroken}
	}
	tagger.Covers[path] = Cover{data, mimeType}
	return nil
}
