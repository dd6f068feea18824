package entity

import (
	"path/filepath"
	"strings"
)

// AlbumCandidate is a directory holding audio files,
// evaluated for being a single album.
type AlbumCandidate struct {
	Dir      string
	Files    []*TrackFile
	Children []*AlbumCandidate

	IsAlbum bool
	Album   string
	Artist  string
	Status  Status
	// Notes collects the failures which were
	// swallowed while gathering evidence.
	Notes []string
}

// CatalogTrack is a track as listed by the catalog inside an album.
type CatalogTrack struct {
	Number  int
	Name    string
	Artists []string
}

// CatalogAlbum is the catalog detail of an album:
// it is never mutated once fetched.
type CatalogAlbum struct {
	ID       string
	Name     string
	Artists  []string
	Tracks   []CatalogTrack
	CoverURL string
}

// MatchResult associates a local file to the catalog track
// it has been recognized as, if any.
type MatchResult struct {
	File      *TrackFile
	Title     string
	Number    int
	Score     float64
	Matched   bool
	Track     *CatalogTrack
	LookupErr error
	TagErr    error
	CoverErr  error
}

func NewAlbumCandidate(dir string) *AlbumCandidate {
	return &AlbumCandidate{Dir: dir, Status: Pending}
}

func (album *AlbumCandidate) Name() string {
	return filepath.Base(album.Dir)
}

// Walk visits the candidate and its descendants in pre-order,
// stopping as soon as fn returns false.
func (album *AlbumCandidate) Walk(fn func(*AlbumCandidate) bool) bool {
	if !fn(album) {
		return false
	}
	for _, child := range album.Children {
		if !child.Walk(fn) {
			return false
		}
	}
	return true
}

// Rebase rewrites the paths of the candidate, its files
// and its descendants after the from directory got moved to to.
func (album *AlbumCandidate) Rebase(from, to string) {
	album.Walk(func(node *AlbumCandidate) bool {
		node.Dir = rebase(node.Dir, from, to)
		for _, file := range node.Files {
			file.Path = rebase(file.Path, from, to)
		}
		return true
	})
}

func rebase(path, from, to string) string {
	if path == from {
		return to
	}
	if prefix := from + string(filepath.Separator); strings.HasPrefix(path, prefix) {
		return filepath.Join(to, strings.TrimPrefix(path, prefix))
	}
	return path
}

// Flatten returns every candidate of a forest in pre-order.
func Flatten(forest []*AlbumCandidate) []*AlbumCandidate {
	var flat []*AlbumCandidate
	for _, root := range forest {
		root.Walk(func(node *AlbumCandidate) bool {
			flat = append(flat, node)
			return true
		})
	}
	return flat
}

// Artist returns the first album-level artist, if any.
func (album *CatalogAlbum) Artist() string {
	if len(album.Artists) == 0 {
		return ""
	}
	return album.Artists[0]
}
