package entity

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/streambinder/albumfix/util"
)

const (
	TrackFormat = "mp3"
	// UnmatchedNumber is the track number given to files no catalog
	// track could be associated to: it always sorts last.
	UnmatchedNumber = 999
)

// Tags is the typed view over the metadata fields albumfix reads and writes:
// nil fields are absent from the file, as opposed to set but empty.
type Tags struct {
	Title       *string
	Artist      *string
	Album       *string
	TrackNumber *int
}

// TrackFile is a local audio file, together with
// the mirror of its metadata as last read or written.
type TrackFile struct {
	Path string
	Tags Tags
}

type TrackPath struct {
	track *TrackFile
}

// Tagger is the tag I/O collaborator:
// it reads and writes metadata of local audio files.
type Tagger interface {
	Read(path string) (Tags, error)
	Write(path string, tags Tags) error
	EmbedCover(path string, data []byte, mimeType string) error
}

func (tags Tags) TitleOrEmpty() string {
	return valueOrEmpty(tags.Title)
}

func (tags Tags) ArtistOrEmpty() string {
	return valueOrEmpty(tags.Artist)
}

func (tags Tags) AlbumOrEmpty() string {
	return valueOrEmpty(tags.Album)
}

// Number returns the track number, or the unmatched sentinel if absent.
func (tags Tags) Number() int {
	if tags.TrackNumber == nil {
		return UnmatchedNumber
	}
	return *tags.TrackNumber
}

func valueOrEmpty(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}

// ParseTrackNumber reads the numeric part of a track number frame,
// which can also carry the total of tracks, e.g. "3/12".
func ParseTrackNumber(value string) (int, bool) {
	value = strings.TrimSpace(strings.SplitN(value, "/", 2)[0])
	number, err := strconv.Atoi(value)
	if err != nil {
		return 0, false
	}
	return number, true
}

func NewTrackFile(path string) *TrackFile {
	return &TrackFile{Path: path}
}

// Stem is the file name without its extension.
func (track *TrackFile) Stem() string {
	name := filepath.Base(track.Path)
	return strings.TrimSuffix(name, filepath.Ext(name))
}

func (track *TrackFile) Paths() TrackPath {
	return TrackPath{track}
}

// Final returns the file name the track will be installed as,
// once it has been given its final position inside the album:
// > NN - Artist - Title.mp3
func (trackPath TrackPath) Final(position int) string {
	var (
		title  = StripNumberPrefix(trackPath.track.Tags.TitleOrEmpty())
		artist = StripNumberPrefix(trackPath.track.Tags.ArtistOrEmpty())
	)
	return util.LegalizeFilename(fmt.Sprintf("%02d - %s - %s.%s", position, artist, title, TrackFormat))
}

// IsTrack tells whether a file name looks like a supported audio file.
func IsTrack(name string) bool {
	return strings.EqualFold(filepath.Ext(name), "."+TrackFormat)
}
