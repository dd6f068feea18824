// Package id3 is the tag I/O layer: it maps the typed entity.Tags
// record onto ID3v2 frames and embeds front covers.
package id3

import (
	"strconv"

	"github.com/bogem/id3v2/v2"
	"github.com/streambinder/albumfix/entity"
)

const (
	frameTrackNumber = "TRCK"
	framePicture     = "APIC"
	// tags are saved as ID3v2.3, the version most car and
	// portable players still parse correctly
	saveVersion = 3
)

type Tag struct {
	*id3v2.Tag
}

// Tagger implements entity.Tagger on top of ID3v2 tags.
type Tagger struct{}

// Open parses the tag of the file at path, preparing it
// to be saved with the most compatible ID3v2 version:
// frames set after opening are encoded accordingly.
func Open(path string, options id3v2.Options) (*Tag, error) {
	tag, err := id3v2.Open(path, options)
	if err != nil {
		return nil, err
	}
	tag.SetVersion(saveVersion)
	tag.SetDefaultEncoding(id3v2.EncodingUTF16)
	return &Tag{tag}, nil
}

func (tag *Tag) TrackNumber() string {
	return tag.GetTextFrame(frameTrackNumber).Text
}

func (tag *Tag) SetTrackNumber(number string) {
	tag.DeleteFrames(frameTrackNumber)
	tag.AddTextFrame(frameTrackNumber, tag.DefaultEncoding(), number)
}

// AttachedPictures returns every picture frame embedded in the tag.
func (tag *Tag) AttachedPictures() []id3v2.PictureFrame {
	var pictures []id3v2.PictureFrame
	for _, frame := range tag.GetFrames(framePicture) {
		if picture, ok := frame.(id3v2.PictureFrame); ok {
			pictures = append(pictures, picture)
		}
	}
	return pictures
}

// SetAttachedPicture replaces any embedded picture with the given front cover.
func (tag *Tag) SetAttachedPicture(data []byte, mimeType string) {
	tag.DeleteFrames(framePicture)
	tag.AddAttachedPicture(id3v2.PictureFrame{
		Encoding:    tag.DefaultEncoding(),
		MimeType:    mimeType,
		PictureType: id3v2.PTFrontCover,
		Description: "Cover",
		Picture:     data,
	})
}

func (Tagger) Read(path string) (entity.Tags, error) {
	tag, err := Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return entity.Tags{}, &entity.TagError{Path: path, Op: "read", Err: err}
	}
	defer tag.Close()

	var tags entity.Tags
	if title := tag.Title(); len(title) > 0 {
		tags.Title = &title
	}
	if artist := tag.Artist(); len(artist) > 0 {
		tags.Artist = &artist
	}
	if album := tag.Album(); len(album) > 0 {
		tags.Album = &album
	}
	if number, ok := entity.ParseTrackNumber(tag.TrackNumber()); ok {
		tags.TrackNumber = &number
	}
	return tags, nil
}

// Write sets every field which is present in tags,
// leaving the absent ones untouched.
func (Tagger) Write(path string, tags entity.Tags) error {
	tag, err := Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return &entity.TagError{Path: path, Op: "open", Err: err}
	}
	defer tag.Close()

	if tags.Title != nil {
		tag.SetTitle(*tags.Title)
	}
	if tags.Artist != nil {
		tag.SetArtist(*tags.Artist)
	}
	if tags.Album != nil {
		tag.SetAlbum(*tags.Album)
	}
	if tags.TrackNumber != nil {
		tag.SetTrackNumber(strconv.Itoa(*tags.TrackNumber))
	}
	if err := tag.Save(); err != nil {
		return &entity.TagError{Path: path, Op: "write", Err: err}
	}
	return nil
}

func (Tagger) EmbedCover(path string, data []byte, mimeType string) error {
	tag, err := Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return &entity.TagError{Path: path, Op: "open", Err: err}
	}
	defer tag.Close()

	tag.SetAttachedPicture(data, mimeType)
	if err := tag.Save(); err != nil {
		return &entity.TagError{Path: path, Op: "embed cover in", Err: err}
	}
	return nil
}
