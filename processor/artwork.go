package processor

import (
	"bytes"
	"image"
	"image/jpeg"
	_ "image/png"

	"github.com/nfnt/resize"
)

const (
	MimeJPEG = "image/jpeg"
	MimePNG  = "image/png"
)

// Artwork post-processes cover bytes before they get embedded:
// MaxSize bounds the longest side, zero keeps the bytes untouched.
type Artwork struct {
	MaxSize uint
}

func (artwork Artwork) Do(data []byte) ([]byte, error) {
	if artwork.MaxSize == 0 || len(data) == 0 {
		return data, nil
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	if uint(bounds.Dx()) <= artwork.MaxSize && uint(bounds.Dy()) <= artwork.MaxSize {
		return data, nil
	}

	var buffer bytes.Buffer
	if err := jpeg.Encode(&buffer,
		resize.Thumbnail(artwork.MaxSize, artwork.MaxSize, img, resize.Lanczos3),
		&jpeg.Options{Quality: 90}); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}

// MimeType sniffs the image format from its magic bytes,
// falling back to JPEG for anything unknown.
func MimeType(data []byte) string {
	switch {
	case bytes.HasPrefix(data, []byte{0xff, 0xd8, 0xff}):
		return MimeJPEG
	case bytes.HasPrefix(data, []byte{0x89, 0x50, 0x4e, 0x47}):
		return MimePNG
	default:
		return MimeJPEG
	}
}
