package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/streambinder/albumfix/entity"
)

// ErrNotFound is returned when no catalog album satisfies the lookup
// after every search strategy got exhausted: it is a negative outcome,
// not a failure of the catalog.
var ErrNotFound = errors.New("album not found in catalog")

// Lookup is the catalog lookup service albumfix reconciles against.
type Lookup interface {
	SearchTracks(ctx context.Context, query string, limit int) ([]TrackHit, error)
	SearchAlbums(ctx context.Context, query string, limit int) ([]AlbumHit, error)
	Album(ctx context.Context, id string) (*entity.CatalogAlbum, error)
}

// TrackHit is a ranked track search result.
type TrackHit struct {
	Name    string
	Album   string
	Artists []string
}

// AlbumHit is a ranked album search result.
type AlbumHit struct {
	ID      string
	Name    string
	Artists []string
	Images  []string
}

// TransientError is a single failed search: callers treat it as
// absence of evidence and carry on with whatever else they have.
type TransientError struct {
	Query string
	Err   error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("search %q failed: %v", e.Query, e.Err)
}

func (e *TransientError) Unwrap() error { return e.Err }

// Artist returns the first credited artist, if any.
func (hit TrackHit) Artist() string {
	if len(hit.Artists) == 0 {
		return ""
	}
	return hit.Artists[0]
}
