// Package catalogtest provides an in-memory catalog.Lookup for tests.
package catalogtest

import (
	"context"
	"errors"
	"fmt"

	"github.com/streambinder/albumfix/catalog"
	"github.com/streambinder/albumfix/entity"
)

var ErrUnavailable = errors.New("catalog unavailable")

// Fake answers searches from fixed tables and records every call.
// Queries without an entry answer an empty result set;
// queries listed in Failing fail with ErrUnavailable.
type Fake struct {
	Tracks  map[string][]catalog.TrackHit
	Albums  map[string][]catalog.AlbumHit
	Details map[string]*entity.CatalogAlbum
	Failing map[string]bool

	TrackQueries []string
	AlbumQueries []string
	DetailCalls  []string
}

func New() *Fake {
	return &Fake{
		Tracks:  make(map[string][]catalog.TrackHit),
		Albums:  make(map[string][]catalog.AlbumHit),
		Details: make(map[string]*entity.CatalogAlbum),
		Failing: make(map[string]bool),
	}
}

func (fake *Fake) SearchTracks(_ context.Context, query string, limit int) ([]catalog.TrackHit, error) {
	fake.TrackQueries = append(fake.TrackQueries, query)
	if fake.Failing[query] {
		return nil, ErrUnavailable
	}
	return head(fake.Tracks[query], limit), nil
}

func (fake *Fake) SearchAlbums(_ context.Context, query string, limit int) ([]catalog.AlbumHit, error) {
	fake.AlbumQueries = append(fake.AlbumQueries, query)
	if fake.Failing[query] {
		return nil, ErrUnavailable
	}
	return head(fake.Albums[query], limit), nil
}

func (fake *Fake) Album(_ context.Context, id string) (*entity.CatalogAlbum, error) {
	fake.DetailCalls = append(fake.DetailCalls, id)
	if fake.Failing[id] {
		return nil, ErrUnavailable
	}
	album, ok := fake.Details[id]
	if !ok {
		return nil, fmt.Errorf("album %s: %w", id, ErrUnavailable)
	}
	return album, nil
}

func head[T any](items []T, limit int) []T {
	if limit > 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}
