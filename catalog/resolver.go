package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/streambinder/albumfix/entity"
)

const DefaultSearchLimit = 10

// Cache holds album details fetched during one run:
// it must not outlive nor be shared across runs.
type Cache struct {
	albums map[string]*entity.CatalogAlbum
}

// Resolver maps an (album, artist) pair onto a catalog album.
type Resolver struct {
	lookup Lookup
	cache  *Cache
	limit  int
	notes  []error
}

func NewCache() *Cache {
	return &Cache{albums: make(map[string]*entity.CatalogAlbum)}
}

func (cache *Cache) Get(id string) (*entity.CatalogAlbum, bool) {
	album, ok := cache.albums[id]
	return album, ok
}

func (cache *Cache) Set(id string, album *entity.CatalogAlbum) {
	cache.albums[id] = album
}

func (cache *Cache) Len() int {
	return len(cache.albums)
}

func NewResolver(lookup Lookup, cache *Cache, limit int) *Resolver {
	if cache == nil {
		cache = NewCache()
	}
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	return &Resolver{lookup: lookup, cache: cache, limit: limit}
}

// Queries returns the album search strategies, from the most to the least
// constrained: the first one yielding an acceptable candidate wins.
func Queries(album, artist string) []string {
	return []string{
		fmt.Sprintf(`artist:"%s" album:"%s"`, artist, album),
		fmt.Sprintf(`"%s" "%s"`, artist, album),
		fmt.Sprintf(`album:"%s"`, album),
		album,
	}
}

// Resolve returns the id of the catalog album named album and credited
// to artist, or ErrNotFound. Failed searches are collected into Notes.
func (resolver *Resolver) Resolve(ctx context.Context, album, artist string) (string, error) {
	for _, query := range Queries(album, artist) {
		hits, err := resolver.lookup.SearchAlbums(ctx, query, resolver.limit)
		if err != nil {
			resolver.notes = append(resolver.notes, &TransientError{Query: query, Err: err})
			continue
		}
		if hit, ok := Accept(hits, album, artist); ok {
			return hit.ID, nil
		}
	}
	return "", ErrNotFound
}

// Accept returns the first hit named album (case-insensitively) one of whose
// artists equals artist, is contained in it or contains it.
func Accept(hits []AlbumHit, album, artist string) (AlbumHit, bool) {
	artist = strings.ToLower(artist)
	for _, hit := range hits {
		if !strings.EqualFold(hit.Name, album) {
			continue
		}
		for _, hitArtist := range hit.Artists {
			hitArtist = strings.ToLower(hitArtist)
			if hitArtist == artist ||
				strings.Contains(artist, hitArtist) ||
				strings.Contains(hitArtist, artist) {
				return hit, true
			}
		}
	}
	return AlbumHit{}, false
}

// Album returns the detail of the catalog album with the given id,
// querying the catalog only the first time a given id is asked for.
func (resolver *Resolver) Album(ctx context.Context, id string) (*entity.CatalogAlbum, error) {
	if album, ok := resolver.cache.Get(id); ok {
		return album, nil
	}
	album, err := resolver.lookup.Album(ctx, id)
	if err != nil {
		return nil, err
	}
	resolver.cache.Set(id, album)
	return album, nil
}

// AlbumArtist returns the first album-level artist of the catalog
// album with the given id, or fallback if that cannot be told.
func (resolver *Resolver) AlbumArtist(ctx context.Context, id, fallback string) string {
	album, err := resolver.Album(ctx, id)
	if err != nil {
		resolver.notes = append(resolver.notes, err)
		return fallback
	}
	if artist := album.Artist(); len(artist) > 0 {
		return artist
	}
	return fallback
}

// Notes drains the failures swallowed since the last call.
func (resolver *Resolver) Notes() []error {
	notes := resolver.notes
	resolver.notes = nil
	return notes
}
