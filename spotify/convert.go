package spotify

import (
	"github.com/streambinder/albumfix/catalog"
	"github.com/streambinder/albumfix/entity"
	"github.com/zmb3/spotify/v2"
)

func artistNames(artists []spotify.SimpleArtist) []string {
	names := make([]string, 0, len(artists))
	for _, artist := range artists {
		names = append(names, artist.Name)
	}
	return names
}

func trackHit(track spotify.FullTrack) catalog.TrackHit {
	return catalog.TrackHit{
		Name:    track.Name,
		Album:   track.Album.Name,
		Artists: artistNames(track.Artists),
	}
}

func albumHit(album spotify.SimpleAlbum) catalog.AlbumHit {
	images := make([]string, 0, len(album.Images))
	for _, image := range album.Images {
		images = append(images, image.URL)
	}
	return catalog.AlbumHit{
		ID:      album.ID.String(),
		Name:    album.Name,
		Artists: artistNames(album.Artists),
		Images:  images,
	}
}

// catalogAlbum converts the album detail: Spotify lists images
// widest first, so the first one is the highest resolution cover.
func catalogAlbum(album *spotify.FullAlbum, tracks []spotify.SimpleTrack) *entity.CatalogAlbum {
	converted := &entity.CatalogAlbum{
		ID:      album.ID.String(),
		Name:    album.Name,
		Artists: artistNames(album.Artists),
		Tracks:  make([]entity.CatalogTrack, 0, len(tracks)),
	}
	if len(album.Images) > 0 {
		converted.CoverURL = album.Images[0].URL
	}
	for _, track := range tracks {
		converted.Tracks = append(converted.Tracks, entity.CatalogTrack{
			Number:  int(track.TrackNumber),
			Name:    track.Name,
			Artists: artistNames(track.Artists),
		})
	}
	return converted
}
