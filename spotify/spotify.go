package spotify

import (
	"context"
	"errors"

	"github.com/streambinder/albumfix/catalog"
	"github.com/streambinder/albumfix/entity"
	"github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2/clientcredentials"
)

const DefaultMarket = "DE"

var ErrMissingCredentials = errors.New("spotify client id and secret are not configured")

// Client is the Spotify implementation of catalog.Lookup.
type Client struct {
	*spotify.Client
	market string
}

// Authenticate obtains an app token through the client credentials flow:
// the underlying HTTP client refreshes it transparently when it expires.
func Authenticate(ctx context.Context, id, secret, market string) (*Client, error) {
	if len(id) == 0 || len(secret) == 0 {
		return nil, ErrMissingCredentials
	}

	config := &clientcredentials.Config{
		ClientID:     id,
		ClientSecret: secret,
		TokenURL:     spotifyauth.TokenURL,
	}
	if _, err := config.Token(ctx); err != nil {
		return nil, err
	}
	return New(spotify.New(config.Client(ctx)), market), nil
}

func New(client *spotify.Client, market string) *Client {
	if len(market) == 0 {
		market = DefaultMarket
	}
	return &Client{client, market}
}

func (client *Client) SearchTracks(ctx context.Context, query string, limit int) ([]catalog.TrackHit, error) {
	results, err := client.Search(ctx, query, spotify.SearchTypeTrack, spotify.Limit(limit))
	if err != nil {
		return nil, err
	}

	hits := []catalog.TrackHit{}
	if results.Tracks != nil {
		for _, track := range results.Tracks.Tracks {
			hits = append(hits, trackHit(track))
		}
	}
	return hits, nil
}

func (client *Client) SearchAlbums(ctx context.Context, query string, limit int) ([]catalog.AlbumHit, error) {
	results, err := client.Search(ctx, query, spotify.SearchTypeAlbum, spotify.Limit(limit))
	if err != nil {
		return nil, err
	}

	hits := []catalog.AlbumHit{}
	if results.Albums != nil {
		for _, album := range results.Albums.Albums {
			hits = append(hits, albumHit(album))
		}
	}
	return hits, nil
}

// Album fetches the album detail in one call, paging through
// the remaining tracks only for albums longer than one page.
func (client *Client) Album(ctx context.Context, id string) (*entity.CatalogAlbum, error) {
	album, err := client.GetAlbum(ctx, spotify.ID(id), spotify.Market(client.market))
	if err != nil {
		return nil, err
	}

	tracks := append([]spotify.SimpleTrack{}, album.Tracks.Tracks...)
	for page := &album.Tracks; len(page.Next) > 0; {
		if err := client.NextPage(ctx, page); err != nil {
			if errors.Is(err, spotify.ErrNoMorePages) {
				break
			}
			return nil, err
		}
		tracks = append(tracks, page.Tracks...)
	}
	return catalogAlbum(album, tracks), nil
}
