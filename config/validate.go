package config

import (
	"errors"
	"fmt"

	"github.com/streambinder/albumfix/util"
)

// ErrMissingCredentials is returned by RequireCredentials
// when the Spotify application credentials are not set.
var ErrMissingCredentials = errors.New("spotify credentials are not configured")

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if c.Matching.Threshold <= 0 || c.Matching.Threshold >= 1 {
		return errors.New("matching.threshold must be between 0 and 1, exclusive")
	}
	if c.Matching.SearchLimit < 1 || c.Matching.SearchLimit > 50 {
		return errors.New("matching.search_limit must be between 1 and 50")
	}
	if c.Backup.Dir == "" {
		return errors.New("backup.dir must be set")
	}
	if c.Library.Path != "" && util.Within(c.Backup.Dir, c.Library.Path) {
		return fmt.Errorf("backup.dir %s must not lie inside library.path %s", c.Backup.Dir, c.Library.Path)
	}
	return nil
}

// RequireCredentials ensures the catalog can be queried.
func (c *Config) RequireCredentials() error {
	if c.Spotify.ClientID == "" || c.Spotify.ClientSecret == "" {
		return fmt.Errorf("%w: set SPOTIFY_CLIENT_ID and SPOTIFY_CLIENT_SECRET env vars or edit %s "+
			"(create with 'albumfix config init', register an application at https://developer.spotify.com/dashboard)",
			ErrMissingCredentials, DefaultPath())
	}
	return nil
}
