package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/streambinder/albumfix/util"
)

func (c *Config) normalize() error {
	c.normalizeSpotify()
	return c.normalizePaths()
}

func (c *Config) normalizeSpotify() {
	if value, ok := os.LookupEnv("SPOTIFY_CLIENT_ID"); ok && len(value) > 0 {
		c.Spotify.ClientID = value
	}
	if value, ok := os.LookupEnv("SPOTIFY_CLIENT_SECRET"); ok && len(value) > 0 {
		c.Spotify.ClientSecret = value
	}
	c.Spotify.ClientID = strings.TrimSpace(c.Spotify.ClientID)
	c.Spotify.ClientSecret = strings.TrimSpace(c.Spotify.ClientSecret)
	c.Spotify.Market = strings.ToUpper(strings.TrimSpace(c.Spotify.Market))
	if c.Spotify.Market == "" {
		c.Spotify.Market = defaultMarket
	}
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Library.Path, err = expandPath(c.Library.Path); err != nil {
		return fmt.Errorf("library.path: %w", err)
	}
	if strings.TrimSpace(c.Backup.Dir) == "" {
		c.Backup.Dir = filepath.Join(util.ExecutableDir(), "backups")
	}
	if c.Backup.Dir, err = expandPath(c.Backup.Dir); err != nil {
		return fmt.Errorf("backup.dir: %w", err)
	}
	return nil
}
