package config

import (
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/streambinder/albumfix/util"
)

const (
	appName = "albumfix"

	defaultMarket      = "DE"
	defaultThreshold   = 0.6
	defaultSearchLimit = 10
)

// Default returns the configuration used when no file is found.
func Default() Config {
	return Config{
		Spotify: Spotify{Market: defaultMarket},
		Library: Library{Path: xdg.UserDirs.Music},
		Backup:  Backup{Dir: filepath.Join(util.ExecutableDir(), "backups")},
		Matching: Matching{
			Threshold:   defaultThreshold,
			SearchLimit: defaultSearchLimit,
		},
		Artwork: Artwork{Cache: true},
	}
}
