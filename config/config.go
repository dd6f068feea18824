package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/pelletier/go-toml/v2"
	"github.com/streambinder/albumfix/util"
)

//go:embed sample_config.toml
var sampleConfig string

// Spotify contains the catalog client credentials.
type Spotify struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
	Market       string `toml:"market"`
}

// Library contains the music library location.
type Library struct {
	Path string `toml:"path"`
}

// Backup contains the backups area location.
type Backup struct {
	Dir string `toml:"dir"`
}

// Matching contains the catalog matching knobs.
type Matching struct {
	// Threshold is the title similarity a track must strictly exceed to match.
	Threshold   float64 `toml:"threshold"`
	SearchLimit int     `toml:"search_limit"`
}

// Artwork contains the cover art handling settings.
type Artwork struct {
	// MaxSize bounds the longest side of embedded covers, 0 embeds them untouched.
	MaxSize uint `toml:"max_size"`
	Cache   bool `toml:"cache"`
}

type Config struct {
	Spotify  Spotify  `toml:"spotify"`
	Library  Library  `toml:"library"`
	Backup   Backup   `toml:"backup"`
	Matching Matching `toml:"matching"`
	Artwork  Artwork  `toml:"artwork"`
}

// DefaultPath returns the default configuration file location.
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, appName, "config.toml")
}

// Load reads the configuration at path (the default location if empty)
// on top of the defaults: a missing file is not an error.
// It returns the normalized configuration and the path it was read from.
func Load(path string) (*Config, string, error) {
	cfg := Default()

	if len(path) == 0 {
		path = DefaultPath()
	}
	path, err := expandPath(path)
	if err != nil {
		return nil, "", err
	}

	file, err := os.Open(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, "", fmt.Errorf("open config: %w", err)
	default:
		defer file.Close()
		if err := toml.NewDecoder(file).Decode(&cfg); err != nil {
			return nil, "", fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", err
	}
	return &cfg, path, nil
}

// CreateSample writes the commented sample configuration at path, readable
// by the owner only since it is meant to hold the client secret.
// An existing file is never overwritten.
func CreateSample(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if errors.Is(err, fs.ErrExist) {
		return fmt.Errorf("%s already exists, not overwriting it", path)
	} else if err != nil {
		return err
	}
	if _, err := io.WriteString(file, sampleConfig); err != nil {
		util.ErrSuppress(file.Close())
		return err
	}
	return file.Close()
}

// expandPath makes value absolute, after replacing environment
// variables and a leading ~ with the user home directory.
func expandPath(value string) (string, error) {
	value = os.ExpandEnv(strings.TrimSpace(value))
	if len(value) == 0 {
		return "", nil
	}
	if home := strings.TrimPrefix(value, "~"); home != value && (len(home) == 0 || os.IsPathSeparator(home[0])) {
		dir, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		value = filepath.Join(dir, home)
	}
	return filepath.Abs(value)
}
