package backup

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	jsoniter "github.com/json-iterator/go"
)

const (
	ManifestName    = "backup_info.json"
	TimestampFormat = "20060102_150405"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Manifest describes a snapshot: it is written last into the
// snapshot directory and never touched afterwards.
type Manifest struct {
	OriginalFolder string   `json:"original_folder"`
	BackupFolder   string   `json:"backup_folder"`
	Timestamp      string   `json:"timestamp"`
	Files          []string `json:"files"`
}

// ValidationError is returned when a snapshot cannot be trusted for restoring:
// nothing is ever deleted once it is returned.
type ValidationError struct {
	Dir    string
	Reason string
	Err    error
}

func (e *ValidationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid backup %s: %s: %v", e.Dir, e.Reason, e.Err)
	}
	return fmt.Sprintf("invalid backup %s: %s", e.Dir, e.Reason)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// Time parses the manifest timestamp, in local time.
func (manifest *Manifest) Time() (time.Time, error) {
	return time.ParseInLocation(TimestampFormat, manifest.Timestamp, time.Local)
}

// ReadManifest loads and validates the manifest of the snapshot in dir.
func ReadManifest(dir string) (*Manifest, error) {
	data, err := os.ReadFile(filepath.Join(dir, ManifestName))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, &ValidationError{Dir: dir, Reason: "manifest is missing"}
	} else if err != nil {
		return nil, &ValidationError{Dir: dir, Reason: "manifest is unreadable", Err: err}
	}

	var manifest Manifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, &ValidationError{Dir: dir, Reason: "manifest is malformed", Err: err}
	}
	if len(manifest.OriginalFolder) == 0 || !filepath.IsAbs(manifest.OriginalFolder) {
		return nil, &ValidationError{Dir: dir, Reason: "manifest lacks an absolute original folder"}
	}
	if len(manifest.BackupFolder) == 0 {
		manifest.BackupFolder = dir
	}
	return &manifest, nil
}

func (manifest *Manifest) encode() ([]byte, error) {
	return json.MarshalIndent(manifest, "", "    ")
}
