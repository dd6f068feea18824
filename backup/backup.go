// Package backup snapshots album directories before they get mutated,
// and restores them from those snapshots.
package backup

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/streambinder/albumfix/entity"
	"github.com/streambinder/albumfix/util"
	"github.com/thanhpk/randstr"
)

const (
	prefix   = "BACKUP_"
	lockName = ".lock"
)

var (
	// ErrLocked is returned when another process holds the backups area.
	ErrLocked = errors.New("backups area is locked by another process")
	// ErrNested is returned when the backups area lies inside the folder
	// to snapshot or restore: replacing or renaming that folder would
	// take the snapshots with it.
	ErrNested = errors.New("backups area lies inside the folder")
)

// Manager owns the backups area.
type Manager struct {
	Dir string
	now func() time.Time
}

// Error is a failed snapshot or restore: a failed snapshot
// leaves nothing behind in the backups area.
type Error struct {
	Op  string
	Src string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("cannot %s %s: %v", e.Op, e.Src, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func New(dir string) *Manager {
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}
	return &Manager{Dir: dir, now: time.Now}
}

// Lock takes an exclusive lock over the backups area,
// failing fast with ErrLocked if another process holds it.
func (manager *Manager) Lock() (unlock func() error, err error) {
	if err := os.MkdirAll(manager.Dir, 0o755); err != nil {
		return nil, err
	}
	lock := flock.New(filepath.Join(manager.Dir, lockName))
	ok, err := lock.TryLock()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrLocked
	}
	return lock.Unlock, nil
}

// Snapshot copies src in full into a new directory of the backups area,
// then durably writes the manifest. On any failure, the partial copy
// is removed and an *Error returned.
func (manager *Manager) Snapshot(src string) (*Manifest, error) {
	src, err := filepath.Abs(src)
	if err != nil {
		return nil, &Error{Op: "snapshot", Src: src, Err: err}
	}
	if info, err := os.Stat(src); err != nil {
		return nil, &Error{Op: "snapshot", Src: src, Err: err}
	} else if !info.IsDir() {
		return nil, &Error{Op: "snapshot", Src: src, Err: fmt.Errorf("not a directory")}
	}
	if util.Within(manager.Dir, src) {
		return nil, &Error{Op: "snapshot", Src: src, Err: ErrNested}
	}

	if err := os.MkdirAll(manager.Dir, 0o755); err != nil {
		return nil, &Error{Op: "snapshot", Src: src, Err: err}
	}

	timestamp := manager.now().Format(TimestampFormat)
	dst := manager.target(fmt.Sprintf("%s%s_%s", prefix, filepath.Base(src), timestamp))

	manifest, err := manager.snapshot(src, dst, timestamp)
	if err != nil {
		util.ErrSuppress(os.RemoveAll(dst))
		return nil, &Error{Op: "snapshot", Src: src, Err: err}
	}
	return manifest, nil
}

func (manager *Manager) snapshot(src, dst, timestamp string) (*Manifest, error) {
	manifest := &Manifest{
		OriginalFolder: src,
		BackupFolder:   dst,
		Timestamp:      timestamp,
		Files:          []string{},
	}

	if err := util.CopyTree(src, dst, func(rel string, d fs.DirEntry) bool {
		if !d.IsDir() && entity.IsTrack(d.Name()) {
			manifest.Files = append(manifest.Files, rel)
		}
		return false
	}); err != nil {
		return nil, err
	}

	data, err := manifest.encode()
	if err != nil {
		return nil, err
	}
	if err := util.WriteFileAtomic(dst, ManifestName, data); err != nil {
		return nil, err
	}
	return manifest, nil
}

// target returns the first name, among name, name_2, name_3 and so on,
// which does not exist in the backups area yet.
func (manager *Manager) target(name string) string {
	path := filepath.Join(manager.Dir, name)
	for i := 2; ; i++ {
		if _, err := os.Lstat(path); errors.Is(err, fs.ErrNotExist) {
			return path
		}
		path = filepath.Join(manager.Dir, fmt.Sprintf("%s_%d", name, i))
	}
}

// Restore puts the snapshot in dir back where it was taken from.
// The manifest is validated before anything gets deleted, and the snapshot
// is fully staged next to the original folder before the latter is replaced.
// Asking for confirmation is up to the caller.
func (manager *Manager) Restore(dir string) (*Manifest, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return nil, &ValidationError{Dir: dir, Reason: "invalid path", Err: err}
	}
	manifest, err := ReadManifest(dir)
	if err != nil {
		return nil, err
	}
	if util.Within(manager.Dir, filepath.Clean(manifest.OriginalFolder)) {
		return nil, &Error{Op: "restore", Src: dir, Err: ErrNested}
	}

	var (
		original = manifest.OriginalFolder
		staging  = fmt.Sprintf("%s.restore-%s", original, randstr.Hex(8))
	)
	if err := os.MkdirAll(filepath.Dir(original), 0o755); err != nil {
		return nil, &Error{Op: "restore", Src: dir, Err: err}
	}
	if err := util.CopyTree(dir, staging, func(rel string, _ fs.DirEntry) bool {
		return rel == ManifestName
	}); err != nil {
		util.ErrSuppress(os.RemoveAll(staging))
		return nil, &Error{Op: "restore", Src: dir, Err: err}
	}

	if err := os.RemoveAll(original); err != nil {
		util.ErrSuppress(os.RemoveAll(staging))
		return nil, &Error{Op: "restore", Src: dir, Err: err}
	}
	if err := os.Rename(staging, original); err != nil {
		return nil, &Error{Op: "restore", Src: dir, Err: fmt.Errorf("restored copy left at %s: %w", staging, err)}
	}
	return manifest, nil
}

// List returns the manifests of the snapshots in the backups area,
// newest first. Snapshots without a valid manifest are left out.
func (manager *Manager) List() ([]*Manifest, error) {
	entries, err := os.ReadDir(manager.Dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	} else if err != nil {
		return nil, err
	}

	var manifests []*Manifest
	for _, entry := range entries {
		if !entry.IsDir() || !strings.HasPrefix(entry.Name(), prefix) {
			continue
		}
		manifest, err := ReadManifest(filepath.Join(manager.Dir, entry.Name()))
		if err != nil {
			continue
		}
		manifests = append(manifests, manifest)
	}

	sort.SliceStable(manifests, func(i, j int) bool {
		if manifests[i].Timestamp != manifests[j].Timestamp {
			return manifests[i].Timestamp > manifests[j].Timestamp
		}
		return manifests[i].BackupFolder > manifests[j].BackupFolder
	})
	return manifests, nil
}
