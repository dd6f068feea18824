package backup

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var clock = time.Date(2024, time.March, 9, 17, 4, 5, 0, time.Local)

func newManager(t *testing.T) *Manager {
	manager := New(filepath.Join(t.TempDir(), "backups"))
	manager.now = func() time.Time { return clock }
	return manager
}

func album(t *testing.T) string {
	dir := filepath.Join(t.TempDir(), "Views")
	files := map[string]string{
		"01 - Keep The Family Close.mp3": "first",
		"02 - Hype.MP3":                  "second",
		"cover.jpg":                      "jpeg",
		"CD2/01 - Bonus.mp3":             "bonus",
	}
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}

// tree maps every regular file under root to its content
func tree(t *testing.T, root string) map[string]string {
	files := make(map[string]string)
	require.NoError(t, filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		files[rel] = string(data)
		return nil
	}))
	return files
}

func TestSnapshot(t *testing.T) {
	var (
		manager = newManager(t)
		src     = album(t)
	)

	manifest, err := manager.Snapshot(src)
	require.NoError(t, err)
	assert.Equal(t, src, manifest.OriginalFolder)
	assert.Equal(t, filepath.Join(manager.Dir, "BACKUP_Views_20240309_170405"), manifest.BackupFolder)
	assert.Equal(t, "20240309_170405", manifest.Timestamp)
	assert.ElementsMatch(t, []string{
		"01 - Keep The Family Close.mp3",
		"02 - Hype.MP3",
		filepath.Join("CD2", "01 - Bonus.mp3"),
	}, manifest.Files)

	copied := tree(t, manifest.BackupFolder)
	assert.Contains(t, copied, ManifestName)
	delete(copied, ManifestName)
	assert.Equal(t, tree(t, src), copied)

	stored, err := ReadManifest(manifest.BackupFolder)
	require.NoError(t, err)
	assert.Equal(t, manifest, stored)

	timestamp, err := stored.Time()
	require.NoError(t, err)
	assert.True(t, clock.Equal(timestamp))
}

func TestSnapshotCollision(t *testing.T) {
	var (
		manager = newManager(t)
		src     = album(t)
	)

	first, err := manager.Snapshot(src)
	require.NoError(t, err)
	second, err := manager.Snapshot(src)
	require.NoError(t, err)
	third, err := manager.Snapshot(src)
	require.NoError(t, err)

	assert.Equal(t, "BACKUP_Views_20240309_170405", filepath.Base(first.BackupFolder))
	assert.Equal(t, "BACKUP_Views_20240309_170405_2", filepath.Base(second.BackupFolder))
	assert.Equal(t, "BACKUP_Views_20240309_170405_3", filepath.Base(third.BackupFolder))
}

func TestSnapshotFailure(t *testing.T) {
	manager := newManager(t)

	_, err := manager.Snapshot(filepath.Join(t.TempDir(), "missing"))
	var backupErr *Error
	require.ErrorAs(t, err, &backupErr)
	assert.ErrorIs(t, err, fs.ErrNotExist)

	if os.Geteuid() == 0 {
		t.Skip("permissions are not enforced for root")
	}
	src := album(t)
	require.NoError(t, os.Chmod(filepath.Join(src, "CD2"), 0o000))
	t.Cleanup(func() { _ = os.Chmod(filepath.Join(src, "CD2"), 0o755) })

	_, err = manager.Snapshot(src)
	require.ErrorAs(t, err, &backupErr)
	entries, err := os.ReadDir(manager.Dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestSnapshotNestedBackupsArea(t *testing.T) {
	src := album(t)
	manager := New(filepath.Join(src, "backups"))
	manager.now = func() time.Time { return clock }

	_, err := manager.Snapshot(src)
	var failure *Error
	require.ErrorAs(t, err, &failure)
	assert.ErrorIs(t, err, ErrNested)
	assert.NoDirExists(t, manager.Dir)
}

func TestRestoreNestedBackupsArea(t *testing.T) {
	var (
		library = filepath.Join(t.TempDir(), "Music")
		src     = filepath.Join(library, "Views")
		outside = New(filepath.Join(t.TempDir(), "backups"))
	)
	require.NoError(t, os.MkdirAll(src, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "01 - Hype.mp3"), []byte("hype"), 0o644))
	outside.now = func() time.Time { return clock }

	manifest, err := outside.Snapshot(src)
	require.NoError(t, err)

	// a manager whose area sits inside the original folder must leave it alone
	nested := New(filepath.Join(src, "backups"))
	require.NoError(t, os.MkdirAll(filepath.Join(nested.Dir, "BACKUP_other"), 0o755))
	_, err = nested.Restore(manifest.BackupFolder)
	assert.ErrorIs(t, err, ErrNested)
	assert.DirExists(t, filepath.Join(nested.Dir, "BACKUP_other"))
	assert.FileExists(t, filepath.Join(src, "01 - Hype.mp3"))
}

func TestRestoreRoundTrip(t *testing.T) {
	var (
		manager = newManager(t)
		src     = album(t)
		before  = tree(t, src)
	)

	manifest, err := manager.Snapshot(src)
	require.NoError(t, err)

	// mutate the original in every possible way
	require.NoError(t, os.Rename(filepath.Join(src, "02 - Hype.MP3"), filepath.Join(src, "07 - Drake - Hype.mp3")))
	require.NoError(t, os.WriteFile(filepath.Join(src, "01 - Keep The Family Close.mp3"), []byte("tagged"), 0o644))
	require.NoError(t, os.RemoveAll(filepath.Join(src, "CD2")))

	restored, err := manager.Restore(manifest.BackupFolder)
	require.NoError(t, err)
	assert.Equal(t, manifest, restored)
	assert.Equal(t, before, tree(t, src))
	assert.NoFileExists(t, filepath.Join(src, ManifestName))

	// no staging leftover next to the original
	siblings, err := os.ReadDir(filepath.Dir(src))
	require.NoError(t, err)
	assert.Len(t, siblings, 1)

	// the snapshot is still usable
	assert.Contains(t, tree(t, manifest.BackupFolder), ManifestName)
}

func TestRestoreMissingOriginal(t *testing.T) {
	var (
		manager = newManager(t)
		src     = album(t)
		before  = tree(t, src)
	)

	manifest, err := manager.Snapshot(src)
	require.NoError(t, err)
	require.NoError(t, os.RemoveAll(src))

	_, err = manager.Restore(manifest.BackupFolder)
	require.NoError(t, err)
	assert.Equal(t, before, tree(t, src))
}

func TestRestoreValidation(t *testing.T) {
	var (
		manager   = newManager(t)
		src       = album(t)
		before    = tree(t, src)
		validator *ValidationError
	)

	manifest, err := manager.Snapshot(src)
	require.NoError(t, err)

	manifestPath := filepath.Join(manifest.BackupFolder, ManifestName)
	for _, content := range []string{"{not json", `{"original_folder": "relative/path"}`} {
		require.NoError(t, os.WriteFile(manifestPath, []byte(content), 0o644))
		_, err = manager.Restore(manifest.BackupFolder)
		assert.ErrorAs(t, err, &validator)
	}

	require.NoError(t, os.Remove(manifestPath))
	_, err = manager.Restore(manifest.BackupFolder)
	require.ErrorAs(t, err, &validator)
	assert.Equal(t, "manifest is missing", validator.Reason)

	// nothing got deleted
	assert.Equal(t, before, tree(t, src))
}

func TestList(t *testing.T) {
	manager := newManager(t)

	manifests, err := manager.List()
	require.NoError(t, err)
	assert.Empty(t, manifests)

	older, err := manager.Snapshot(album(t))
	require.NoError(t, err)
	manager.now = func() time.Time { return clock.Add(time.Hour) }
	newer, err := manager.Snapshot(album(t))
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(filepath.Join(manager.Dir, "BACKUP_Broken_20240101_000000"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(manager.Dir, "unrelated"), 0o755))

	manifests, err = manager.List()
	require.NoError(t, err)
	require.Len(t, manifests, 2)
	assert.Equal(t, newer.BackupFolder, manifests[0].BackupFolder)
	assert.Equal(t, older.BackupFolder, manifests[1].BackupFolder)
}

func TestLock(t *testing.T) {
	manager := newManager(t)

	unlock, err := manager.Lock()
	require.NoError(t, err)

	_, err = New(manager.Dir).Lock()
	assert.True(t, errors.Is(err, ErrLocked))

	require.NoError(t, unlock())
	unlock, err = New(manager.Dir).Lock()
	require.NoError(t, err)
	assert.NoError(t, unlock())
}
