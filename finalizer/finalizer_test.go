package finalizer

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/streambinder/albumfix/entity"
	"github.com/streambinder/albumfix/entity/id3"
	"github.com/streambinder/albumfix/util"
)

var tagger = id3.Tagger{}

func track(t *testing.T, dir, name string, tags entity.Tags) *entity.TrackFile {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, bytes.Repeat([]byte{0xff, 0xfb, 0x90, 0x00}, 64), 0o644))
	require.NoError(t, tagger.Write(path, tags))
	return entity.NewTrackFile(path)
}

func tags(title, artist string, number int) entity.Tags {
	return entity.Tags{Title: util.Ptr(title), Artist: util.Ptr(artist), TrackNumber: util.Ptr(number)}
}

func listing(t *testing.T, dir string) []string {
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	return names
}

func TestOrder(t *testing.T) {
	dir := t.TempDir()
	files := []*entity.TrackFile{
		track(t, dir, "a.mp3", tags("Interlude", "Drake", entity.UnmatchedNumber)),
		track(t, dir, "b.mp3", tags("Hype", "Drake", 7)),
		track(t, dir, "c.mp3", entity.Tags{Title: util.Ptr("Untagged")}),
		track(t, dir, "d.mp3", tags("Keep The Family Close", "Drake", 1)),
	}

	ordered := Finalizer{tagger}.Order(files)
	assert.Equal(t, []*entity.TrackFile{files[3], files[1], files[0], files[2]}, ordered)
	assert.Equal(t, "Hype", files[1].Tags.TitleOrEmpty())
}

func TestFinalize(t *testing.T) {
	dir := t.TempDir()
	files := []*entity.TrackFile{
		track(t, dir, "zzz.mp3", tags("Interlude", "Drake", entity.UnmatchedNumber)),
		track(t, dir, "hype.mp3", tags("07 - Hype", "Drake", 7)),
		track(t, dir, "family.mp3", tags("Keep The Family Close", "01 - Drake", 1)),
		track(t, dir, "dance.mp3", tags("One Dance: Remix?", "Drake", 12)),
	}

	result := Finalizer{tagger}.Finalize(dir, files)
	assert.Empty(t, result.Errors())
	assert.Equal(t, 4, result.Renamed())
	assert.ElementsMatch(t, []string{
		"01 - Drake - Keep The Family Close.mp3",
		"02 - Drake - Hype.mp3",
		"03 - Drake - One Dance Remix.mp3",
		"04 - Drake - Interlude.mp3",
	}, listing(t, dir))

	// the unmatched file comes last, whatever its original name
	last := result.Outcomes[3]
	assert.Equal(t, files[0], last.File)
	assert.Equal(t, 4, last.Position)

	stored, err := tagger.Read(filepath.Join(dir, "02 - Drake - Hype.mp3"))
	require.NoError(t, err)
	assert.Equal(t, "02 - Hype", stored.TitleOrEmpty())
	assert.Equal(t, 2, stored.Number())
	assert.Equal(t, filepath.Join(dir, "02 - Drake - Hype.mp3"), files[1].Path)
}

func TestFinalizeIdempotent(t *testing.T) {
	dir := t.TempDir()
	files := []*entity.TrackFile{
		track(t, dir, "b.mp3", tags("TrackA", "Artist", 2)),
		track(t, dir, "a.mp3", tags("TrackB", "Artist", 1)),
	}

	finalizer := Finalizer{tagger}
	first := finalizer.Finalize(dir, files)
	assert.Equal(t, 2, first.Renamed())
	before := listing(t, dir)

	second := finalizer.Finalize(dir, files)
	assert.Zero(t, second.Renamed())
	assert.Empty(t, second.Errors())
	assert.Equal(t, before, listing(t, dir))

	stored, err := tagger.Read(filepath.Join(dir, "01 - Artist - TrackB.mp3"))
	require.NoError(t, err)
	assert.Equal(t, "01 - TrackB", stored.TitleOrEmpty())
}

func TestFinalizeCollision(t *testing.T) {
	dir := t.TempDir()
	files := []*entity.TrackFile{track(t, dir, "hype.mp3", tags("Hype", "Drake", 7))}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "01 - Drake - Hype.mp3"), []byte("squatter"), 0o644))

	result := Finalizer{tagger}.Finalize(dir, files)
	require.Len(t, result.Outcomes, 1)
	assert.ErrorIs(t, result.Outcomes[0].RenameErr, util.ErrRenameCollision)
	assert.False(t, result.Outcomes[0].Renamed)
	assert.Equal(t, filepath.Join(dir, "hype.mp3"), files[0].Path)

	// tag changes are kept
	stored, err := tagger.Read(filepath.Join(dir, "hype.mp3"))
	require.NoError(t, err)
	assert.Equal(t, "01 - Hype", stored.TitleOrEmpty())
	squatter, err := os.ReadFile(filepath.Join(dir, "01 - Drake - Hype.mp3"))
	require.NoError(t, err)
	assert.Equal(t, "squatter", string(squatter))
}

func TestFinalizeTagFailure(t *testing.T) {
	dir := t.TempDir()
	files := []*entity.TrackFile{
		track(t, dir, "hype.mp3", tags("Hype", "Drake", 1)),
		entity.NewTrackFile(filepath.Join(dir, "vanished.mp3")),
	}
	files[1].Tags = tags("Gone", "Drake", 2)

	result := Finalizer{tagger}.Finalize(dir, files)
	require.Len(t, result.Outcomes, 2)
	assert.NoError(t, result.Outcomes[0].TagErr)
	assert.True(t, result.Outcomes[0].Renamed)

	var tagErr *entity.TagError
	assert.ErrorAs(t, result.Outcomes[1].TagErr, &tagErr)
	var renameErr *util.RenameError
	assert.ErrorAs(t, result.Outcomes[1].RenameErr, &renameErr)
	assert.Len(t, result.Errors(), 2)
}

func TestRenameDir(t *testing.T) {
	var (
		root      = t.TempDir()
		dir       = filepath.Join(root, "views-rip")
		finalizer = Finalizer{tagger}
	)
	require.NoError(t, os.Mkdir(dir, 0o755))

	renamed, err := finalizer.RenameDir(dir, "Drake", "Views: Deluxe")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "Drake - Views Deluxe"), renamed)
	assert.DirExists(t, renamed)
	assert.NoDirExists(t, dir)

	again, err := finalizer.RenameDir(renamed, "Drake", "Views: Deluxe")
	require.NoError(t, err)
	assert.Equal(t, renamed, again)

	other := filepath.Join(root, "other")
	require.NoError(t, os.Mkdir(other, 0o755))
	unchanged, err := finalizer.RenameDir(other, "Drake", "Views: Deluxe")
	assert.ErrorIs(t, err, util.ErrRenameCollision)
	assert.Equal(t, other, unchanged)
}
