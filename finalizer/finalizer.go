package finalizer

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/streambinder/albumfix/entity"
	"github.com/streambinder/albumfix/util"
)

// Finalizer gives the files of an album their final
// position, title and name, and names the album directory.
type Finalizer struct {
	Tagger entity.Tagger
}

// Outcome is what happened to a single file during finalization.
type Outcome struct {
	File     *entity.TrackFile
	Position int
	From     string
	To       string
	Renamed  bool
	TagErr   error
	// RenameErr is either a collision (util.ErrRenameCollision)
	// or an OS level failure (*util.RenameError)
	RenameErr error
}

type Result struct {
	Outcomes []Outcome
}

// Renamed counts the files actually moved.
func (result Result) Renamed() int {
	var count int
	for _, outcome := range result.Outcomes {
		if outcome.Renamed {
			count++
		}
	}
	return count
}

// Errors returns every failure recorded, file by file.
func (result Result) Errors() []error {
	var errs []error
	for _, outcome := range result.Outcomes {
		if outcome.TagErr != nil {
			errs = append(errs, outcome.TagErr)
		}
		if outcome.RenameErr != nil {
			errs = append(errs, outcome.RenameErr)
		}
	}
	return errs
}

// Order refreshes the tags of files and returns them sorted by track
// number: files without one (or unmatched) keep their relative order
// after every numbered one.
func (finalizer Finalizer) Order(files []*entity.TrackFile) []*entity.TrackFile {
	for _, file := range files {
		if tags, err := finalizer.Tagger.Read(file.Path); err == nil {
			file.Tags = tags
		}
	}

	ordered := append([]*entity.TrackFile{}, files...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Tags.Number() < ordered[j].Tags.Number()
	})
	return ordered
}

// Finalize numbers files 1..N in track number order, titles them
// "NN - Title" and renames them "NN - Artist - Title.mp3" within dir.
// Failures are per file: a failed tag write does not prevent the rename,
// and a failed rename keeps the tag changes.
func (finalizer Finalizer) Finalize(dir string, files []*entity.TrackFile) Result {
	var result Result
	for i, file := range finalizer.Order(files) {
		position := i + 1
		outcome := Outcome{File: file, Position: position, From: file.Path}

		tags := entity.Tags{
			Title:       util.Ptr(fmt.Sprintf("%02d - %s", position, entity.StripNumberPrefix(file.Tags.TitleOrEmpty()))),
			TrackNumber: util.Ptr(position),
		}
		outcome.To = filepath.Join(dir, file.Paths().Final(position))
		if err := finalizer.Tagger.Write(file.Path, tags); err != nil {
			outcome.TagErr = err
		} else {
			file.Tags.Title, file.Tags.TrackNumber = tags.Title, tags.TrackNumber
		}

		if filepath.Clean(outcome.From) != filepath.Clean(outcome.To) {
			if err := util.Rename(outcome.From, outcome.To); err != nil {
				outcome.RenameErr = err
			} else {
				file.Path, outcome.Renamed = outcome.To, true
			}
		}
		result.Outcomes = append(result.Outcomes, outcome)
	}
	return result
}

// DirName is the name an album directory is given.
func DirName(artist, album string) string {
	return util.LegalizeFilename(fmt.Sprintf("%s - %s", artist, album))
}

// RenameDir renames dir after the album artist and name, in place,
// returning its new path. It is a no-op if dir is already named so.
func (Finalizer) RenameDir(dir, artist, album string) (string, error) {
	target := filepath.Join(filepath.Dir(dir), DirName(artist, album))
	if filepath.Clean(target) == filepath.Clean(dir) {
		return dir, nil
	}
	if err := util.Rename(dir, target); err != nil {
		return dir, err
	}
	return target, nil
}
