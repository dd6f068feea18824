// Package pipeline takes album directories through
// snapshot, catalog resolution, matching and finalization.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/streambinder/albumfix/backup"
	"github.com/streambinder/albumfix/catalog"
	"github.com/streambinder/albumfix/entity"
	"github.com/streambinder/albumfix/finalizer"
	"github.com/streambinder/albumfix/matcher"
)

var (
	errEmptyAlbum = errors.New("catalog album has no tracks")
	errNoArtist   = errors.New("album artist could not be determined")
)

// Observer is notified of the progress of a run.
type Observer interface {
	OnAlbumStart(album *entity.AlbumCandidate)
	OnTransition(album *entity.AlbumCandidate, status entity.Status)
	OnFile(album *entity.AlbumCandidate, file FileReport)
	OnAlbumDone(album *entity.AlbumCandidate, report AlbumReport)
}

// NopObserver ignores every notification.
type NopObserver struct{}

func (NopObserver) OnAlbumStart(*entity.AlbumCandidate) {}

func (NopObserver) OnTransition(*entity.AlbumCandidate, entity.Status) {}

func (NopObserver) OnFile(*entity.AlbumCandidate, FileReport) {}

func (NopObserver) OnAlbumDone(*entity.AlbumCandidate, AlbumReport) {}

// Runner processes albums one at a time, each one to completion:
// a resolver, and so its album cache, must not be shared by runners.
type Runner struct {
	Backups   *backup.Manager
	Resolver  *catalog.Resolver
	Matcher   matcher.Matcher
	Finalizer finalizer.Finalizer
	Observer  Observer

	now func() time.Time
}

func (runner *Runner) observer() Observer {
	if runner.Observer == nil {
		return NopObserver{}
	}
	return runner.Observer
}

func (runner *Runner) clock() time.Time {
	if runner.now == nil {
		return time.Now()
	}
	return runner.now()
}

// Run processes every album of the forest rooted at root, in pre-order.
// Failures are confined to the album they happen in. Cancelling ctx stops
// the run before the next album, never in the middle of one.
func (runner *Runner) Run(ctx context.Context, root string, nodes []*entity.AlbumCandidate) *Report {
	report := newReport(root, runner.clock())
	for _, node := range entity.Flatten(nodes) {
		if !node.IsAlbum {
			continue
		}
		if ctx.Err() != nil {
			report.Interrupted = true
			break
		}
		report.add(runner.process(ctx, node))
	}
	report.FinishedAt = runner.clock()
	return report
}

func (runner *Runner) process(ctx context.Context, node *entity.AlbumCandidate) AlbumReport {
	var (
		observer = runner.observer()
		report   = AlbumReport{Dir: node.Dir, Album: node.Album, Artist: node.Artist}
	)
	observer.OnAlbumStart(node)
	transition := func(status entity.Status) {
		node.Status = status
		report.Status = status
		observer.OnTransition(node, status)
	}
	done := func(status entity.Status, err error) AlbumReport {
		transition(status)
		if err != nil {
			report.Error = err.Error()
		}
		report.FinalDir = node.Dir
		report.Notes = append(report.Notes, node.Notes...)
		observer.OnAlbumDone(node, report)
		return report
	}

	// without an artist any same-named catalog album would be accepted
	if len(node.Artist) == 0 {
		return done(entity.ProcessingError, errNoArtist)
	}

	manifest, err := runner.Backups.Snapshot(node.Dir)
	if err != nil {
		return done(entity.BackupFailed, err)
	}
	report.Backup = manifest.BackupFolder
	transition(entity.BackedUp)

	id, err := runner.Resolver.Resolve(ctx, node.Album, node.Artist)
	runner.notes(node)
	if errors.Is(err, catalog.ErrNotFound) {
		return done(entity.CatalogNotFound, err)
	} else if err != nil {
		return done(entity.ProcessingError, err)
	}
	report.CatalogID = id

	album, err := runner.Resolver.Album(ctx, id)
	if err != nil {
		return done(entity.ProcessingError, fmt.Errorf("fetch album %s: %w", id, err))
	}
	if len(album.Tracks) == 0 {
		return done(entity.ProcessingError, fmt.Errorf("album %s: %w", id, errEmptyAlbum))
	}
	transition(entity.CatalogResolved)

	files := make(map[*entity.TrackFile]*FileReport, len(node.Files))
	for _, file := range node.Files {
		result := runner.Matcher.Match(ctx, file, album, node.Artist)
		fileReport := &FileReport{
			Src:     file.Path,
			Title:   result.Title,
			Number:  result.Number,
			Score:   result.Score,
			Matched: result.Matched,
		}
		fileReport.fail(result.LookupErr)
		fileReport.fail(result.TagErr)
		fileReport.fail(result.CoverErr)
		files[file] = fileReport
	}
	transition(entity.Matched)

	var (
		artist = runner.Resolver.AlbumArtist(ctx, id, node.Artist)
		result = runner.Finalizer.Finalize(node.Dir, node.Files)
	)
	runner.notes(node)

	if dir, err := runner.Finalizer.RenameDir(node.Dir, artist, node.Album); err != nil {
		node.Notes = append(node.Notes, err.Error())
	} else if dir != node.Dir {
		node.Rebase(node.Dir, dir)
	}

	for _, outcome := range result.Outcomes {
		fileReport := files[outcome.File]
		fileReport.Position = outcome.Position
		fileReport.Dst = outcome.File.Path
		fileReport.fail(outcome.TagErr)
		fileReport.fail(outcome.RenameErr)
		report.Files = append(report.Files, *fileReport)
		observer.OnFile(node, *fileReport)
	}
	return done(entity.Finalized, nil)
}

// notes moves the failures the resolver swallowed into the node notes.
func (runner *Runner) notes(node *entity.AlbumCandidate) {
	for _, err := range runner.Resolver.Notes() {
		node.Notes = append(node.Notes, err.Error())
	}
}
