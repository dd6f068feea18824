package cmd

import (
	"path/filepath"

	"github.com/streambinder/albumfix/entity"
	"github.com/streambinder/albumfix/pipeline"
	"github.com/streambinder/albumfix/util"
	"github.com/streambinder/albumfix/util/anchor"
)

// progress renders the pipeline advancement on the terminal window,
// one lot per album.
type progress struct {
	window *anchor.Window
	lot    *anchor.Lot
}

func newProgress(window *anchor.Window) *progress {
	return &progress{window: window}
}

func (progress *progress) OnAlbumStart(album *entity.AlbumCandidate) {
	progress.lot = progress.window.Lot(album.Name())
	progress.lot.Printf("%s by %s", album.Album, album.Artist)
}

func (progress *progress) OnTransition(_ *entity.AlbumCandidate, status entity.Status) {
	progress.lot.Print(status)
}

func (progress *progress) OnFile(_ *entity.AlbumCandidate, file pipeline.FileReport) {
	progress.lot.Printf("%s -> %s", filepath.Base(file.Src), filepath.Base(file.Dst))
	for _, err := range file.Errors {
		progress.window.AnchorPrintf("%s: %s", filepath.Base(file.Src), util.Excerpt(err, 120))
	}
}

func (progress *progress) OnAlbumDone(album *entity.AlbumCandidate, report pipeline.AlbumReport) {
	if report.Status.Failed() {
		progress.lot.Wipe()
		progress.window.AnchorPrintf("%s: %s (%s)", album.Name(), report.Status.Label(), util.Excerpt(report.Error, 120))
		return
	}
	progress.lot.Close(report.Status.Label())
}
