package matcher

import (
	"context"

	"github.com/streambinder/albumfix/catalog"
	"github.com/streambinder/albumfix/entity"
	"github.com/streambinder/albumfix/processor"
	"github.com/streambinder/albumfix/util"
)

// SearchLimit bounds the track searches issued to guess a missing title.
const SearchLimit = 5

// Covers fetches cover artwork bytes.
type Covers interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Matcher associates local files to the tracks of a catalog album.
type Matcher struct {
	Lookup    catalog.Lookup
	Tagger    entity.Tagger
	Covers    Covers
	Threshold float64
}

func (matcher Matcher) threshold() float64 {
	if matcher.Threshold <= 0 || matcher.Threshold >= 1 {
		return DefaultThreshold
	}
	return matcher.Threshold
}

// Title derives the title to match the file against: its title tag
// if any, the top catalog hit for its file name otherwise, or, failing
// both, the file name itself. A failed search is returned alongside
// the derived title.
func (matcher Matcher) Title(ctx context.Context, file *entity.TrackFile) (string, error) {
	if title := entity.StripNumberPrefix(file.Tags.TitleOrEmpty()); len(title) > 0 {
		return title, nil
	}

	query := entity.ParseQuery(entity.StripNumberPrefix(entity.CleanName(file.Stem())))
	hits, err := matcher.Lookup.SearchTracks(ctx, query.String(), SearchLimit)
	if err != nil {
		return query.Fallback(), &catalog.TransientError{Query: query.String(), Err: err}
	}
	if len(hits) > 0 && len(hits[0].Name) > 0 {
		return hits[0].Name, nil
	}
	return query.Fallback(), nil
}

// Match recognizes file among the tracks of album and writes the outcome
// into its tags: the catalog track number (or the unmatched sentinel),
// the canonical title on match, and the artist and album when absent.
// The album cover gets embedded regardless of the match outcome.
// Failures are reported in the result, the file is never given up on.
func (matcher Matcher) Match(ctx context.Context, file *entity.TrackFile, album *entity.CatalogAlbum, fallbackArtist string) entity.MatchResult {
	result := entity.MatchResult{File: file, Number: entity.UnmatchedNumber}
	result.Title, result.LookupErr = matcher.Title(ctx, file)
	result.Track, result.Score, result.Matched = Best(result.Title, album.Tracks, matcher.threshold())

	var (
		tags   = entity.Tags{TrackNumber: util.Ptr(entity.UnmatchedNumber)}
		artist = fallbackArtist
	)
	if result.Matched {
		result.Number = result.Track.Number
		result.Title = result.Track.Name
		tags.TrackNumber = util.Ptr(result.Number)
		if len(result.Track.Artists) > 0 && len(result.Track.Artists[0]) > 0 {
			artist = result.Track.Artists[0]
		}
	}
	if result.Matched || len(file.Tags.TitleOrEmpty()) == 0 {
		tags.Title = util.Ptr(result.Title)
	}
	if len(file.Tags.ArtistOrEmpty()) == 0 && len(artist) > 0 {
		tags.Artist = util.Ptr(artist)
	}
	if len(file.Tags.AlbumOrEmpty()) == 0 && len(album.Name) > 0 {
		tags.Album = util.Ptr(album.Name)
	}

	if err := matcher.Tagger.Write(file.Path, tags); err != nil {
		result.TagErr = err
	} else {
		merge(&file.Tags, tags)
	}

	if len(album.CoverURL) > 0 {
		result.CoverErr = matcher.embedCover(ctx, file, album.CoverURL)
	}
	return result
}

func (matcher Matcher) embedCover(ctx context.Context, file *entity.TrackFile, url string) error {
	if matcher.Covers == nil {
		return nil
	}
	data, err := matcher.Covers.Fetch(ctx, url)
	if err != nil {
		return err
	}
	return matcher.Tagger.EmbedCover(file.Path, data, processor.MimeType(data))
}

// merge mirrors the fields written by a successful tag write.
func merge(into *entity.Tags, from entity.Tags) {
	if from.Title != nil {
		into.Title = from.Title
	}
	if from.Artist != nil {
		into.Artist = from.Artist
	}
	if from.Album != nil {
		into.Album = from.Album
	}
	if from.TrackNumber != nil {
		into.TrackNumber = from.TrackNumber
	}
}
