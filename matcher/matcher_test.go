package matcher

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/streambinder/albumfix/catalog"
	"github.com/streambinder/albumfix/catalog/catalogtest"
	"github.com/streambinder/albumfix/entity"
	"github.com/streambinder/albumfix/entity/entitytest"
	"github.com/streambinder/albumfix/processor"
	"github.com/streambinder/albumfix/util"
)

var (
	png  = []byte{0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a}
	jpeg = []byte{0xff, 0xd8, 0xff, 0xe0}
)

type covers struct {
	data  []byte
	err   error
	calls int
}

func (covers *covers) Fetch(context.Context, string) ([]byte, error) {
	covers.calls++
	return covers.data, covers.err
}

func views() *entity.CatalogAlbum {
	return &entity.CatalogAlbum{
		ID:       "views",
		Name:     "Views",
		Artists:  []string{"Drake"},
		CoverURL: "http://cover/views",
		Tracks: []entity.CatalogTrack{
			{Number: 1, Name: "Keep The Family Close", Artists: []string{"Drake"}},
			{Number: 7, Name: "Hype", Artists: []string{"Drake"}},
			{Number: 12, Name: "One Dance", Artists: []string{"Drake", "Wizkid", "Kyla"}},
		},
	}
}

func fixture() (Matcher, *catalogtest.Fake, *entitytest.Tagger, *covers) {
	var (
		lookup = catalogtest.New()
		tagger = entitytest.New()
		art    = &covers{data: jpeg}
	)
	return Matcher{Lookup: lookup, Tagger: tagger, Covers: art}, lookup, tagger, art
}

func TestRatio(t *testing.T) {
	assert.Equal(t, 1.0, Ratio("Hype", "hype"))
	assert.Equal(t, 1.0, Ratio("", ""))
	assert.Equal(t, 0.0, Ratio("abc", ""))
	assert.InDelta(t, 0.8, Ratio("hello", "hallo"), 1e-9)
	// composed and decomposed forms compare equal
	assert.Equal(t, 1.0, Ratio("Beyonc\u00e9", "Beyonce\u0301"))
}

func TestBest(t *testing.T) {
	tracks := views().Tracks

	track, ratio, ok := Best("hype", tracks, DefaultThreshold)
	require.True(t, ok)
	assert.Equal(t, 7, track.Number)
	assert.Equal(t, 1.0, ratio)

	_, ratio, ok = Best("Completely Unrelated", tracks, DefaultThreshold)
	assert.False(t, ok)
	assert.LessOrEqual(t, ratio, DefaultThreshold)

	_, _, ok = Best("Hype", nil, DefaultThreshold)
	assert.False(t, ok)
}

func TestBestThresholdIsExclusive(t *testing.T) {
	// "abcde" vs "abxyz": 3 edits over 5 runes, exactly 0.4
	var (
		tracks    = []entity.CatalogTrack{{Number: 1, Name: "abxyz"}}
		threshold = Ratio("abcde", "abxyz")
	)
	assert.InDelta(t, 0.4, threshold, 1e-9)
	_, _, ok := Best("abcde", tracks, threshold)
	assert.False(t, ok)

	_, _, ok = Best("abcde", tracks, 0.39)
	assert.True(t, ok)
}

func TestBestTiesKeepFirst(t *testing.T) {
	tracks := []entity.CatalogTrack{
		{Number: 3, Name: "Track A"},
		{Number: 4, Name: "Track A"},
	}
	track, _, ok := Best("track a", tracks, DefaultThreshold)
	require.True(t, ok)
	assert.Equal(t, 3, track.Number)
}

func TestTitle(t *testing.T) {
	matcher, lookup, _, _ := fixture()
	lookup.Tracks["artist:Drake track:Hype"] = []catalog.TrackHit{{Name: "Hype (Album Version)"}}

	title, err := matcher.Title(context.Background(), &entity.TrackFile{
		Path: "/music/x.mp3",
		Tags: entity.Tags{Title: util.Ptr("07 - Hype")},
	})
	assert.NoError(t, err)
	assert.Equal(t, "Hype", title)
	assert.Empty(t, lookup.TrackQueries)

	title, err = matcher.Title(context.Background(), entity.NewTrackFile("/music/07 - Drake - Hype [HQ].mp3"))
	assert.NoError(t, err)
	assert.Equal(t, "Hype (Album Version)", title)

	title, err = matcher.Title(context.Background(), entity.NewTrackFile("/music/Drake - One Dance.mp3"))
	assert.NoError(t, err)
	assert.Equal(t, "One Dance", title)

	lookup.Failing["Keep The Family Close"] = true
	title, err = matcher.Title(context.Background(), entity.NewTrackFile("/music/Keep The Family Close.mp3"))
	var transient *catalog.TransientError
	assert.ErrorAs(t, err, &transient)
	assert.Equal(t, "Keep The Family Close", title)
}

func TestMatch(t *testing.T) {
	matcher, _, tagger, art := fixture()
	file := entity.NewTrackFile("/music/Views/onedance.mp3")
	file.Tags.Title = util.Ptr("01 - One Dnce")

	result := matcher.Match(context.Background(), file, views(), "Drake")
	require.True(t, result.Matched)
	assert.Equal(t, 12, result.Number)
	assert.Equal(t, "One Dance", result.Title)
	assert.NoError(t, result.TagErr)
	assert.NoError(t, result.CoverErr)

	stored := tagger.Tags[file.Path]
	assert.Equal(t, "One Dance", stored.TitleOrEmpty())
	assert.Equal(t, 12, stored.Number())
	assert.Equal(t, "Drake", stored.ArtistOrEmpty())
	assert.Equal(t, "Views", stored.AlbumOrEmpty())
	assert.Equal(t, stored, file.Tags)

	assert.Equal(t, entitytest.Cover{Data: jpeg, MimeType: processor.MimeJPEG}, tagger.Covers[file.Path])
	assert.Equal(t, 1, art.calls)
}

func TestMatchKeepsExistingArtistAndAlbum(t *testing.T) {
	matcher, _, tagger, _ := fixture()
	file := entity.NewTrackFile("/music/Views/hype.mp3")
	file.Tags = entity.Tags{Title: util.Ptr("Hype"), Artist: util.Ptr("Drake feat. Nobody"), Album: util.Ptr("VIEWS")}

	matcher.Match(context.Background(), file, views(), "Fallback")
	assert.Nil(t, tagger.Tags[file.Path].Artist)
	assert.Nil(t, tagger.Tags[file.Path].Album)
	assert.Equal(t, "Drake feat. Nobody", file.Tags.ArtistOrEmpty())
}

func TestMatchUnmatched(t *testing.T) {
	matcher, _, tagger, art := fixture()
	art.data = png
	file := entity.NewTrackFile("/music/Views/Interlude.mp3")

	result := matcher.Match(context.Background(), file, views(), "Drake")
	assert.False(t, result.Matched)
	assert.Nil(t, result.Track)
	assert.Equal(t, entity.UnmatchedNumber, result.Number)
	assert.Equal(t, "Interlude", result.Title)

	stored := tagger.Tags[file.Path]
	assert.Equal(t, entity.UnmatchedNumber, stored.Number())
	assert.Equal(t, "Interlude", stored.TitleOrEmpty())
	assert.Equal(t, "Drake", stored.ArtistOrEmpty())
	// the cover is embedded even if the file was not recognized
	assert.Equal(t, processor.MimePNG, tagger.Covers[file.Path].MimeType)
}

func TestMatchUnmatchedKeepsTitle(t *testing.T) {
	matcher, _, tagger, _ := fixture()
	file := entity.NewTrackFile("/music/Views/x.mp3")
	file.Tags.Title = util.Ptr("Something Else Entirely")

	result := matcher.Match(context.Background(), file, views(), "Drake")
	assert.False(t, result.Matched)
	assert.Nil(t, tagger.Tags[file.Path].Title)
	assert.Equal(t, "Something Else Entirely", file.Tags.TitleOrEmpty())
}

func TestMatchFailures(t *testing.T) {
	matcher, _, tagger, art := fixture()
	art.err = errors.New("cdn down")
	file := entity.NewTrackFile("/music/Views/hype.mp3")
	tagger.Failing[file.Path] = true

	result := matcher.Match(context.Background(), file, views(), "Drake")
	assert.True(t, result.Matched)
	var tagErr *entity.TagError
	assert.ErrorAs(t, result.TagErr, &tagErr)
	assert.EqualError(t, result.CoverErr, "cdn down")
	assert.Nil(t, file.Tags.TrackNumber)
}

func TestMatchWithoutCover(t *testing.T) {
	matcher, _, tagger, art := fixture()
	album := views()
	album.CoverURL = ""
	file := entity.NewTrackFile("/music/Views/hype.mp3")

	result := matcher.Match(context.Background(), file, album, "Drake")
	assert.NoError(t, result.CoverErr)
	assert.Zero(t, art.calls)
	assert.Empty(t, tagger.Covers)
}
