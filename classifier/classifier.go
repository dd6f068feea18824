package classifier

import (
	"context"

	"github.com/streambinder/albumfix/catalog"
	"github.com/streambinder/albumfix/entity"
)

// SearchLimit bounds the track searches issued for untagged files:
// only the top hit is ever looked at.
const SearchLimit = 3

// Classifier tells album directories apart from loose collections,
// gathering evidence from existing tags first and the catalog then.
type Classifier struct {
	Lookup catalog.Lookup
	Tagger entity.Tagger
}

// evidence keeps the distinct values observed, in insertion order
type evidence struct {
	values []string
	seen   map[string]bool
}

func (set *evidence) add(value string) {
	if set.seen == nil {
		set.seen = make(map[string]bool)
	}
	if !set.seen[value] {
		set.seen[value] = true
		set.values = append(set.values, value)
	}
}

// Classify fills in the album flag and the album and artist names of node.
// It never fails: unreadable tags and failed searches only cost the
// corresponding file its evidence, and are recorded into the node notes.
func (classifier Classifier) Classify(ctx context.Context, node *entity.AlbumCandidate) {
	var albums, artists evidence
	for _, file := range node.Files {
		album, artist, ok := classifier.observe(ctx, node, file)
		if !ok {
			continue
		}
		albums.add(album)
		artists.add(artist)
	}

	node.IsAlbum = len(albums.values) == 1 && len(node.Files) >= 2
	if len(albums.values) > 0 {
		node.Album = albums.values[0]
	}

	bases := make([]string, 0, len(artists.values))
	for _, artist := range artists.values {
		bases = append(bases, entity.BaseArtist(artist))
	}
	node.Artist = entity.MostFrequent(bases)
}

// ClassifyTree classifies every node of the forest, in pre-order.
func (classifier Classifier) ClassifyTree(ctx context.Context, nodes []*entity.AlbumCandidate) {
	for _, node := range entity.Flatten(nodes) {
		classifier.Classify(ctx, node)
	}
}

func (classifier Classifier) observe(ctx context.Context, node *entity.AlbumCandidate, file *entity.TrackFile) (album, artist string, ok bool) {
	tags, err := classifier.Tagger.Read(file.Path)
	if err != nil {
		node.Notes = append(node.Notes, err.Error())
	} else {
		file.Tags = tags
		if album, artist = tags.AlbumOrEmpty(), tags.ArtistOrEmpty(); len(album) > 0 && len(artist) > 0 {
			return album, artist, true
		}
	}

	query := entity.ParseQuery(entity.CleanName(file.Stem()))
	if len(query.Text) == 0 {
		return "", "", false
	}

	hits, err := classifier.Lookup.SearchTracks(ctx, query.String(), SearchLimit)
	if err != nil {
		node.Notes = append(node.Notes, (&catalog.TransientError{Query: query.String(), Err: err}).Error())
		return "", "", false
	}
	if len(hits) == 0 {
		return "", "", false
	}

	album, artist = hits[0].Album, hits[0].Artist()
	return album, artist, len(album) > 0 && len(artist) > 0
}
