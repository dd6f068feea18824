package matcher

import (
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
	"github.com/streambinder/albumfix/entity"
	"golang.org/x/text/unicode/norm"
)

// DefaultThreshold is the similarity a title must strictly exceed to match.
const DefaultThreshold = 0.6

func normalize(value string) string {
	return strings.ToLower(norm.NFC.String(value))
}

// Ratio returns the similarity of a and b in [0, 1], case-insensitively:
// one minus their edit distance over the length of the longest.
func Ratio(a, b string) float64 {
	a, b = normalize(a), normalize(b)
	longest := utf8.RuneCountInString(a)
	if length := utf8.RuneCountInString(b); length > longest {
		longest = length
	}
	if longest == 0 {
		return 1
	}
	return 1 - float64(levenshtein.ComputeDistance(a, b))/float64(longest)
}

// Best returns the catalog track whose name is the most similar to title,
// the first one encountered winning ties, provided its ratio exceeds threshold.
func Best(title string, tracks []entity.CatalogTrack, threshold float64) (*entity.CatalogTrack, float64, bool) {
	var (
		best      *entity.CatalogTrack
		bestRatio = -1.0
	)
	for i := range tracks {
		if ratio := Ratio(title, tracks[i].Name); ratio > bestRatio {
			best, bestRatio = &tracks[i], ratio
		}
	}
	if best == nil || bestRatio <= threshold {
		return nil, bestRatio, false
	}
	return best, bestRatio, true
}
