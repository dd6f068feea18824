package entity

import (
	"regexp"
	"strings"
)

var collaboration = regexp.MustCompile(`(?i)[,&]|\bfeat\b\.?|\bft\b\.?`)

// BaseArtist strips featuring and collaboration suffixes off a credit:
// > Drake feat. Rihanna -> Drake
// > A, B & C            -> A
func BaseArtist(artist string) string {
	if loc := collaboration.FindStringIndex(artist); loc != nil {
		artist = artist[:loc[0]]
	}
	return strings.TrimSpace(artist)
}

// MostFrequent returns the value occurring the most,
// ties going to the one encountered first.
func MostFrequent(values []string) string {
	var (
		counts    = make(map[string]int, len(values))
		best      string
		bestCount int
	)
	for _, value := range values {
		counts[value]++
	}
	for _, value := range values {
		if counts[value] > bestCount {
			best, bestCount = value, counts[value]
		}
	}
	return best
}
