package scanner

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/streambinder/albumfix/entity"
)

// Scan walks root and returns the forest of album candidates found:
// one node per directory holding at least one track, nested under
// the closest ancestor node. Directories whose absolute path is listed
// in skip are not descended into, nor are hidden ones.
func Scan(root string, skip ...string) ([]*entity.AlbumCandidate, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	excluded := make(map[string]bool, len(skip))
	for _, path := range skip {
		if abs, err := filepath.Abs(path); err == nil {
			excluded[abs] = true
		}
	}
	return scan(root, excluded)
}

func scan(dir string, excluded map[string]bool) ([]*entity.AlbumCandidate, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var (
		files    []*entity.TrackFile
		children []*entity.AlbumCandidate
	)
	// entries come sorted by name
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		switch {
		case entry.IsDir():
			if strings.HasPrefix(entry.Name(), ".") || excluded[path] {
				continue
			}
			nodes, err := scan(path, excluded)
			if err != nil {
				return nil, err
			}
			children = append(children, nodes...)
		case entry.Type().IsRegular() && entity.IsTrack(entry.Name()):
			files = append(files, entity.NewTrackFile(path))
		}
	}

	if len(files) == 0 {
		return children, nil
	}
	node := entity.NewAlbumCandidate(dir)
	node.Files = files
	node.Children = children
	return []*entity.AlbumCandidate{node}, nil
}
