package cmd

import (
	"context"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/streambinder/albumfix/catalog"
	"github.com/streambinder/albumfix/classifier"
	"github.com/streambinder/albumfix/entity"
	"github.com/streambinder/albumfix/entity/id3"
	"github.com/streambinder/albumfix/scanner"
	"github.com/streambinder/albumfix/spotify"
	"github.com/streambinder/albumfix/util"
)

// folders a process run would take or leave out
const (
	labelReady   = "Ready"
	labelSkipped = "Skipped"
)

func init() {
	cmdRoot.AddCommand(cmdScan())
}

func cmdScan() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "scan",
		Short:        "Detect album folders in the library, without touching them",
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			root, err := filepath.Abs(library(cmd))
			if err != nil {
				return err
			}

			client, err := authenticate(cmd.Context())
			if err != nil {
				return err
			}

			nodes, err := scanLibrary(cmd.Context(), root, client)
			if err != nil {
				return err
			}

			var rows [][]string
			for _, node := range entity.Flatten(nodes) {
				label := labelSkipped
				if node.IsAlbum && len(node.Artist) > 0 {
					label = labelReady
				}
				rows = append(rows, []string{
					relative(root, node.Dir),
					node.Album,
					node.Artist,
					strconv.Itoa(len(node.Files)),
					label,
					util.Excerpt(strings.Join(node.Notes, "; "), 60),
				})
			}
			if len(rows) == 0 {
				tui.Printf("no audio folder found in %s", root)
				return nil
			}
			tui.Print(renderTable(
				[]column{left("Folder"), left("Album"), left("Artist"), right("Files"), outcome("Status"), left("Notes")},
				rows,
			))
			return nil
		},
	}
	addLibraryFlag(cmd.Flags())
	return cmd
}

func authenticate(ctx context.Context) (*spotify.Client, error) {
	if err := cfg.RequireCredentials(); err != nil {
		return nil, err
	}
	lot := tui.Lot("auth")
	lot.Print("authenticating")
	defer lot.Wipe()
	return spotify.Authenticate(ctx, cfg.Spotify.ClientID, cfg.Spotify.ClientSecret, cfg.Spotify.Market)
}

// scanLibrary walks the library, leaving the backups area out,
// and classifies every folder holding audio files.
func scanLibrary(ctx context.Context, root string, lookup catalog.Lookup) ([]*entity.AlbumCandidate, error) {
	lot := tui.Lot("scan")
	defer lot.Wipe()

	lot.Printf("scanning %s", root)
	nodes, err := scanner.Scan(root, cfg.Backup.Dir)
	if err != nil {
		return nil, err
	}

	lot.Printf("classifying %d folders", len(entity.Flatten(nodes)))
	classifier.Classifier{Lookup: lookup, Tagger: id3.Tagger{}}.ClassifyTree(ctx, nodes)
	return nodes, nil
}

func relative(root, path string) string {
	if rel, err := filepath.Rel(root, path); err == nil {
		return rel
	}
	return path
}
