package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/streambinder/albumfix/backup"
	"github.com/streambinder/albumfix/catalog"
	"github.com/streambinder/albumfix/downloader"
	"github.com/streambinder/albumfix/entity/id3"
	"github.com/streambinder/albumfix/finalizer"
	"github.com/streambinder/albumfix/matcher"
	"github.com/streambinder/albumfix/pipeline"
	"github.com/streambinder/albumfix/processor"
	"github.com/streambinder/albumfix/util"
)

func init() {
	cmdRoot.AddCommand(cmdProcess())
}

func cmdProcess() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "process",
		Short:        "Back up, match and rename every album folder of the library",
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			root, err := filepath.Abs(library(cmd))
			if err != nil {
				return err
			}

			if util.Within(cfg.Backup.Dir, root) {
				return fmt.Errorf("backups area %s must not lie inside the library %s", cfg.Backup.Dir, root)
			}

			client, err := authenticate(ctx)
			if err != nil {
				return err
			}

			backups := backup.New(cfg.Backup.Dir)
			unlock, err := backups.Lock()
			if err != nil {
				return err
			}
			defer func() { util.ErrSuppress(unlock()) }()

			nodes, err := scanLibrary(ctx, root, client)
			if err != nil {
				return err
			}

			var covers string
			if cfg.Artwork.Cache {
				covers = util.CacheFile("covers")
			}
			runner := &pipeline.Runner{
				Backups:  backups,
				Resolver: catalog.NewResolver(client, catalog.NewCache(), cfg.Matching.SearchLimit),
				Matcher: matcher.Matcher{
					Lookup:    client,
					Tagger:    id3.Tagger{},
					Covers:    downloader.New(covers, processor.Artwork{MaxSize: cfg.Artwork.MaxSize}),
					Threshold: cfg.Matching.Threshold,
				},
				Finalizer: finalizer.Finalizer{Tagger: id3.Tagger{}},
				Observer:  newProgress(tui),
			}
			report := runner.Run(ctx, root, nodes)

			printReport(report)

			path, err := report.Save(backups.Dir)
			if err != nil {
				return err
			}
			tui.Printf("report saved to %s", path)
			return nil
		},
	}
	addLibraryFlag(cmd.Flags())
	return cmd
}
