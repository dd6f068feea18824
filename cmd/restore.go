package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/streambinder/albumfix/backup"
	"github.com/streambinder/albumfix/util"
)

func init() {
	cmdRoot.AddCommand(cmdRestore())
}

func cmdRestore() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "restore <backup-dir>",
		Short:        "Put an album folder back as it was before processing",
		SilenceUsage: true,
		Args:         cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				dir = args[0]
				yes = util.ErrWrap(false)(cmd.Flags().GetBool("yes"))
			)
			if !filepath.IsAbs(dir) && !exists(dir) {
				dir = filepath.Join(cfg.Backup.Dir, dir)
			}
			dir, err := filepath.Abs(dir)
			if err != nil {
				return err
			}

			manifest, err := backup.ReadManifest(dir)
			if err != nil {
				return err
			}

			tui.Printf("backup of %s taken at %s (%d files)", manifest.OriginalFolder, manifest.Timestamp, len(manifest.Files))
			if !yes && !tui.Confirm(fmt.Sprintf("Replace %s with this backup?", manifest.OriginalFolder)) {
				tui.Printf("restore aborted")
				return nil
			}

			backups := backup.New(cfg.Backup.Dir)
			unlock, err := backups.Lock()
			if err != nil {
				return err
			}
			defer func() { util.ErrSuppress(unlock()) }()

			if _, err := backups.Restore(dir); err != nil {
				return err
			}
			tui.Printf("%s restored", manifest.OriginalFolder)
			return nil
		},
	}
	cmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")
	return cmd
}
