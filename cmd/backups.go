package cmd

import (
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/streambinder/albumfix/backup"
	"github.com/streambinder/albumfix/util"
)

func init() {
	cmdRoot.AddCommand(cmdBackups())
}

func cmdBackups() *cobra.Command {
	return &cobra.Command{
		Use:          "backups",
		Short:        "List the available album backups",
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			manifests, err := backup.New(cfg.Backup.Dir).List()
			if err != nil {
				return err
			}
			if len(manifests) == 0 {
				tui.Printf("no backup found in %s", cfg.Backup.Dir)
				return nil
			}

			rows := make([][]string, 0, len(manifests))
			for _, manifest := range manifests {
				timestamp := manifest.Timestamp
				if moment, err := manifest.Time(); err == nil {
					timestamp = moment.Format("2006-01-02 15:04:05")
				}
				rows = append(rows, []string{
					timestamp,
					manifest.OriginalFolder,
					strconv.Itoa(len(manifest.Files)),
					util.HumanizeBytes(size(manifest.BackupFolder)),
					filepath.Base(manifest.BackupFolder),
				})
			}
			tui.Print(renderTable(
				[]column{left("Taken"), left("Original folder"), right("Files"), right("Size"), left("Backup")},
				rows,
			))
			return nil
		},
	}
}

// size sums up the files under dir, unreadable ones left out
func size(dir string) (bytes int) {
	util.ErrSuppress(filepath.WalkDir(dir, func(_ string, entry fs.DirEntry, err error) error {
		if err != nil || entry.IsDir() {
			return nil
		}
		if info, err := entry.Info(); err == nil {
			bytes += int(info.Size())
		}
		return nil
	}))
	return
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
