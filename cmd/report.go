package cmd

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/streambinder/albumfix/pipeline"
	"github.com/streambinder/albumfix/util"
)

func init() {
	cmdRoot.AddCommand(cmdReport())
}

func cmdReport() *cobra.Command {
	return &cobra.Command{
		Use:          "report [report-file]",
		Short:        "Show the outcome of a past run, the latest one by default",
		SilenceUsage: true,
		Args:         cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			var path string
			if len(args) > 0 {
				path = args[0]
			} else if latest, err := pipeline.LatestReport(cfg.Backup.Dir); err != nil {
				return err
			} else {
				path = latest
			}

			report, err := pipeline.LoadReport(path)
			if err != nil {
				return err
			}
			tui.Printf("run %s on %s, started at %s", report.ID, report.Root, report.StartedAt.Format("2006-01-02 15:04:05"))
			printReport(report)
			return nil
		},
	}
}

func printReport(report *pipeline.Report) {
	if len(report.Albums) > 0 {
		rows := make([][]string, 0, len(report.Albums))
		for _, album := range report.Albums {
			details := album.Error
			if len(details) == 0 {
				details = strings.Join(album.Notes, "; ")
			}
			rows = append(rows, []string{
				relative(report.Root, album.Dir),
				relative(report.Root, album.FinalDir),
				album.Status.Label(),
				util.Excerpt(details, 60),
			})
		}
		tui.Print(renderTable(
			[]column{left("Folder"), left("Final folder"), outcome("Status"), left("Details")},
			rows,
		))
	}
	if report.Interrupted {
		tui.AnchorPrintf("interrupted, remaining albums were left untouched")
	}
	tui.Printf("%s", report.Summary)
}
