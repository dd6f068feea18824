package cmd

import (
	"github.com/spf13/cobra"
	"github.com/streambinder/albumfix/config"
	"github.com/streambinder/albumfix/util"
)

func init() {
	cmdRoot.AddCommand(cmdConfig())
}

func cmdConfig() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
	}
	cmd.AddCommand(&cobra.Command{
		Use:          "init",
		Short:        "Write a sample configuration file",
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		Annotations:  map[string]string{annotationNoConfig: ""},
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := util.ErrWrap("")(cmd.Flags().GetString("config"))
			if len(path) == 0 {
				path = config.DefaultPath()
			}
			if err := config.CreateSample(path); err != nil {
				return err
			}
			tui.Printf("sample configuration written to %s", path)
			return nil
		},
	})
	return cmd
}
