package cmd

import (
	"fmt"
	"os"

	"github.com/adrg/xdg"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/streambinder/albumfix/config"
	"github.com/streambinder/albumfix/util"
	"github.com/streambinder/albumfix/util/anchor"
)

// commands annotated so run without loading the configuration
const annotationNoConfig = "no-config"

var (
	cfg     *config.Config
	tui     = anchor.New(anchor.Red)
	cmdRoot = &cobra.Command{
		Use:   "albumfix",
		Short: "Reconcile local albums against the Spotify catalog",
		// errors are printed by Execute
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if _, ok := cmd.Annotations[annotationNoConfig]; ok {
				return nil
			}
			loaded, _, err := config.Load(util.ErrWrap("")(cmd.Flags().GetString("config")))
			if err != nil {
				return err
			}
			cfg = loaded
			return nil
		},
	}
)

func init() {
	cmdRoot.PersistentFlags().StringP("config", "c", "", fmt.Sprintf("Configuration file (default %s)", config.DefaultPath()))
}

func Execute() {
	if err := cmdRoot.Execute(); err != nil {
		tui.AnchorPrintf("%v", err)
		os.Exit(1)
	}
}

func addLibraryFlag(flags *pflag.FlagSet) {
	flags.StringP("library", "l", "", "Path to music library (default: configured library, else "+xdg.UserDirs.Music+")")
}

// library returns the library path the command operates on:
// the flag, if set, wins over the configured one.
func library(cmd *cobra.Command) string {
	if path := util.ErrWrap("")(cmd.Flags().GetString("library")); len(path) > 0 {
		return path
	}
	if len(cfg.Library.Path) > 0 {
		return cfg.Library.Path
	}
	return xdg.UserDirs.Music
}
