package cmd

import (
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "daanotes",
	Short: "Course notes site for Design and Analysis of Algorithms",
	Long: `daanotes renders markdown course notes with embedded shortcodes into a
navigable site. It serves the notes live with a synced table of contents,
or builds them into a static site.`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", ".daanotes.yml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
