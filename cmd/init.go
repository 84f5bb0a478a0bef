package cmd

import (
	"github.com/spf13/cobra"

	"github.com/mohitxskull/daa-notes/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize daanotes configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to configure daanotes for your notes and generates a .daanotes.yml file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard(cfgFile)
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
