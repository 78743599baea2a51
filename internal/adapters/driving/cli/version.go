package cli

import (
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Afficher la version",
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Printf("plaide version %s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
