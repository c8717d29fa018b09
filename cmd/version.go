package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/directord/a2dd/internal/runtime"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  "Print the version, git commit, and build time of a2dd.",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), runtime.VersionString())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
