package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/a11ytools/a11y-assist/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print a11y-assist version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("a11y-assist %s\n", version.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
