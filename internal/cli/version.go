package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Populated at build time via -ldflags, e.g.
// go build -ldflags "-X github.com/JohnBasrai/aws-lambda-action-filter/internal/cli.version=v1.2.0"
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("actionfilter %s (commit %s, built %s)\n", version, commit, date)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
