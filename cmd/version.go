package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// Set with -ldflags "-X github.com/vietdv277/lambda-cli/cmd.Version=..."
var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  usageArgs(cobra.NoArgs),
	Run: func(cmd *cobra.Command, args []string) {
		printVersion(cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

func printVersion(w io.Writer) {
	fmt.Fprintf(w, "lambda-cli\n")
	fmt.Fprintf(w, "  Version:    %s\n", Version)
	fmt.Fprintf(w, "  Commit:     %s\n", Commit)
	fmt.Fprintf(w, "  Build Date: %s\n", BuildDate)
}
