package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vietdv277/lambda-cli/internal/aws"
	"github.com/vietdv277/lambda-cli/internal/ui"
)

var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "List local AWS profiles",
	Long: `List all AWS profiles from ~/.aws/credentials and ~/.aws/config, for use with
--profile or 'lambda config set'.

Examples:
  lambda profiles`,
	Args: usageArgs(cobra.NoArgs),
	RunE: runProfileList,
}

func init() {
	rootCmd.AddCommand(profilesCmd)
}

func runProfileList(cmd *cobra.Command, args []string) error {
	profiles, err := aws.ListProfiles()
	if err != nil {
		return fmt.Errorf("failed to list profiles: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(profiles) == 0 {
		fmt.Fprintln(out, "No AWS profiles found")
		fmt.Fprintln(out, "Create profiles in ~/.aws/credentials or ~/.aws/config")
		return nil
	}

	ui.PrintProfileTable(out, profiles, activeProfile())
	return nil
}

// activeProfile is the profile a command would use: flag, then
// LAMBDA_PROFILE, then AWS_PROFILE
func activeProfile() string {
	if profile != "" {
		return profile
	}
	if p := os.Getenv(envPrefix + "_PROFILE"); p != "" {
		return p
	}
	if p := os.Getenv("AWS_PROFILE"); p != "" {
		return p
	}
	return "default"
}
