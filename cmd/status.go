package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/vietdv277/lambda-cli/internal/aws"
	"github.com/vietdv277/lambda-cli/internal/config"
	"github.com/vietdv277/lambda-cli/internal/ui"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show effective settings and authentication status",
	Long: `Display the settings that apply in the current directory, where they came
from, and the AWS identity they authenticate as.

Examples:
  lambda status
  lambda status -p prod`,
	Args: usageArgs(cobra.NoArgs),
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, "Current Status")
	fmt.Fprintln(out, ui.MutedStyle.Render("─────────────────────────────────"))
	fmt.Fprintln(out)

	fmt.Fprintf(out, "Config:   %s\n", config.GetConfigPath())
	if settings.Source != "" {
		fmt.Fprintf(out, "Entry:    %s\n", ui.PathStyle.Render(settings.Source))
	} else {
		fmt.Fprintf(out, "Entry:    %s\n", ui.MutedStyle.Render("(none for this directory)"))
	}

	client, err := newAWSClient(cmd.Context(), settings)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Profile:  %s\n", orDefault(settings.Profile, "(default chain)"))
	fmt.Fprintf(out, "Region:   %s\n", orDefault(client.Region(), "(not set)"))
	if settings.AccessKeyID != "" {
		fmt.Fprintf(out, "Key:      %s\n", settings.AccessKeyID)
	}
	fmt.Fprintln(out)

	displayIdentity(cmd, out, client, settings.Profile)
	return nil
}

func displayIdentity(cmd *cobra.Command, out io.Writer, client *aws.Client, profile string) {
	fmt.Fprint(out, "Auth:     ")
	identity, err := aws.GetCallerIdentity(cmd.Context(), client.STS)
	if err != nil {
		fmt.Fprintln(out, ui.ErrorStyle.Render("✗ Not authenticated"))
		fmt.Fprintf(out, "          %s\n", ui.MutedStyle.Render(err.Error()))
		if profile != "" {
			fmt.Fprintln(out)
			fmt.Fprintln(out, "To authenticate:")
			fmt.Fprintf(out, "  aws sso login --profile %s\n", profile)
		}
		return
	}

	fmt.Fprintln(out, ui.InfoStyle.Render("✓ Authenticated"))
	fmt.Fprintf(out, "Account:  %s\n", identity.Account)
	fmt.Fprintf(out, "User:     %s\n", identity.UserID)
	if identity.Arn != "" {
		fmt.Fprintf(out, "ARN:      %s\n", ui.MutedStyle.Render(identity.Arn))
	}
}

func orDefault(s, fallback string) string {
	if s == "" {
		return ui.MutedStyle.Render(fallback)
	}
	return s
}
