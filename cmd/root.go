package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/vietdv277/lambda-cli/internal/ui"
	"github.com/vietdv277/lambda-cli/pkg/types"
)

var (
	// Global flags
	profile         string
	region          string
	accessKeyID     string
	secretAccessKey string
	sessionToken    string
	quiet           int
	verbose         bool
	force           bool
	showVersion     bool

	// confirm is the prompt policy for destructive actions, set per run
	confirm types.ConfirmFunc

	// promptConfirm asks on the terminal when not forced
	promptConfirm types.ConfirmFunc = ui.Confirm
)

var rootCmd = &cobra.Command{
	Use:   "lambda",
	Short: "Package and deploy AWS Lambda function code",
	Long: `lambda zips local source code and uploads it as AWS Lambda function code,
then waits for the update to finish.

Credentials and region can be stored per directory. A command run inside a
configured directory, or any of its subdirectories, picks them up the same way
git finds its config.

Examples:
  lambda function my-func ./src            # Build, upload and wait
  lambda function my-func ./src --publish  # Also publish a new version
  lambda function my-func ./src -b -o out  # Build only
  lambda config set -p dev -r eu-west-1    # Store settings for this directory
  lambda config list                       # Show all stored directories
  lambda status                            # Show the effective settings`,
	Args:              usageArgs(cobra.NoArgs),
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	RunE:              runRoot,
}

// Execute runs the root command and returns the process exit code.
func Execute(ctx context.Context) int {
	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		reportError(err)
	}
	return exitCode(err)
}

func init() {
	// Global persistent flags (available to all subcommands)
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&profile, "profile", "p", "", "AWS profile to use")
	flags.StringVarP(&region, "region", "r", "", "AWS region to use")
	flags.StringVar(&accessKeyID, "aws-access-key-id", "", "AWS access key id")
	flags.StringVar(&secretAccessKey, "aws-secret-access-key", "", "AWS secret access key")
	flags.StringVar(&sessionToken, "aws-session-token", "", "AWS session token")
	flags.CountVarP(&quiet, "quiet", "q", "Less output; repeat for errors only")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Debug output")
	flags.BoolVarP(&force, "force", "f", false, "Do not ask for confirmation")

	rootCmd.Flags().BoolVarP(&showVersion, "version", "V", false, "Print version and exit")

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &UsageError{Msg: err.Error()}
	})
}

func setup(cmd *cobra.Command, args []string) error {
	ui.Log.SetLevel(ui.LevelFromFlags(verbose, quiet))

	confirm = promptConfirm
	if force {
		confirm = types.AlwaysConfirm
	}
	return nil
}

func runRoot(cmd *cobra.Command, args []string) error {
	if showVersion {
		printVersion(cmd.OutOrStdout())
		return nil
	}
	return cmd.Help()
}
