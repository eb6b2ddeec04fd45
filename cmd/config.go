package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/vietdv277/lambda-cli/internal/aws"
	"github.com/vietdv277/lambda-cli/internal/config"
	"github.com/vietdv277/lambda-cli/internal/ui"
)

var (
	cfgPickProfile bool
	cfgPath        string
	cfgExact       bool
	cfgOutput      string
)

var configCmd = &cobra.Command{
	Use:     "config",
	Aliases: []string{"configure"},
	Short:   "Manage per-directory settings",
	Long: `Store AWS settings for a directory. Commands run in that directory, or in any
directory below it, use the stored settings unless a flag or LAMBDA_*
environment variable overrides them.

Settings are kept in ~/.aws/lambda-cli.json, or in the file named by
LAMBDA_CLI_CONFIG.

Examples:
  lambda config set -p dev -r eu-west-1
  lambda config set -i
  lambda config get
  lambda config list -o yaml
  lambda config delete --exact`,
	Args: usageArgs(cobra.NoArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Store settings for the current directory",
	Long: `Store the profile, region and credential flags for the current directory.
An existing entry for the same directory is only replaced after confirmation,
or with --force.

Examples:
  lambda config set --profile dev --region eu-west-1
  lambda config set --aws-access-key-id AKIA... --aws-secret-access-key ...
  lambda config set -i                 # Pick a profile interactively`,
	Args: usageArgs(cobra.NoArgs),
	RunE: runConfigSet,
}

var configGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Show the effective settings for a directory",
	Long: `Show the settings that apply to a directory and the directory they were
stored for, which may be a parent.

Examples:
  lambda config get
  lambda config get --path ~/src/my-func -o json`,
	Args: usageArgs(cobra.NoArgs),
	RunE: runConfigGet,
}

var configDeleteCmd = &cobra.Command{
	Use:     "delete",
	Aliases: []string{"rm"},
	Short:   "Delete the effective settings for a directory",
	Long: `Delete the entry that applies to a directory. Without --exact this may be an
entry stored for a parent directory.

Examples:
  lambda config delete
  lambda config delete --path ~/src/my-func --exact -f`,
	Args: usageArgs(cobra.NoArgs),
	RunE: runConfigDelete,
}

var configListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List all stored directories",
	Long: `List every stored directory and its settings, sorted by path.

Examples:
  lambda config list
  lambda config list -o json`,
	Args: usageArgs(cobra.NoArgs),
	RunE: runConfigList,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configDeleteCmd)
	configCmd.AddCommand(configListCmd)

	configSetCmd.Flags().BoolVarP(&cfgPickProfile, "pick-profile", "i", false, "Pick the profile interactively")

	configGetCmd.Flags().StringVar(&cfgPath, "path", "", "Directory to look up (default: current directory)")
	configGetCmd.Flags().StringVarP(&cfgOutput, "output", "o", "text", "Output format: text, json or yaml")

	configDeleteCmd.Flags().StringVar(&cfgPath, "path", "", "Directory to look up (default: current directory)")
	configDeleteCmd.Flags().BoolVar(&cfgExact, "exact", false, "Only delete an entry stored for exactly this directory")

	configListCmd.Flags().StringVarP(&cfgOutput, "output", "o", "text", "Output format: text, json or yaml")
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	entry := config.Entry{
		ProfileName:        profile,
		RegionName:         region,
		AWSAccessKeyID:     accessKeyID,
		AWSSecretAccessKey: secretAccessKey,
		AWSSessionToken:    sessionToken,
	}

	if cfgPickProfile {
		profiles, err := aws.ListProfiles()
		if err != nil {
			return fmt.Errorf("failed to list profiles: %w", err)
		}
		selected, err := ui.SelectProfile(profiles, entry.ProfileName)
		if err != nil {
			return err
		}
		entry.ProfileName = selected.Name
		if entry.RegionName == "" {
			entry.RegionName = selected.Region
		}
	}

	if entry.ProfileName != "" && !aws.ValidateProfile(entry.ProfileName) {
		ui.Log.Warnf("Profile %q was not found in your AWS config or credentials file", entry.ProfileName)
	}

	store, err := config.LoadOrCreate(config.GetConfigPath())
	if err != nil {
		return err
	}

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get working directory: %w", err)
	}
	path, err := config.Normalize(cwd)
	if err != nil {
		return err
	}

	if err := store.Set(path, entry, confirm); err != nil {
		return err
	}

	ui.Log.Infof("Saved configuration for %s", path)
	ui.Log.Debugf("Written to %s", store.Path())
	return nil
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	if err := validateOutput(cfgOutput); err != nil {
		return err
	}

	store, err := loadStore()
	if err != nil {
		return err
	}
	target, err := targetPath(cfgPath)
	if err != nil {
		return err
	}

	path, entry, ok := store.Resolve(target, true)
	if !ok {
		ui.Log.Warnf("No configuration found for %s", target)
		return nil
	}

	out := cmd.OutOrStdout()
	if cfgOutput == "text" {
		ui.PrintEntry(out, path, entry)
		return nil
	}
	return writeStructured(out, cfgOutput, struct {
		Path   string       `json:"path" yaml:"path"`
		Config config.Entry `json:"config" yaml:"config"`
	}{path, entry})
}

func runConfigDelete(cmd *cobra.Command, args []string) error {
	store, err := loadStore()
	if err != nil {
		return err
	}
	target, err := targetPath(cfgPath)
	if err != nil {
		return err
	}

	matched, _, _ := store.Resolve(target, !cfgExact)
	deleted, err := store.Delete(target, !cfgExact, confirm)
	if err != nil {
		return err
	}
	if !deleted {
		ui.Log.Warnf("No configuration found for %s", target)
		return nil
	}

	ui.Log.Infof("Deleted configuration for %s", matched)
	return nil
}

func runConfigList(cmd *cobra.Command, args []string) error {
	if err := validateOutput(cfgOutput); err != nil {
		return err
	}

	store, err := loadStore()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if cfgOutput == "text" {
		ui.PrintConfigTable(out, store.List())
		return nil
	}
	return writeStructured(out, cfgOutput, maps.Collect(store.List()))
}

// loadStore reads the store; a missing file is an empty store
func loadStore() (*config.Store, error) {
	path := config.GetConfigPath()
	store, err := config.Load(path)
	if errors.Is(err, config.ErrNoConfig) {
		return config.New(path), nil
	}
	return store, err
}

func targetPath(flagPath string) (string, error) {
	if flagPath != "" {
		return config.Normalize(flagPath)
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get working directory: %w", err)
	}
	return config.Normalize(cwd)
}

func validateOutput(format string) error {
	switch format {
	case "text", "json", "yaml":
		return nil
	default:
		return usageErrorf("invalid output format %q: use text, json or yaml", format)
	}
}

func writeStructured(w io.Writer, format string, v any) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "    ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return usageErrorf("invalid output format %q", format)
	}
}
