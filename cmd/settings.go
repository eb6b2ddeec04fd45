package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/vietdv277/lambda-cli/internal/aws"
	"github.com/vietdv277/lambda-cli/internal/config"
	"github.com/vietdv277/lambda-cli/internal/ui"
)

const envPrefix = "LAMBDA"

// settings keys, shared by viper and the store file
const (
	keyProfile         = "profile"
	keyRegion          = "region"
	keyAccessKeyID     = "aws_access_key_id"
	keySecretAccessKey = "aws_secret_access_key"
	keySessionToken    = "aws_session_token"
)

var flagKeys = map[string]string{
	"profile":               keyProfile,
	"region":                keyRegion,
	"aws-access-key-id":     keyAccessKeyID,
	"aws-secret-access-key": keySecretAccessKey,
	"aws-session-token":     keySessionToken,
}

// Settings are the AWS settings a command runs with
type Settings struct {
	Profile         string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	SessionToken    string

	// Source is the directory whose stored entry supplied defaults, if any
	Source string
}

// loadSettings merges, highest first: flags, LAMBDA_* environment, the
// effective directory entry for the working directory. Anything still
// empty is left to the SDK default chain.
func loadSettings(cmd *cobra.Command) (Settings, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	for flag, key := range flagKeys {
		if f := cmd.Flags().Lookup(flag); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return Settings{}, err
			}
		}
	}

	var s Settings
	source, entry, err := effectiveEntry()
	if err != nil {
		return Settings{}, err
	}
	if source != "" {
		ui.Log.Infof("Using configuration from %s", source)
		s.Source = source
		v.SetDefault(keyProfile, entry.ProfileName)
		v.SetDefault(keyRegion, entry.RegionName)
		v.SetDefault(keyAccessKeyID, entry.AWSAccessKeyID)
		v.SetDefault(keySecretAccessKey, entry.AWSSecretAccessKey)
		v.SetDefault(keySessionToken, entry.AWSSessionToken)
	}

	s.Profile = v.GetString(keyProfile)
	s.Region = v.GetString(keyRegion)
	s.AccessKeyID = v.GetString(keyAccessKeyID)
	s.SecretAccessKey = v.GetString(keySecretAccessKey)
	s.SessionToken = v.GetString(keySessionToken)
	return s, nil
}

// effectiveEntry resolves the stored entry for the working directory. A
// missing store is not an error.
func effectiveEntry() (string, config.Entry, error) {
	store, err := config.Load(config.GetConfigPath())
	if err != nil {
		if errors.Is(err, config.ErrNoConfig) {
			return "", config.Entry{}, nil
		}
		return "", config.Entry{}, err
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", config.Entry{}, fmt.Errorf("failed to get working directory: %w", err)
	}

	path, entry, ok := store.Resolve(cwd, true)
	if !ok {
		return "", config.Entry{}, nil
	}
	return path, entry, nil
}

// newAWSClient builds SDK clients from the merged settings
func newAWSClient(ctx context.Context, s Settings) (*aws.Client, error) {
	var opts []aws.ClientOption
	if s.Profile != "" {
		opts = append(opts, aws.WithProfile(s.Profile))
	}
	if s.Region != "" {
		opts = append(opts, aws.WithRegion(s.Region))
	}
	if s.AccessKeyID != "" || s.SecretAccessKey != "" {
		if s.AccessKeyID == "" || s.SecretAccessKey == "" {
			ui.Log.Warnf("Ignoring incomplete static credentials: both an access key id and a secret access key are needed")
		}
		opts = append(opts, aws.WithStaticCredentials(s.AccessKeyID, s.SecretAccessKey, s.SessionToken))
	}

	ui.Log.Debugf("Creating AWS client (profile=%q, region=%q)", s.Profile, s.Region)
	return aws.NewClient(ctx, opts...)
}
