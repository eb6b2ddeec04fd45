package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vietdv277/lambda-cli/internal/aws"
	"github.com/vietdv277/lambda-cli/internal/build"
	"github.com/vietdv277/lambda-cli/internal/deploy"
	"github.com/vietdv277/lambda-cli/internal/ui"
	"github.com/vietdv277/lambda-cli/pkg/provider"
)

var (
	fnUpload   bool
	fnNoUpload bool
	fnPublish  bool
	fnS3Bucket string
	fnS3Key    string
	fnOut      string
	fnWait     bool
	fnSkip     bool
)

var functionCmd = &cobra.Command{
	Use:     "function <name-or-arn> <source>",
	Aliases: []string{"func"},
	Short:   "Build a zip from source and upload it as function code",
	Long: `Build a zip archive from a file or directory and upload it as the code of
an existing Lambda function, then wait for the update to finish.

With --no-upload the archive is only built, and --out is required. Without
--out the archive is built in a temporary directory that is removed on exit.

With --s3-bucket and --s3-key the archive is first put to S3 and the function
is pointed at that object instead of receiving the bytes inline.

Examples:
  lambda function my-func ./src
  lambda func arn:aws:lambda:eu-west-1:123456789012:function:my-func handler.py
  lambda function my-func ./src --publish --skip
  lambda function my-func ./src --s3-bucket artifacts --s3-key my-func.zip
  lambda function my-func ./src --no-upload --out dist/`,
	Args: usageArgs(cobra.ExactArgs(2)),
	RunE: runFunction,
}

func init() {
	rootCmd.AddCommand(functionCmd)

	flags := functionCmd.Flags()
	flags.BoolVarP(&fnUpload, "upload", "u", true, "Upload the archive")
	flags.BoolVarP(&fnNoUpload, "no-upload", "b", false, "Only build the archive")
	flags.BoolVar(&fnPublish, "publish", false, "Publish a new version")
	flags.StringVar(&fnS3Bucket, "s3-bucket", "", "Stage the archive in this S3 bucket")
	flags.StringVar(&fnS3Key, "s3-key", "", "S3 key for the staged archive")
	flags.StringVarP(&fnOut, "out", "o", "", "Write the archive to this file or directory")
	flags.BoolVarP(&fnWait, "wait", "w", true, "Wait for the update to finish")
	flags.BoolVarP(&fnSkip, "skip", "s", false, "Do not wait for the update to finish")
}

func runFunction(cmd *cobra.Command, args []string) error {
	function, source := args[0], args[1]
	upload := fnUpload && !fnNoUpload
	wait := fnWait && !fnSkip

	for _, pair := range [][2]string{{"upload", "no-upload"}, {"wait", "skip"}} {
		if cmd.Flags().Changed(pair[0]) && cmd.Flags().Changed(pair[1]) {
			return usageErrorf("--%s and --%s cannot be used together", pair[0], pair[1])
		}
	}
	if _, err := os.Stat(source); err != nil {
		return usageErrorf("source %q does not exist", source)
	}
	if !upload && fnOut == "" {
		return usageErrorf("--out is required when --no-upload is set")
	}
	if (fnS3Bucket == "") != (fnS3Key == "") {
		return usageErrorf("--s3-bucket and --s3-key must be given together")
	}

	var destination string
	if fnOut != "" {
		target, err := build.ArchivePath(fnOut)
		if err != nil {
			return err
		}
		if info, err := os.Stat(target); err == nil && !info.IsDir() {
			ui.Log.Warnf("%s already exists", target)
			ok, err := confirm(fmt.Sprintf("Overwrite %s?", target))
			if err != nil {
				return err
			}
			if !ok {
				return provider.ErrAborted
			}
		}
		destination = target
	} else {
		tmp, err := os.MkdirTemp("", "lambda-cli-")
		if err != nil {
			return fmt.Errorf("failed to create temporary directory: %w", err)
		}
		defer os.RemoveAll(tmp)
		destination = tmp
	}

	ui.Log.Infof("Building archive from %s", source)
	archive, err := build.Build(source, destination)
	if err != nil {
		return err
	}
	ui.Log.Debugf("Archive written to %s", archive)

	if !upload {
		ui.Log.Infof("Done! You can find your zip-file at: %s", archive)
		return nil
	}

	ctx := cmd.Context()
	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	client, err := newAWSClient(ctx, settings)
	if err != nil {
		return err
	}

	runner := &deploy.Runner{
		Functions: aws.NewFunctions(client.Lambda),
		Archives:  aws.NewArchives(client.S3),
		Log:       ui.Log,
	}

	ui.Log.Infof("Uploading code to %s", function)
	res, err := runner.Run(ctx, deploy.Request{
		Function: function,
		Archive:  archive,
		Publish:  fnPublish,
		S3Bucket: fnS3Bucket,
		S3Key:    fnS3Key,
		Wait:     wait,
	})
	if err != nil {
		return err
	}

	ui.Log.Infof("Updated %s (version %s)", res.ARN, res.Update.Version)
	if wait {
		ui.Log.Infof("Function update finished with status: %s", res.Status.Status)
	}
	return nil
}
