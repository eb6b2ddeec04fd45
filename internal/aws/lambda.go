package aws

import (
	"context"
	"errors"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	lambdaTypes "github.com/aws/aws-sdk-go-v2/service/lambda/types"

	"github.com/vietdv277/lambda-cli/pkg/provider"
	"github.com/vietdv277/lambda-cli/pkg/types"
)

// DefaultPollInterval is the fixed delay between status checks
const DefaultPollInterval = time.Second

// FunctionAPI is the subset of the Lambda client used to deploy code
type FunctionAPI interface {
	GetFunction(ctx context.Context, params *lambda.GetFunctionInput, optFns ...func(*lambda.Options)) (*lambda.GetFunctionOutput, error)
	GetFunctionConfiguration(ctx context.Context, params *lambda.GetFunctionConfigurationInput, optFns ...func(*lambda.Options)) (*lambda.GetFunctionConfigurationOutput, error)
	UpdateFunctionCode(ctx context.Context, params *lambda.UpdateFunctionCodeInput, optFns ...func(*lambda.Options)) (*lambda.UpdateFunctionCodeOutput, error)
}

// Functions implements provider.FunctionProvider on top of Lambda
type Functions struct {
	api      FunctionAPI
	interval time.Duration
	sleep    func(ctx context.Context, d time.Duration) error
}

var _ provider.FunctionProvider = (*Functions)(nil)

// NewFunctions creates a Lambda-backed function provider
func NewFunctions(api FunctionAPI) *Functions {
	return &Functions{
		api:      api,
		interval: DefaultPollInterval,
		sleep:    sleepContext,
	}
}

// ResolveFunction looks up a function by name or ARN and returns its ARN.
// A missing function yields *provider.FunctionNotFoundError; any other
// error from the API is returned as is.
func (f *Functions) ResolveFunction(ctx context.Context, nameOrArn string) (string, error) {
	output, err := f.api.GetFunction(ctx, &lambda.GetFunctionInput{
		FunctionName: aws.String(nameOrArn),
	})
	if err != nil {
		var notFound *lambdaTypes.ResourceNotFoundException
		if errors.As(err, &notFound) {
			return "", &provider.FunctionNotFoundError{
				Function: nameOrArn,
				Message:  notFound.ErrorMessage(),
			}
		}
		return "", err
	}

	if output.Configuration == nil {
		return nameOrArn, nil
	}
	return deref(output.Configuration.FunctionArn), nil
}

// UploadCode pushes new code, inline or from S3, to the function.
func (f *Functions) UploadCode(ctx context.Context, arn string, code types.CodeSource, publish bool) (*types.UpdateResult, error) {
	input := &lambda.UpdateFunctionCodeInput{
		FunctionName: aws.String(arn),
		Publish:      publish,
	}

	switch {
	case code.IsS3() && len(code.ZipFile) > 0,
		code.IsS3() && (code.S3Bucket == "" || code.S3Key == ""),
		!code.IsS3() && len(code.ZipFile) == 0:
		return nil, provider.ErrInvalidCodeSource
	case code.IsS3():
		input.S3Bucket = aws.String(code.S3Bucket)
		input.S3Key = aws.String(code.S3Key)
	default:
		input.ZipFile = code.ZipFile
	}

	output, err := f.api.UpdateFunctionCode(ctx, input)
	if err != nil {
		return nil, err
	}

	return &types.UpdateResult{
		FunctionArn: deref(output.FunctionArn),
		CodeSha256:  deref(output.CodeSha256),
		CodeSize:    output.CodeSize,
		Version:     deref(output.Version),
		Status:      types.DeploymentStatus(output.LastUpdateStatus),
	}, nil
}

// WaitForActive polls the function's last update status until it is no
// longer InProgress. There is no attempt limit; only ctx ends it early.
func (f *Functions) WaitForActive(ctx context.Context, nameOrArn string) (types.StatusReport, error) {
	for {
		output, err := f.api.GetFunctionConfiguration(ctx, &lambda.GetFunctionConfigurationInput{
			FunctionName: aws.String(nameOrArn),
		})
		if err != nil {
			return types.StatusReport{}, err
		}

		status := types.DeploymentStatus(output.LastUpdateStatus)
		if status.IsTerminal() {
			return types.StatusReport{
				Status: status,
				Reason: deref(output.LastUpdateStatusReason),
			}, nil
		}

		if err := f.sleep(ctx, f.interval); err != nil {
			return types.StatusReport{Status: status}, err
		}
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// deref safely dereferences a string pointer
func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
