package aws

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	lambdaTypes "github.com/aws/aws-sdk-go-v2/service/lambda/types"
	"github.com/aws/smithy-go"

	"github.com/vietdv277/lambda-cli/pkg/provider"
	"github.com/vietdv277/lambda-cli/pkg/types"
)

type fakeFunctionAPI struct {
	getErr    error
	arn       string
	statuses  []lambdaTypes.LastUpdateStatus
	reason    string
	polls     int
	updateErr error
	updates   []*lambda.UpdateFunctionCodeInput
}

func (f *fakeFunctionAPI) GetFunction(ctx context.Context, params *lambda.GetFunctionInput, optFns ...func(*lambda.Options)) (*lambda.GetFunctionOutput, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return &lambda.GetFunctionOutput{
		Configuration: &lambdaTypes.FunctionConfiguration{FunctionArn: aws.String(f.arn)},
	}, nil
}

func (f *fakeFunctionAPI) GetFunctionConfiguration(ctx context.Context, params *lambda.GetFunctionConfigurationInput, optFns ...func(*lambda.Options)) (*lambda.GetFunctionConfigurationOutput, error) {
	status := f.statuses[f.polls]
	f.polls++
	out := &lambda.GetFunctionConfigurationOutput{LastUpdateStatus: status}
	if status != lambdaTypes.LastUpdateStatusInProgress && f.reason != "" {
		out.LastUpdateStatusReason = aws.String(f.reason)
	}
	return out, nil
}

func (f *fakeFunctionAPI) UpdateFunctionCode(ctx context.Context, params *lambda.UpdateFunctionCodeInput, optFns ...func(*lambda.Options)) (*lambda.UpdateFunctionCodeOutput, error) {
	f.updates = append(f.updates, params)
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	return &lambda.UpdateFunctionCodeOutput{
		FunctionArn:      params.FunctionName,
		CodeSha256:       aws.String("sha"),
		CodeSize:         42,
		Version:          aws.String("$LATEST"),
		LastUpdateStatus: lambdaTypes.LastUpdateStatusInProgress,
	}, nil
}

func newTestFunctions(api FunctionAPI) (*Functions, *int) {
	sleeps := 0
	f := NewFunctions(api)
	f.sleep = func(ctx context.Context, d time.Duration) error {
		if d != DefaultPollInterval {
			return errors.New("unexpected poll interval")
		}
		sleeps++
		return nil
	}
	return f, &sleeps
}

func TestResolveFunction(t *testing.T) {
	api := &fakeFunctionAPI{arn: "arn:aws:lambda:eu-west-1:123456789012:function:demo"}
	f, _ := newTestFunctions(api)

	arn, err := f.ResolveFunction(context.Background(), "demo")
	if err != nil {
		t.Fatalf("ResolveFunction: %v", err)
	}
	if arn != api.arn {
		t.Fatalf("arn = %s, want %s", arn, api.arn)
	}
}

func TestResolveFunction_NotFoundPreservesMessage(t *testing.T) {
	const msg = "Function not found: arn:aws:lambda:eu-west-1:123456789012:function:missing"
	api := &fakeFunctionAPI{getErr: &lambdaTypes.ResourceNotFoundException{Message: aws.String(msg)}}
	f, _ := newTestFunctions(api)

	_, err := f.ResolveFunction(context.Background(), "missing")

	var notFound *provider.FunctionNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected FunctionNotFoundError, got %T: %v", err, err)
	}
	if notFound.Message != msg || err.Error() != msg {
		t.Fatalf("message = %q, want %q", err.Error(), msg)
	}
	if notFound.Function != "missing" {
		t.Fatalf("function = %q", notFound.Function)
	}
}

func TestResolveFunction_OtherErrorsUnchanged(t *testing.T) {
	apiErr := &smithy.GenericAPIError{Code: "AccessDeniedException", Message: "not allowed"}
	f, _ := newTestFunctions(&fakeFunctionAPI{getErr: apiErr})

	_, err := f.ResolveFunction(context.Background(), "demo")
	if err != apiErr {
		t.Fatalf("expected the original error value, got %T: %v", err, err)
	}
}

func TestUploadCode(t *testing.T) {
	tests := []struct {
		name    string
		code    types.CodeSource
		wantErr error
		check   func(t *testing.T, in *lambda.UpdateFunctionCodeInput)
	}{
		{
			name: "inline zip",
			code: types.CodeSource{ZipFile: []byte("PK")},
			check: func(t *testing.T, in *lambda.UpdateFunctionCodeInput) {
				if string(in.ZipFile) != "PK" || in.S3Bucket != nil || in.S3Key != nil {
					t.Fatalf("unexpected input %+v", in)
				}
			},
		},
		{
			name: "s3 reference",
			code: types.CodeSource{S3Bucket: "bucket", S3Key: "key.zip"},
			check: func(t *testing.T, in *lambda.UpdateFunctionCodeInput) {
				if in.ZipFile != nil || aws.ToString(in.S3Bucket) != "bucket" || aws.ToString(in.S3Key) != "key.zip" {
					t.Fatalf("unexpected input %+v", in)
				}
			},
		},
		{name: "both", code: types.CodeSource{ZipFile: []byte("PK"), S3Bucket: "b", S3Key: "k"}, wantErr: provider.ErrInvalidCodeSource},
		{name: "neither", code: types.CodeSource{}, wantErr: provider.ErrInvalidCodeSource},
		{name: "bucket only", code: types.CodeSource{S3Bucket: "b"}, wantErr: provider.ErrInvalidCodeSource},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &fakeFunctionAPI{}
			f, _ := newTestFunctions(api)

			result, err := f.UploadCode(context.Background(), "arn:fn", tt.code, true)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				if len(api.updates) != 0 {
					t.Fatal("remote must not be called for an invalid code source")
				}
				return
			}
			if err != nil {
				t.Fatalf("UploadCode: %v", err)
			}
			if len(api.updates) != 1 || !api.updates[0].Publish {
				t.Fatalf("expected one publishing update, got %+v", api.updates)
			}
			tt.check(t, api.updates[0])
			if result.FunctionArn != "arn:fn" || result.CodeSha256 != "sha" || result.Status != types.StatusInProgress {
				t.Fatalf("unexpected result %+v", result)
			}
		})
	}
}

func TestWaitForActive_PollsUntilTerminal(t *testing.T) {
	api := &fakeFunctionAPI{statuses: []lambdaTypes.LastUpdateStatus{
		lambdaTypes.LastUpdateStatusInProgress,
		lambdaTypes.LastUpdateStatusInProgress,
		lambdaTypes.LastUpdateStatusSuccessful,
	}}
	f, sleeps := newTestFunctions(api)

	report, err := f.WaitForActive(context.Background(), "demo")
	if err != nil {
		t.Fatalf("WaitForActive: %v", err)
	}
	if report.Status != types.StatusSuccessful {
		t.Fatalf("status = %s", report.Status)
	}
	if *sleeps != 2 || api.polls != 3 {
		t.Fatalf("sleeps = %d, polls = %d; want 2 and 3", *sleeps, api.polls)
	}
}

func TestWaitForActive_Failed(t *testing.T) {
	api := &fakeFunctionAPI{
		statuses: []lambdaTypes.LastUpdateStatus{lambdaTypes.LastUpdateStatusFailed},
		reason:   "bad handler",
	}
	f, sleeps := newTestFunctions(api)

	report, err := f.WaitForActive(context.Background(), "demo")
	if err != nil {
		t.Fatalf("WaitForActive: %v", err)
	}
	if report.Status != types.StatusFailed || report.Reason != "bad handler" || *sleeps != 0 {
		t.Fatalf("report = %+v, sleeps = %d", report, *sleeps)
	}
}

func TestWaitForActive_ContextCancelled(t *testing.T) {
	api := &fakeFunctionAPI{statuses: []lambdaTypes.LastUpdateStatus{lambdaTypes.LastUpdateStatusInProgress}}
	f := NewFunctions(api)
	f.interval = time.Hour

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.WaitForActive(ctx, "demo")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
