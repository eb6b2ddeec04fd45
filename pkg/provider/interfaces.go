package provider

import (
	"context"
	"errors"
	"fmt"

	"github.com/vietdv277/lambda-cli/pkg/types"
)

// Common errors
var (
	ErrAborted           = errors.New("aborted by user")
	ErrInvalidCodeSource = errors.New("code source must be either inline zip bytes or an S3 bucket and key, not both")
)

// FunctionNotFoundError is returned when the remote reports that a function
// does not exist. Message is the remote's text, unmodified.
type FunctionNotFoundError struct {
	Function string
	Message  string
}

func (e *FunctionNotFoundError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("function not found: %s", e.Function)
}

// DeploymentFailedError is returned when polling ends on a non-successful
// terminal status.
type DeploymentFailedError struct {
	Function string
	Status   types.DeploymentStatus
	Reason   string
}

func (e *DeploymentFailedError) Error() string {
	msg := fmt.Sprintf("Function update did not succeed with status: %s", e.Status)
	if e.Reason != "" {
		msg += " (" + e.Reason + ")"
	}
	return msg
}

// FunctionProvider covers the remote operations needed to ship new code to
// a function
type FunctionProvider interface {
	// ResolveFunction returns the ARN for a function name or ARN.
	ResolveFunction(ctx context.Context, nameOrArn string) (string, error)

	// UploadCode replaces the function code with the given source.
	UploadCode(ctx context.Context, arn string, code types.CodeSource, publish bool) (*types.UpdateResult, error)

	// WaitForActive blocks until the last update leaves InProgress.
	WaitForActive(ctx context.Context, nameOrArn string) (types.StatusReport, error)
}

// ArchiveStore stages a built archive in object storage
type ArchiveStore interface {
	PutArchive(ctx context.Context, bucket, key, path string) error
}
