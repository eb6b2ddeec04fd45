package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/aws/smithy-go"
	"github.com/spf13/cobra"

	"github.com/vietdv277/lambda-cli/internal/ui"
	"github.com/vietdv277/lambda-cli/pkg/provider"
)

// Exit codes
const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

// UsageError reports a bad invocation: missing arguments, conflicting or
// invalid flags
type UsageError struct {
	Msg string
}

func (e *UsageError) Error() string {
	return e.Msg
}

func usageErrorf(format string, args ...any) error {
	return &UsageError{Msg: fmt.Sprintf(format, args...)}
}

// usageArgs turns cobra's positional argument errors into usage errors
func usageArgs(fn cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := fn(cmd, args); err != nil {
			return &UsageError{Msg: err.Error()}
		}
		return nil
	}
}

func exitCode(err error) int {
	if err == nil {
		return exitOK
	}
	var usage *UsageError
	if errors.As(err, &usage) {
		return exitUsage
	}
	return exitFailure
}

func reportError(err error) {
	var (
		usage    *UsageError
		notFound *provider.FunctionNotFoundError
		apiErr   smithy.APIError
	)

	switch {
	case errors.Is(err, provider.ErrAborted):
		fmt.Fprintln(os.Stderr, "Aborted!")
	case errors.As(err, &usage):
		ui.Log.Errorf("%s", usage.Msg)
		fmt.Fprintln(os.Stderr, ui.HintStyle.Render("Run 'lambda --help' for usage."))
	case errors.As(err, &notFound):
		ui.Log.Errorf("%s", notFound.Error())
	case errors.As(err, &apiErr):
		ui.Log.Errorf("%s: %s", apiErr.ErrorCode(), apiErr.ErrorMessage())
	default:
		ui.Log.Errorf("%v", err)
	}
}
