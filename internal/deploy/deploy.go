package deploy

import (
	"context"
	"fmt"
	"os"

	"github.com/vietdv277/lambda-cli/internal/ui"
	"github.com/vietdv277/lambda-cli/pkg/provider"
	"github.com/vietdv277/lambda-cli/pkg/types"
)

// Stage is how far a deployment got
type Stage int

const (
	StageUnknown Stage = iota
	StageValidating
	StageUploading
	StagePolling
	StageTerminal
)

func (s Stage) String() string {
	switch s {
	case StageValidating:
		return "Validating"
	case StageUploading:
		return "Uploading"
	case StagePolling:
		return "Polling"
	case StageTerminal:
		return "Terminal"
	default:
		return "Unknown"
	}
}

// Request describes one code deployment
type Request struct {
	Function string // name or ARN
	Archive  string // path to a built zip
	Publish  bool
	S3Bucket string
	S3Key    string
	Wait     bool
}

func (r Request) useS3() bool {
	return r.S3Bucket != "" || r.S3Key != ""
}

// Result reports the outcome of Run. Stage is the last stage entered, also
// on error.
type Result struct {
	ARN    string
	Stage  Stage
	Update *types.UpdateResult
	Status types.StatusReport
}

// Runner ships an archive to a function
type Runner struct {
	Functions provider.FunctionProvider
	Archives  provider.ArchiveStore
	Log       *ui.Logger
}

// Run validates the request, uploads the code and optionally waits for the
// update to settle. A non-successful terminal status is returned as
// *provider.DeploymentFailedError.
func (r *Runner) Run(ctx context.Context, req Request) (*Result, error) {
	log := r.Log
	if log == nil {
		log = ui.Log
	}

	res := &Result{Stage: StageValidating}

	if req.useS3() && (req.S3Bucket == "" || req.S3Key == "") {
		return res, provider.ErrInvalidCodeSource
	}
	if req.useS3() && r.Archives == nil {
		return res, fmt.Errorf("no archive store configured for s3 upload")
	}

	arn, err := r.Functions.ResolveFunction(ctx, req.Function)
	if err != nil {
		return res, err
	}
	res.ARN = arn
	log.Debugf("Resolved function %s", arn)

	res.Stage = StageUploading
	code, err := r.codeSource(ctx, req, log)
	if err != nil {
		return res, err
	}

	update, err := r.Functions.UploadCode(ctx, arn, code, req.Publish)
	if err != nil {
		return res, err
	}
	res.Update = update
	log.Debugf("Uploaded code, sha256 %s, %d bytes", update.CodeSha256, update.CodeSize)

	if !req.Wait {
		res.Stage = StageTerminal
		return res, nil
	}

	res.Stage = StagePolling
	log.Infof("Waiting for function update to complete...")
	report, err := r.Functions.WaitForActive(ctx, arn)
	res.Status = report
	if err != nil {
		return res, err
	}

	res.Stage = StageTerminal
	if report.Status != types.StatusSuccessful {
		return res, &provider.DeploymentFailedError{
			Function: arn,
			Status:   report.Status,
			Reason:   report.Reason,
		}
	}
	return res, nil
}

func (r *Runner) codeSource(ctx context.Context, req Request, log *ui.Logger) (types.CodeSource, error) {
	if req.useS3() {
		log.Debugf("Uploading %s to s3://%s/%s", req.Archive, req.S3Bucket, req.S3Key)
		if err := r.Archives.PutArchive(ctx, req.S3Bucket, req.S3Key, req.Archive); err != nil {
			return types.CodeSource{}, err
		}
		return types.CodeSource{S3Bucket: req.S3Bucket, S3Key: req.S3Key}, nil
	}

	data, err := os.ReadFile(req.Archive)
	if err != nil {
		return types.CodeSource{}, fmt.Errorf("failed to read archive: %w", err)
	}
	return types.CodeSource{ZipFile: data}, nil
}
