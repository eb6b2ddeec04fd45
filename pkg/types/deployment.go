package types

// DeploymentStatus is the remote LastUpdateStatus of a Lambda function
type DeploymentStatus string

const (
	StatusInProgress DeploymentStatus = "InProgress"
	StatusSuccessful DeploymentStatus = "Successful"
	StatusFailed     DeploymentStatus = "Failed"
)

// IsTerminal reports whether polling should stop at this status.
func (s DeploymentStatus) IsTerminal() bool {
	return s != StatusInProgress
}

func (s DeploymentStatus) String() string {
	if s == "" {
		return "Unknown"
	}
	return string(s)
}

// StatusReport is a polled status plus the reason the remote gave for it
type StatusReport struct {
	Status DeploymentStatus
	Reason string
}

// CodeSource is the payload of a code update. Exactly one of ZipFile or
// the S3Bucket/S3Key pair is set.
type CodeSource struct {
	ZipFile  []byte
	S3Bucket string
	S3Key    string
}

// IsS3 reports whether the source references an S3 object.
func (c CodeSource) IsS3() bool {
	return c.S3Bucket != "" || c.S3Key != ""
}

// UpdateResult is what the remote returns after accepting new code
type UpdateResult struct {
	FunctionArn string
	CodeSha256  string
	CodeSize    int64
	Version     string
	Status      DeploymentStatus
}
