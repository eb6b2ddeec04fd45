package types

// AWSProfile is a named profile found in the local AWS CLI files
type AWSProfile struct {
	Name   string
	Region string // region from ~/.aws/config, if any
	Source string // "credentials", "config" or "credentials+config"
	SSO    bool   // profile uses IAM Identity Center
}
