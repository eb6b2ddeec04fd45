package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sts"
)

// Client wraps AWS SDK clients
type Client struct {
	Lambda *lambda.Client
	S3     *s3.Client
	STS    *sts.Client

	cfg             aws.Config
	profile         string
	region          string
	accessKeyID     string
	secretAccessKey string
	sessionToken    string
}

// ClientOption allows customizing the AWS Client
type ClientOption func(*Client)

// WithProfile sets the AWS profile for the client
func WithProfile(profile string) ClientOption {
	return func(c *Client) {
		c.profile = profile
	}
}

// WithRegion sets the AWS region for the client
func WithRegion(region string) ClientOption {
	return func(c *Client) {
		c.region = region
	}
}

// WithStaticCredentials uses explicit keys instead of the default chain.
// It has no effect unless both the key id and secret are set.
func WithStaticCredentials(accessKeyID, secretAccessKey, sessionToken string) ClientOption {
	return func(c *Client) {
		c.accessKeyID = accessKeyID
		c.secretAccessKey = secretAccessKey
		c.sessionToken = sessionToken
	}
}

// NewClient creates a new AWS Client with the given options
func NewClient(ctx context.Context, opts ...ClientOption) (*Client, error) {
	c := &Client{}
	for _, opt := range opts {
		opt(c)
	}

	cfg, err := config.LoadDefaultConfig(ctx, c.loadOptions()...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS SDK config: %w", err)
	}

	c.cfg = cfg
	c.Lambda = lambda.NewFromConfig(cfg)
	c.S3 = s3.NewFromConfig(cfg)
	c.STS = sts.NewFromConfig(cfg)

	return c, nil
}

func (c *Client) loadOptions() []func(*config.LoadOptions) error {
	var configOpts []func(*config.LoadOptions) error

	if c.profile != "" {
		configOpts = append(configOpts, config.WithSharedConfigProfile(c.profile))
	}

	if c.region != "" {
		configOpts = append(configOpts, config.WithRegion(c.region))
	}

	if c.accessKeyID != "" && c.secretAccessKey != "" {
		provider := credentials.NewStaticCredentialsProvider(c.accessKeyID, c.secretAccessKey, c.sessionToken)
		configOpts = append(configOpts, config.WithCredentialsProvider(provider))
	}

	return configOpts
}

// Region returns the region the SDK resolved, which may come from the
// environment or shared config rather than an option.
func (c *Client) Region() string {
	return c.cfg.Region
}
