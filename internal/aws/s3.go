package aws

import (
	"context"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/vietdv277/lambda-cli/pkg/provider"
)

// ObjectAPI is the subset of the S3 client used to stage archives
type ObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Archives implements provider.ArchiveStore on top of S3
type Archives struct {
	api ObjectAPI
}

var _ provider.ArchiveStore = (*Archives)(nil)

// NewArchives creates an S3-backed archive store
func NewArchives(api ObjectAPI) *Archives {
	return &Archives{api: api}
}

// PutArchive uploads the zip at path to s3://bucket/key
func (a *Archives) PutArchive(ctx context.Context, bucket, key, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open archive: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat archive: %w", err)
	}

	_, err = a.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(bucket),
		Key:           aws.String(key),
		Body:          f,
		ContentLength: aws.Int64(info.Size()),
		ContentType:   aws.String("application/zip"),
	})
	return err
}
