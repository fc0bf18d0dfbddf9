package s3

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"cognidoc-backend/internal/shared/storage/object"
)

// Store implements ObjectStore using Amazon S3.
type Store struct {
	client *s3.Client
	bucket string
}

// New creates a new S3-backed object store.
func New(ctx context.Context, region, bucket string) (*Store, error) {
	if bucket == "" {
		return nil, fmt.Errorf("s3 bucket is required")
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{}
	if region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(region))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return &Store{
		client: s3.NewFromConfig(cfg),
		bucket: bucket,
	}, nil
}

// Put uploads the reader contents to s3://bucket/key.
func (s *Store) Put(ctx context.Context, key string, contentType string, r io.Reader) (object.Object, error) {
	if err := ctx.Err(); err != nil {
		return object.Object{}, err
	}

	counter := &object.CountingReader{R: r}
	input := putInput(s.bucket, key, contentType, counter)
	if _, err := s.client.PutObject(ctx, input); err != nil {
		if isNoSuchBucket(err) {
			return object.Object{}, fmt.Errorf("s3 put object bucket=%s key=%s: %w: %v", s.bucket, key, object.ErrBucketNotFound, err)
		}
		return object.Object{}, fmt.Errorf("s3 put object bucket=%s key=%s: %w", s.bucket, key, err)
	}

	return object.Object{
		Bucket:      s.bucket,
		Key:         key,
		Locator:     fmt.Sprintf("s3://%s/%s", s.bucket, key),
		ContentType: contentType,
		SizeBytes:   counter.N,
	}, nil
}

func putInput(bucket, key, contentType string, body io.Reader) *s3.PutObjectInput {
	return &s3.PutObjectInput{
		Bucket:               aws.String(bucket),
		Key:                  aws.String(key),
		Body:                 body,
		ContentType:          aws.String(contentType),
		ServerSideEncryption: s3types.ServerSideEncryptionAes256,
	}
}

func isNoSuchBucket(err error) bool {
	var nsb *s3types.NoSuchBucket
	if errors.As(err, &nsb) {
		return true
	}
	var apiErr smithy.APIError
	return errors.As(err, &apiErr) && apiErr.ErrorCode() == "NoSuchBucket"
}

var _ object.ObjectStore = (*Store)(nil)
