package gcs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"cloud.google.com/go/storage"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"cognidoc-backend/internal/shared/storage/object"
)

// Store implements ObjectStore using Google Cloud Storage.
type Store struct {
	client *storage.Client
	bucket string
}

// New creates a GCS-backed object store writing into bucket.
func New(ctx context.Context, bucket string, opts ...option.ClientOption) (*Store, error) {
	if bucket == "" {
		return nil, fmt.Errorf("gcs bucket is required")
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("gcs new client: %w", err)
	}
	return &Store{client: client, bucket: bucket}, nil
}

// Put uploads the reader contents to gs://bucket/key with the given content type.
func (s *Store) Put(ctx context.Context, key string, contentType string, r io.Reader) (object.Object, error) {
	if err := ctx.Err(); err != nil {
		return object.Object{}, err
	}

	w := s.client.Bucket(s.bucket).Object(key).NewWriter(ctx)
	w.ContentType = contentType

	counter := &object.CountingReader{R: r}
	if _, err := io.Copy(w, counter); err != nil {
		_ = w.Close()
		return object.Object{}, wrapErr(s.bucket, key, err)
	}
	if err := w.Close(); err != nil {
		return object.Object{}, wrapErr(s.bucket, key, err)
	}

	return object.Object{
		Bucket:      s.bucket,
		Key:         key,
		Locator:     fmt.Sprintf("gs://%s/%s", s.bucket, key),
		ContentType: contentType,
		SizeBytes:   counter.N,
	}, nil
}

// Close releases the underlying client.
func (s *Store) Close() error {
	return s.client.Close()
}

func wrapErr(bucket, key string, err error) error {
	if isBucketNotFound(err) {
		return fmt.Errorf("gcs put bucket=%s key=%s: %w: %v", bucket, key, object.ErrBucketNotFound, err)
	}
	return fmt.Errorf("gcs put bucket=%s key=%s: %w", bucket, key, err)
}

// isBucketNotFound treats a 404 on upload as a missing bucket; object writes never 404
// on the object itself.
func isBucketNotFound(err error) bool {
	if errors.Is(err, storage.ErrBucketNotExist) {
		return true
	}
	var apiErr *googleapi.Error
	return errors.As(err, &apiErr) && apiErr.Code == http.StatusNotFound
}

var _ object.ObjectStore = (*Store)(nil)
