package object

import (
	"context"
	"errors"
	"io"
)

// ErrBucketNotFound is returned when the destination bucket does not exist.
var ErrBucketNotFound = errors.New("bucket not found")

// Object describes a stored blob.
type Object struct {
	Bucket      string
	Key         string
	Locator     string
	ContentType string
	SizeBytes   int64
}

// ObjectStore defines the contract for writing binary objects under a caller-chosen key.
type ObjectStore interface {
	Put(ctx context.Context, key string, contentType string, r io.Reader) (Object, error)
}

// CountingReader counts bytes read through it.
type CountingReader struct {
	R io.Reader
	N int64
}

func (c *CountingReader) Read(p []byte) (int, error) {
	n, err := c.R.Read(p)
	c.N += int64(n)
	return n, err
}
