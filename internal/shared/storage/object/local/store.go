package local

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"cognidoc-backend/internal/shared/storage/object"
)

// Store implements ObjectStore using the local filesystem. The base directory plays the
// role of the bucket and must already exist.
type Store struct {
	baseDir string
}

// New creates a new local object store rooted at baseDir.
func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

// Put writes the reader to baseDir/key.
func (s *Store) Put(ctx context.Context, key string, contentType string, r io.Reader) (object.Object, error) {
	if err := ctx.Err(); err != nil {
		return object.Object{}, err
	}

	info, err := os.Stat(s.baseDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return object.Object{}, fmt.Errorf("local put dir=%s: %w", s.baseDir, object.ErrBucketNotFound)
		}
		return object.Object{}, fmt.Errorf("local stat dir=%s: %w", s.baseDir, err)
	}
	if !info.IsDir() {
		return object.Object{}, fmt.Errorf("local put dir=%s: not a directory: %w", s.baseDir, object.ErrBucketNotFound)
	}

	clean := filepath.Clean(filepath.FromSlash(key))
	if strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return object.Object{}, fmt.Errorf("invalid storage key")
	}

	fullPath := filepath.Join(s.baseDir, clean)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return object.Object{}, fmt.Errorf("mkdir: %w", err)
	}
	f, err := os.OpenFile(fullPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return object.Object{}, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	written, err := io.Copy(f, r)
	if err != nil {
		return object.Object{}, fmt.Errorf("write body: %w", err)
	}

	abs, err := filepath.Abs(fullPath)
	if err != nil {
		abs = fullPath
	}
	return object.Object{
		Bucket:      s.baseDir,
		Key:         filepath.ToSlash(clean),
		Locator:     "file://" + filepath.ToSlash(abs),
		ContentType: contentType,
		SizeBytes:   written,
	}, nil
}

var _ object.ObjectStore = (*Store)(nil)
