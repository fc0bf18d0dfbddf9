package uploads

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"cognidoc-backend/internal/shared/apperr"
	"cognidoc-backend/internal/shared/config"
	"cognidoc-backend/internal/shared/metrics"
	"cognidoc-backend/internal/shared/storage/object"
	"cognidoc-backend/internal/shared/telemetry"
	"cognidoc-backend/internal/shared/util"
)

const keyPrefix = "upload/"

const (
	msgNotConfigured  = "GCS bucket for fine-tuning is not configured on the server."
	msgBucketNotFound = "GCS bucket '%s' not found. Please create it and grant permissions."
	msgUploadFailed   = "Failed to upload file for fine-tuning"
	msgInvalidName    = "invalid file name"
)

// Upload is a file destined for the indexing bucket.
type Upload struct {
	FileName    string
	ContentType string
	Content     []byte
}

// Service places uploads in the bucket that feeds the managed store.
type Service struct {
	Store       object.ObjectStore
	Destination string
}

// Upload stores the file under upload/<uuid>-<filename>. No import job is started.
func (s *Service) Upload(ctx context.Context, up Upload) (object.Object, error) {
	if s.Store == nil || config.IsPlaceholder(s.Destination) {
		return object.Object{}, apperr.Configuration(msgNotConfigured)
	}

	name, err := util.SanitizeFileName(up.FileName)
	if err != nil {
		return object.Object{}, apperr.InvalidInput(msgInvalidName)
	}
	key := keyPrefix + uuid.NewString() + "-" + name

	start := time.Now()
	obj, err := s.Store.Put(ctx, key, up.ContentType, bytes.NewReader(up.Content))
	metrics.ObserveUpstream("objectstore", start, err)
	if err != nil {
		telemetry.Error("uploads.put.failed", map[string]any{
			"destination": s.Destination,
			"key":         key,
			"error":       err,
		})
		if errors.Is(err, object.ErrBucketNotFound) {
			return object.Object{}, apperr.NotFound(fmt.Sprintf(msgBucketNotFound, s.Destination), err)
		}
		return object.Object{}, apperr.UpstreamUnavailable(msgUploadFailed, err)
	}

	telemetry.Info("uploads.put.complete", map[string]any{
		"locator":    obj.Locator,
		"size_bytes": obj.SizeBytes,
	})
	return obj, nil
}
