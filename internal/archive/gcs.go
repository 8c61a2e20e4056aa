package archive

import (
	"context"
	"errors"
	"fmt"
	"io"

	gcs "cloud.google.com/go/storage"
)

// GCSArchive implements Archive using Google Cloud Storage.
type GCSArchive struct {
	client *gcs.Client
	bucket string
}

// NewGCSArchive creates a GCS-backed Archive.
// It uses Application Default Credentials (works with Workload Identity, SA keys, gcloud auth).
func NewGCSArchive(ctx context.Context, bucket string) (*GCSArchive, error) {
	if bucket == "" {
		return nil, errors.New("gcs archive: bucket is required")
	}
	client, err := gcs.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("create gcs client: %w", err)
	}
	return &GCSArchive{client: client, bucket: bucket}, nil
}

func (a *GCSArchive) PutReport(ctx context.Context, jobID, applicationID string, data []byte) error {
	key := reportKey(jobID, applicationID)
	w := a.client.Bucket(a.bucket).Object(key).NewWriter(ctx)
	w.ContentType = "application/json"
	if _, err := w.Write(data); err != nil {
		w.Close()
		return fmt.Errorf("gcs write %s: %w", key, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("gcs close %s: %w", key, err)
	}
	return nil
}

func (a *GCSArchive) GetReport(ctx context.Context, jobID, applicationID string) ([]byte, error) {
	key := reportKey(jobID, applicationID)
	r, err := a.client.Bucket(a.bucket).Object(key).NewReader(ctx)
	if errors.Is(err, gcs.ErrObjectNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("gcs read %s: %w", key, err)
	}
	defer r.Close()
	return io.ReadAll(r)
}

// Close releases the GCS client.
func (a *GCSArchive) Close() error {
	return a.client.Close()
}
