package reconcile

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"freight-relay/core/storage"

	"github.com/minio/minio-go/v7"
)

// ReportPrefix is the object prefix of archived pass reports.
const ReportPrefix = "sync-reports"

// StorageArchiver writes pass reports as JSON objects.
type StorageArchiver struct {
	client storage.Client
	bucket string
}

// NewStorageArchiver creates an archiver writing into bucket.
func NewStorageArchiver(client storage.Client, bucket string) *StorageArchiver {
	return &StorageArchiver{client: client, bucket: bucket}
}

// ReportKey returns the object key of a pass report: sync-reports/YYYY/MM/DD/<id>.json.
func ReportKey(result *PassResult) string {
	return fmt.Sprintf("%s/%s/%s.json", ReportPrefix, result.StartedAt.UTC().Format("2006/01/02"), result.ID)
}

// Archive uploads the report.
func (a *StorageArchiver) Archive(ctx context.Context, result *PassResult) error {
	body, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encode pass report: %w", err)
	}
	_, err = a.client.PutObject(ctx, a.bucket, ReportKey(result), bytes.NewReader(body), int64(len(body)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return fmt.Errorf("upload pass report: %w", err)
	}
	return nil
}
