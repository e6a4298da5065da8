package checks

import (
	"context"
	"fmt"

	"freight-relay/core/storage"

	"go.uber.org/zap"
)

// StorageReport describes the pass report archive bucket.
type StorageReport struct {
	Enabled bool   `json:"enabled"`
	Bucket  string `json:"bucket,omitempty"`
	Exists  bool   `json:"exists"`
	Created bool   `json:"created"`
}

// CheckStorage reports whether the archive bucket exists and creates it when fix is set.
// A nil client means archiving is disabled.
func CheckStorage(ctx context.Context, client storage.Client, bucket, region string, fix bool, logger *zap.Logger) (*StorageReport, error) {
	if client == nil {
		return &StorageReport{}, nil
	}
	report := &StorageReport{Enabled: true, Bucket: bucket}

	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket existence: %w", err)
	}
	report.Exists = exists
	if exists || !fix {
		return report, nil
	}

	if err := storage.EnsureBucket(ctx, client, bucket, region); err != nil {
		logger.Error("Failed to create archive bucket", zap.String("bucket", bucket), zap.Error(err))
		return nil, err
	}
	logger.Info("Created archive bucket", zap.String("bucket", bucket))
	report.Exists = true
	report.Created = true
	return report, nil
}
