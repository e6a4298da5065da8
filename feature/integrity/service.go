package integrity

import (
	"context"

	"freight-relay/core/storage"
	"freight-relay/feature/integrity/checks"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Service handles integrity checks.
type Service struct {
	db     *gorm.DB
	models []any
	client storage.Client
	bucket string
	region string
	logger *zap.Logger
}

// NewService creates a new integrity service. client may be nil when
// archiving is disabled.
func NewService(db *gorm.DB, models []any, client storage.Client, cfg storage.Config, logger *zap.Logger) *Service {
	return &Service{
		db:     db,
		models: models,
		client: client,
		bucket: cfg.Bucket,
		region: cfg.Region,
		logger: logger,
	}
}

// CheckSchema compares the live schema with the models.
func (s *Service) CheckSchema() (*checks.SchemaReport, error) {
	return checks.CheckSchema(s.db, s.models...)
}

// CheckStorage reports on the archive bucket and optionally creates it.
func (s *Service) CheckStorage(ctx context.Context, fix bool) (*checks.StorageReport, error) {
	return checks.CheckStorage(ctx, s.client, s.bucket, s.region, fix, s.logger)
}
