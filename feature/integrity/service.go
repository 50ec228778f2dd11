package integrity

import (
	"context"
	"errors"

	"inventory-tracker/core/storage"
	"inventory-tracker/feature/integrity/checks"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrArchiveDisabled is returned by archive checks when no object store is configured.
var ErrArchiveDisabled = errors.New("page archive is not configured")

// Service handles integrity checks.
type Service struct {
	db     *gorm.DB
	client storage.Client
	bucket string
	region string
	logger *zap.Logger
}

// NewService creates a new integrity service. client may be nil when the
// page archive is disabled.
func NewService(db *gorm.DB, client storage.Client, bucket, region string, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		db:     db,
		client: client,
		bucket: bucket,
		region: region,
		logger: logger,
	}
}

// CheckSchema compares the live database schema with the inventory models.
func (s *Service) CheckSchema() (*checks.SchemaReport, error) {
	return checks.CheckSchema(s.db)
}

// CheckArchive inspects the page archive bucket.
func (s *Service) CheckArchive(ctx context.Context) (*checks.ArchiveReport, error) {
	if s.client == nil {
		return nil, ErrArchiveDisabled
	}
	return checks.CheckArchive(ctx, s.client, s.bucket)
}

// FixArchive creates the page archive bucket.
func (s *Service) FixArchive(ctx context.Context) error {
	if s.client == nil {
		return ErrArchiveDisabled
	}
	return checks.FixArchive(ctx, s.client, s.bucket, s.region, s.logger)
}
