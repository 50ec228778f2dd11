package checks

import (
	"context"
	"fmt"

	"inventory-tracker/core/storage"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// ArchiveReport describes the raw page archive bucket.
type ArchiveReport struct {
	Bucket      string `json:"bucket"`
	Exists      bool   `json:"exists"`
	HasCycles   bool   `json:"has_cycles"`
	LatestCycle string `json:"latest_cycle,omitempty"`
}

// CheckArchive reports whether the archive bucket exists and holds cycles.
func CheckArchive(ctx context.Context, client storage.Client, bucket string) (*ArchiveReport, error) {
	report := &ArchiveReport{Bucket: bucket}

	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket existence: %w", err)
	}
	report.Exists = exists
	if !exists {
		return report, nil
	}

	opts := minio.ListObjectsOptions{Prefix: "cycles/", Recursive: false}
	for obj := range client.ListObjects(ctx, bucket, opts) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list archived cycles: %w", obj.Err)
		}
		report.HasCycles = true
		if obj.Key > report.LatestCycle {
			report.LatestCycle = obj.Key
		}
	}
	return report, nil
}

// FixArchive creates the archive bucket.
func FixArchive(ctx context.Context, client storage.Client, bucket, region string, logger *zap.Logger) error {
	if err := storage.EnsureBucket(ctx, client, bucket, region); err != nil {
		logger.Error("Failed to create archive bucket", zap.String("bucket", bucket), zap.Error(err))
		return err
	}
	logger.Info("Archive bucket ready", zap.String("bucket", bucket))
	return nil
}
