// Package storage provides an abstraction layer for object storage services.
//
// It wraps the MinIO Go client behind a small Client interface so that the
// raw page archive can run against S3 or a self-hosted MinIO, and so that
// tests can substitute the testify mock in core/storage/mocks.
//
// # Operations
//
//   - BucketExists / MakeBucket: bucket checks used by EnsureBucket and the integrity check.
//   - PutObject: stores one archived vendor page.
//   - GetObject: reads an archived page back for replay.
//   - ListObjects: enumerates archived cycles.
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	err = storage.EnsureBucket(ctx, client, cfg.Storage.Bucket, cfg.Storage.Region)
package storage
