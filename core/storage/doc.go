// Package storage provides an abstraction layer for object storage services.
//
// It wraps the MinIO Go client behind the Client interface so catalog snapshots can be
// written to and read from AWS S3 or a self-hosted MinIO instance, and mocked in tests
// (see core/storage/mocks).
//
// # Helpers
//
//   - EnsureBucket: creates the snapshot bucket on first use.
//   - IsNotFound: recognises a missing object, which MinIO reports on first read.
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	err = storage.EnsureBucket(ctx, client, cfg.Storage.Bucket, cfg.Storage.Region)
package storage
