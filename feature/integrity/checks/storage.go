package checks

import (
	"context"
	"fmt"

	"catalog-mirror/core/storage"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// StorageReport describes the snapshot bucket.
type StorageReport struct {
	Bucket string `json:"bucket"`
	Exists bool   `json:"exists"`
	// Missing lists snapshot keys a prefetching run would not find and fetch from the API instead.
	Missing []string `json:"missing"`
}

// CheckStorage verifies the bucket exists and lists which of keys are absent.
func CheckStorage(ctx context.Context, client storage.Client, bucket string, keys []string) (*StorageReport, error) {
	report := &StorageReport{Bucket: bucket, Missing: []string{}}

	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket existence: %w", err)
	}
	report.Exists = exists
	if !exists {
		report.Missing = append(report.Missing, keys...)
		return report, nil
	}

	for _, key := range keys {
		opts := minio.ListObjectsOptions{
			Prefix:    key,
			Recursive: false,
			MaxKeys:   1,
		}

		found := false
		for obj := range client.ListObjects(ctx, bucket, opts) {
			if obj.Err == nil && obj.Key == key {
				found = true
			}
			break
		}

		if !found {
			report.Missing = append(report.Missing, key)
		}
	}

	return report, nil
}

// FixStorage creates the bucket when it is missing. Snapshots themselves are written by sync runs.
func FixStorage(ctx context.Context, client storage.Client, bucket, region string, logger *zap.Logger) error {
	if err := storage.EnsureBucket(ctx, client, bucket, region); err != nil {
		logger.Error("Failed to create bucket", zap.String("bucket", bucket), zap.Error(err))
		return err
	}
	logger.Info("Bucket ready", zap.String("bucket", bucket))
	return nil
}
