package integrity

import (
	"context"
	"fmt"

	"catalog-mirror/core/storage"
	"catalog-mirror/feature/integrity/checks"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Options selects what the integrity checks inspect.
type Options struct {
	// Bucket holds the catalog snapshots.
	Bucket string
	// Region is used when the bucket has to be created.
	Region string
	// SnapshotKeys are the objects a prefetching sync expects to find.
	SnapshotKeys []string
	// Models are the tables the schema check compares against.
	Models []any
}

// Service handles integrity checks.
type Service struct {
	client storage.Client
	db     *gorm.DB
	opts   Options
	logger *zap.Logger
}

// NewService creates a new integrity service. Either client or db may be nil; the matching
// check then reports an error.
func NewService(client storage.Client, db *gorm.DB, opts Options, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		client: client,
		db:     db,
		opts:   opts,
		logger: logger,
	}
}

// CheckSchema compares the database tables with the models.
func (s *Service) CheckSchema() (*checks.SchemaReport, error) {
	return checks.CheckSchema(s.db, s.opts.Models)
}

// CheckStorage reports whether the snapshot bucket and snapshots exist.
func (s *Service) CheckStorage(ctx context.Context) (*checks.StorageReport, error) {
	if s.client == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	return checks.CheckStorage(ctx, s.client, s.opts.Bucket, s.opts.SnapshotKeys)
}

// FixStorage creates the snapshot bucket.
func (s *Service) FixStorage(ctx context.Context) error {
	if s.client == nil {
		return fmt.Errorf("storage is not configured")
	}
	return checks.FixStorage(ctx, s.client, s.opts.Bucket, s.opts.Region, s.logger)
}
