package reconcile

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// SweepFilter narrows a stray sweep. Zero values mean no restriction.
type SweepFilter struct {
	// Column is the column the id lists apply to (e.g. artist_id).
	Column string
	// Include keeps the sweep to rows whose Column is in the list.
	Include []int64
	// Exclude keeps the sweep to rows whose Column is not in the list.
	Exclude []int64
}

// SweepStrays deletes every row of table whose watermark column predates watermark.
func SweepStrays(ctx context.Context, db *gorm.DB, table, column string, watermark time.Time, filter SweepFilter) (int64, error) {
	q := db.WithContext(ctx).Table(table).Where(column+" < ?", watermark)
	if filter.Column != "" && len(filter.Include) > 0 {
		q = q.Where(filter.Column+" IN ?", filter.Include)
	}
	if filter.Column != "" && len(filter.Exclude) > 0 {
		q = q.Where(filter.Column+" NOT IN ?", filter.Exclude)
	}
	res := q.Delete(nil)
	if res.Error != nil {
		return 0, fmt.Errorf("failed to sweep strays from %s: %w", table, res.Error)
	}
	return res.RowsAffected, nil
}

// CleanupOrphans deletes child rows whose foreign key no longer references a parent row.
func CleanupOrphans(ctx context.Context, db *gorm.DB, childTable, fkColumn, parentTable, parentKey string) (int64, error) {
	sub := db.Table(parentTable).Select(parentKey)
	res := db.WithContext(ctx).Table(childTable).Where(fkColumn+" NOT IN (?)", sub).Delete(nil)
	if res.Error != nil {
		return 0, fmt.Errorf("failed to clean orphans from %s: %w", childTable, res.Error)
	}
	return res.RowsAffected, nil
}
