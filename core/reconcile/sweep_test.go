package reconcile

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type row struct {
	ID           int64     `gorm:"column:id;primaryKey"`
	ArtistID     int64     `gorm:"column:artist_id"`
	LastModified time.Time `gorm:"column:last_modified"`
}

func (row) TableName() string { return "rows" }

type child struct {
	ID    int64 `gorm:"column:id;primaryKey"`
	RowID int64 `gorm:"column:row_id"`
}

func (child) TableName() string { return "children" }

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&row{}, &child{}))
	return db
}

func TestSweepStrays(t *testing.T) {
	ctx := context.Background()
	watermark := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	old := watermark.Add(-time.Hour)

	seed := func(db *gorm.DB) {
		require.NoError(t, db.Create(&[]row{
			{ID: 1, ArtistID: 10, LastModified: old},
			{ID: 2, ArtistID: 10, LastModified: watermark},
			{ID: 3, ArtistID: 20, LastModified: old},
			{ID: 4, ArtistID: 30, LastModified: old},
		}).Error)
	}

	remaining := func(db *gorm.DB) []int64 {
		var ids []int64
		require.NoError(t, db.Model(&row{}).Order("id").Pluck("id", &ids).Error)
		return ids
	}

	t.Run("Global", func(t *testing.T) {
		db := setupTestDB(t)
		seed(db)

		n, err := SweepStrays(ctx, db, "rows", "last_modified", watermark, SweepFilter{})
		require.NoError(t, err)
		assert.Equal(t, int64(3), n)
		assert.Equal(t, []int64{2}, remaining(db))
	})

	t.Run("Include", func(t *testing.T) {
		db := setupTestDB(t)
		seed(db)

		n, err := SweepStrays(ctx, db, "rows", "last_modified", watermark, SweepFilter{Column: "artist_id", Include: []int64{10}})
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
		assert.Equal(t, []int64{2, 3, 4}, remaining(db))
	})

	t.Run("Exclude", func(t *testing.T) {
		db := setupTestDB(t)
		seed(db)

		n, err := SweepStrays(ctx, db, "rows", "last_modified", watermark, SweepFilter{Column: "artist_id", Exclude: []int64{10, 20}})
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
		assert.Equal(t, []int64{1, 2, 3}, remaining(db))
	})
}

func TestCleanupOrphans(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, db.Create(&row{ID: 1, LastModified: time.Now()}).Error)
	require.NoError(t, db.Create(&[]child{{ID: 1, RowID: 1}, {ID: 2, RowID: 99}, {ID: 3, RowID: 98}}).Error)

	n, err := CleanupOrphans(context.Background(), db, "children", "row_id", "rows", "id")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	var count int64
	db.Model(&child{}).Count(&count)
	assert.Equal(t, int64(1), count)
}
