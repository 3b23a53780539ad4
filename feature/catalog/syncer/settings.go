package syncer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"catalog-mirror/core/reconcile"
	"catalog-mirror/feature/catalog/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SettingLastFullSync records the watermark of the last successful full run.
const SettingLastFullSync = "last_full_sync"

func lastSyncKey(scope reconcile.Scope) string {
	return "last_sync_" + string(scope)
}

// PutSetting stores or replaces a setting.
func PutSetting(ctx context.Context, db *gorm.DB, name, value string) error {
	err := db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(&models.Setting{Name: name, Value: value}).Error
	if err != nil {
		return fmt.Errorf("failed to store setting %s: %w", name, err)
	}
	return nil
}

// GetSetting returns a setting, or "" with ok false when it was never stored.
func GetSetting(ctx context.Context, db *gorm.DB, name string) (string, bool, error) {
	var s models.Setting
	err := db.WithContext(ctx).Where("name = ?", name).Take(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read setting %s: %w", name, err)
	}
	return s.Value, true, nil
}

// Status describes the mirror's sync history.
type Status struct {
	Running      bool                          `json:"running"`
	LastFullSync *time.Time                    `json:"last_full_sync,omitempty"`
	LastSync     map[reconcile.Scope]time.Time `json:"last_sync"`
	Artists      int64                         `json:"artists"`
	Items        int64                         `json:"items"`
	Orders       int64                         `json:"orders"`
}

// Status reads the recorded sync times and row counts.
func (s *Syncer) Status(ctx context.Context) (*Status, error) {
	st := &Status{Running: s.Running(), LastSync: make(map[reconcile.Scope]time.Time)}

	if t, ok, err := readTime(ctx, s.db, SettingLastFullSync); err != nil {
		return nil, err
	} else if ok {
		st.LastFullSync = &t
	}
	for _, scope := range []reconcile.Scope{reconcile.ScopeArtists, reconcile.ScopeItems, reconcile.ScopeOrders} {
		t, ok, err := readTime(ctx, s.db, lastSyncKey(scope))
		if err != nil {
			return nil, err
		}
		if ok {
			st.LastSync[scope] = t
		}
	}

	db := s.db.WithContext(ctx)
	counts := []struct {
		model any
		out   *int64
	}{
		{&models.Artist{}, &st.Artists},
		{&models.Item{}, &st.Items},
		{&models.Order{}, &st.Orders},
	}
	for _, c := range counts {
		if err := db.Model(c.model).Count(c.out).Error; err != nil {
			return nil, fmt.Errorf("failed to count rows: %w", err)
		}
	}
	return st, nil
}

func readTime(ctx context.Context, db *gorm.DB, name string) (time.Time, bool, error) {
	v, ok, err := GetSetting(ctx, db, name)
	if err != nil || !ok {
		return time.Time{}, false, err
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return time.Time{}, false, nil
	}
	return t, true, nil
}
