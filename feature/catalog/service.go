package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"catalog-mirror/core/reconcile"
	"catalog-mirror/feature/catalog/models"
	"catalog-mirror/feature/catalog/syncer"
	"catalog-mirror/feature/storefront/compose"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrNoDatabase is returned when the feature runs without a database connection.
var ErrNoDatabase = errors.New("database connection is not configured")

// OrderView is an order with its display currency symbol.
type OrderView struct {
	models.Order
	CurrencySymbol string `json:"currency_symbol"`
}

// PopularProduct is a buy button item with the quantity sold across all orders.
type PopularProduct struct {
	models.Item
	TotalSold int64 `gorm:"column:total_sold" json:"total_sold"`
}

// SyncStatus is the sync history with human readable ages.
type SyncStatus struct {
	syncer.Status
	LastFullSyncAgo string            `json:"last_full_sync_ago,omitempty"`
	LastSyncAgo     map[string]string `json:"last_sync_ago,omitempty"`
}

// Service exposes the mirrored catalog and triggers syncs.
type Service struct {
	db     *gorm.DB
	syncer *syncer.Syncer
	logger *zap.Logger
}

// NewService creates a catalog service. The syncer may be nil when syncing is not available.
func NewService(db *gorm.DB, s *syncer.Syncer, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{db: db, syncer: s, logger: logger}
}

// ListArtists returns the mirrored artists ordered by name, restricted to ids when given.
func (s *Service) ListArtists(ctx context.Context, ids []int64) ([]models.Artist, error) {
	if s.db == nil {
		return nil, ErrNoDatabase
	}
	q := s.db.WithContext(ctx).Order("name").Order("id")
	if len(ids) > 0 {
		q = q.Where("id IN ?", ids)
	}
	var artists []models.Artist
	if err := q.Find(&artists).Error; err != nil {
		return nil, fmt.Errorf("failed to list artists: %w", err)
	}
	return artists, nil
}

// ListOrders returns orders newest first with their line items, restricted to artists when given.
func (s *Service) ListOrders(ctx context.Context, artistIDs []int64) ([]OrderView, error) {
	if s.db == nil {
		return nil, ErrNoDatabase
	}
	q := s.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Order("created_at DESC").Order("id DESC")
	if len(artistIDs) > 0 {
		q = q.Where("artist_id IN ?", artistIDs)
	}
	var orders []models.Order
	if err := q.Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	views := make([]OrderView, len(orders))
	for i, o := range orders {
		views[i] = OrderView{Order: o, CurrencySymbol: compose.CurrencySymbol(o.Currency)}
	}
	return views, nil
}

// MostPopularProducts ranks an artist's buy button items by quantity sold.
// A limit of zero or less returns every ranked item.
func (s *Service) MostPopularProducts(ctx context.Context, artistID int64, limit int) ([]PopularProduct, error) {
	if s.db == nil {
		return nil, ErrNoDatabase
	}
	q := s.db.WithContext(ctx).
		Table("order_items").
		Select("items.*, SUM(order_items.quantity) AS total_sold").
		Joins("JOIN items ON items.campaign_id = order_items.campaign_id").
		Where("items.offer_type = ?", "buy_button").
		Group("items.id").
		Order("total_sold DESC").Order("items.id")
	if artistID > 0 {
		q = q.Where("items.artist_id = ?", artistID)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	var out []PopularProduct
	if err := q.Scan(&out).Error; err != nil {
		return nil, fmt.Errorf("failed to rank products of artist %d: %w", artistID, err)
	}
	return out, nil
}

// ListOfferTypes returns the known offer types in display order.
func (s *Service) ListOfferTypes(ctx context.Context) ([]models.OfferType, error) {
	if s.db == nil {
		return nil, ErrNoDatabase
	}
	var types []models.OfferType
	if err := s.db.WithContext(ctx).Order("position").Find(&types).Error; err != nil {
		return nil, fmt.Errorf("failed to list offer types: %w", err)
	}
	return types, nil
}

// ListTags returns an artist's tags ordered by name.
func (s *Service) ListTags(ctx context.Context, artistID int64) ([]models.Tag, error) {
	if s.db == nil {
		return nil, ErrNoDatabase
	}
	var tags []models.Tag
	err := s.db.WithContext(ctx).Where("artist_id = ?", artistID).Order("name").Order("id").Find(&tags).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list tags of artist %d: %w", artistID, err)
	}
	return tags, nil
}

// StartSync launches a run in the background. It fails fast with syncer.ErrSyncInProgress
// when a run is already active.
func (s *Service) StartSync(scope reconcile.Scope, artistIDs []int64) error {
	if s.syncer == nil {
		return ErrNoDatabase
	}
	if s.syncer.Running() {
		return syncer.ErrSyncInProgress
	}

	go func() {
		report, err := s.syncer.Run(context.Background(), scope, syncer.RunOptions{ArtistIDs: artistIDs})
		if err != nil {
			s.logger.Error("Background catalog sync failed", zap.String("scope", string(scope)), zap.Error(err))
			return
		}
		s.logger.Info("Background catalog sync finished",
			zap.String("run_id", report.RunID),
			zap.Bool("skipped", report.Skipped),
			zap.Duration("duration", report.Duration))
	}()
	return nil
}

// SyncStatus reports the sync history.
func (s *Service) SyncStatus(ctx context.Context) (*SyncStatus, error) {
	if s.syncer == nil {
		return nil, ErrNoDatabase
	}
	st, err := s.syncer.Status(ctx)
	if err != nil {
		return nil, err
	}
	return describeStatus(st, time.Now()), nil
}

func describeStatus(st *syncer.Status, now time.Time) *SyncStatus {
	out := &SyncStatus{Status: *st, LastSyncAgo: make(map[string]string, len(st.LastSync))}
	if st.LastFullSync != nil {
		out.LastFullSyncAgo = humanize.RelTime(*st.LastFullSync, now, "ago", "from now")
	}
	for scope, t := range st.LastSync {
		out.LastSyncAgo[string(scope)] = humanize.RelTime(t, now, "ago", "from now")
	}
	return out
}
