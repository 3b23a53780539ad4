package storefront

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"catalog-mirror/core/reconcile"
	catalogmodels "catalog-mirror/feature/catalog/models"
	"catalog-mirror/feature/storefront/compose"
	"catalog-mirror/feature/storefront/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	// ErrStoreNotFound is returned when a store id does not exist.
	ErrStoreNotFound = errors.New("store not found")
	// ErrInvalidStore is returned when a store definition is rejected.
	ErrInvalidStore = errors.New("invalid store")
)

// StoreInput is the editable part of a store.
type StoreInput struct {
	Name             string                `json:"name"`
	Slug             string                `json:"slug"`
	InternalName     string                `json:"internal_name"`
	ArtistID         int64                 `json:"artist_id"`
	ItemsPerPage     int                   `json:"items_per_page"`
	ShowAllItems     bool                  `json:"show_all_items"`
	GridColumns      int                   `json:"grid_columns"`
	DefaultSorting   string                `json:"default_sorting"`
	DefaultSortingBy string                `json:"default_sorting_by"`
	ItemsOrder       []compose.ManualEntry `json:"items_order"`
	DescLength       int                   `json:"desc_length"`
	SaleTag          string                `json:"sale_tag"`
	// OfferTypes are the active offer types, in display order.
	OfferTypes []string `json:"offer_types"`
	// Tags are the active tags, in display order.
	Tags []string `json:"tags"`
	// FeaturedItems are item ids in display order. Zero ids are ignored.
	FeaturedItems []int64 `json:"featured_items"`
}

// Page is one page of a composed store listing.
type Page struct {
	StoreID    int64              `json:"store_id"`
	Page       int                `json:"page"`
	PerPage    int                `json:"per_page"`
	Total      int                `json:"total"`
	TotalPages int                `json:"total_pages"`
	Items      []compose.ItemView `json:"items"`
}

// Service manages stores and composes their listings.
type Service struct {
	db       *gorm.DB
	composer *compose.Composer
	cache    *reconcile.ViewCache[[]compose.ItemView]
	logger   *zap.Logger
}

// NewService creates a storefront service.
func NewService(db *gorm.DB, cfg Config, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		db:       db,
		composer: compose.NewComposer(db, cfg.ImageSize, logger),
		cache:    reconcile.NewViewCache[[]compose.ItemView](cfg.CacheTTL()),
		logger:   logger,
	}
}

// CreateStore creates a published store with its activation and featured lists.
func (s *Service) CreateStore(ctx context.Context, in StoreInput) (*models.Store, error) {
	store := &models.Store{Status: models.StatusPublish}
	if err := apply(store, in); err != nil {
		return nil, err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("OfferTypes", "Tags", "FeaturedItems").Create(store).Error; err != nil {
			return fmt.Errorf("failed to create store: %w", err)
		}
		return writeChildren(ctx, tx, store.ID, in)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Store created", zap.Int64("store_id", store.ID), zap.Int64("artist_id", store.ArtistID))
	return s.GetStore(ctx, store.ID)
}

// UpdateStore replaces a store's settings and rewrites its child lists.
func (s *Service) UpdateStore(ctx context.Context, id int64, in StoreInput) (*models.Store, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var store models.Store
		if err := tx.First(&store, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrStoreNotFound
			}
			return fmt.Errorf("failed to load store %d: %w", id, err)
		}
		if err := apply(&store, in); err != nil {
			return err
		}
		if err := tx.Omit("OfferTypes", "Tags", "FeaturedItems").Save(&store).Error; err != nil {
			return fmt.Errorf("failed to update store %d: %w", id, err)
		}
		return writeChildren(ctx, tx, id, in)
	})
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate(cachePrefix(id))
	s.logger.Info("Store updated", zap.Int64("store_id", id))
	return s.GetStore(ctx, id)
}

// DeleteStore moves a store to the trash, or removes it with its child rows when force is set.
func (s *Service) DeleteStore(ctx context.Context, id int64, force bool) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var store models.Store
		if err := tx.First(&store, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrStoreNotFound
			}
			return fmt.Errorf("failed to load store %d: %w", id, err)
		}
		if !force {
			return tx.Model(&store).Update("status", models.StatusTrash).Error
		}
		for _, child := range []any{&models.StoreOfferType{}, &models.StoreTag{}, &models.StoreFeaturedItem{}} {
			if err := tx.Where("store_id = ?", id).Delete(child).Error; err != nil {
				return fmt.Errorf("failed to delete children of store %d: %w", id, err)
			}
		}
		return tx.Delete(&store).Error
	})
	if err != nil {
		return err
	}

	s.cache.Invalidate(cachePrefix(id))
	s.logger.Info("Store deleted", zap.Int64("store_id", id), zap.Bool("force", force))
	return nil
}

// GetStore loads a store with its ordered child lists. Tags of the store's artist that the store
// has no row for are appended as inactive.
func (s *Service) GetStore(ctx context.Context, id int64) (*models.Store, error) {
	store, err := s.loadStore(ctx, id)
	if err != nil {
		return nil, err
	}

	names, err := s.offerTypeNames(ctx)
	if err != nil {
		return nil, err
	}
	for i := range store.OfferTypes {
		store.OfferTypes[i].Name = names[store.OfferTypes[i].Type]
	}

	known, err := artistTags(ctx, s.db, store.ArtistID)
	if err != nil {
		return nil, err
	}
	for _, tag := range known {
		if !slices.ContainsFunc(store.Tags, func(t models.StoreTag) bool { return t.Tag == tag }) {
			store.Tags = append(store.Tags, models.StoreTag{StoreID: id, Tag: tag, Status: models.Inactive})
		}
	}
	return store, nil
}

// ListStores lists stores, optionally restricted to one status.
func (s *Service) ListStores(ctx context.Context, status string) ([]models.Store, error) {
	q := s.db.WithContext(ctx).Order("id")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var stores []models.Store
	if err := q.Find(&stores).Error; err != nil {
		return nil, fmt.Errorf("failed to list stores: %w", err)
	}
	return stores, nil
}

// ComposeStoreItems returns the composed listing of a store, served from the listing cache
// when possible.
func (s *Service) ComposeStoreItems(ctx context.Context, storeID int64, showHidden bool, artistOverride int64) ([]compose.ItemView, error) {
	key := fmt.Sprintf("%s%t:%d", cachePrefix(storeID), showHidden, artistOverride)
	return s.cache.GetOrBuild(key, func() ([]compose.ItemView, error) {
		store, err := s.loadStore(ctx, storeID)
		if err != nil {
			return nil, err
		}
		return s.composer.ComposeStoreItems(ctx, store, showHidden, artistOverride)
	})
}

// StorePage returns one page of a store's listing, sized by the store's items per page.
// Stores showing all items are returned on a single page.
func (s *Service) StorePage(ctx context.Context, storeID int64, page int, showHidden bool, artistOverride int64) (*Page, error) {
	store, err := s.loadStore(ctx, storeID)
	if err != nil {
		return nil, err
	}
	items, err := s.ComposeStoreItems(ctx, storeID, showHidden, artistOverride)
	if err != nil {
		return nil, err
	}

	perPage := store.ItemsPerPage
	if store.ShowAllItems {
		perPage = 0
	}
	if page < 1 {
		page = 1
	}
	totalPages := 1
	if perPage > 0 {
		totalPages = max(1, (len(items)+perPage-1)/perPage)
	}
	return &Page{
		StoreID:    storeID,
		Page:       page,
		PerPage:    perPage,
		Total:      len(items),
		TotalPages: totalPages,
		Items:      compose.Paginate(items, perPage, page),
	}, nil
}

// ComposeFilteredItems lists items outside any store.
func (s *Service) ComposeFilteredItems(ctx context.Context, offerTypes, tags []string, artistID int64, order string) ([]compose.ItemView, error) {
	return s.composer.ComposeFilteredItems(ctx, offerTypes, tags, artistID, order)
}

// GetFeaturedItems returns a store's featured items in order.
func (s *Service) GetFeaturedItems(ctx context.Context, storeID int64) ([]compose.ItemView, error) {
	if _, err := s.loadStore(ctx, storeID); err != nil {
		return nil, err
	}
	var ids []int64
	err := s.db.WithContext(ctx).Model(&models.StoreFeaturedItem{}).
		Where("store_id = ? AND item_id > 0", storeID).
		Order("order_num").
		Pluck("item_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load featured items of store %d: %w", storeID, err)
	}
	return s.composer.ResolveItems(ctx, ids)
}

// Invalidate drops every cached listing. It is called after sync runs.
func (s *Service) Invalidate() {
	s.cache.Invalidate("")
}

func (s *Service) loadStore(ctx context.Context, id int64) (*models.Store, error) {
	var store models.Store
	err := s.db.WithContext(ctx).
		Preload("OfferTypes", func(db *gorm.DB) *gorm.DB { return db.Order("order_num") }).
		Preload("Tags", func(db *gorm.DB) *gorm.DB { return db.Order("order_num") }).
		Preload("FeaturedItems", func(db *gorm.DB) *gorm.DB { return db.Order("order_num") }).
		First(&store, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrStoreNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load store %d: %w", id, err)
	}
	return &store, nil
}

// writeChildren rewrites the activation and featured lists. Active keys come first in the given
// order, then every other known key as inactive, with order_num running across both.
func writeChildren(ctx context.Context, tx *gorm.DB, storeID int64, in StoreInput) error {
	knownTypes, err := knownOfferTypes(ctx, tx)
	if err != nil {
		return err
	}
	for _, t := range in.OfferTypes {
		if t != "" && !slices.Contains(knownTypes, t) {
			return fmt.Errorf("%w: unknown offer type %q", ErrInvalidStore, t)
		}
	}
	knownTags, err := artistTags(ctx, tx, in.ArtistID)
	if err != nil {
		return err
	}

	var offerTypes []models.StoreOfferType
	for i, key := range activation(in.OfferTypes, knownTypes) {
		offerTypes = append(offerTypes, models.StoreOfferType{StoreID: storeID, Type: key.name, OrderNum: i, Status: key.status})
	}
	var tags []models.StoreTag
	for i, key := range activation(in.Tags, knownTags) {
		tags = append(tags, models.StoreTag{StoreID: storeID, Tag: key.name, OrderNum: i, Status: key.status})
	}
	var featured []models.StoreFeaturedItem
	for _, itemID := range in.FeaturedItems {
		if itemID > 0 {
			featured = append(featured, models.StoreFeaturedItem{StoreID: storeID, OrderNum: len(featured), ItemID: itemID})
		}
	}

	for _, child := range []any{&models.StoreOfferType{}, &models.StoreTag{}, &models.StoreFeaturedItem{}} {
		if err := tx.Where("store_id = ?", storeID).Delete(child).Error; err != nil {
			return fmt.Errorf("failed to clear children of store %d: %w", storeID, err)
		}
	}
	if len(offerTypes) > 0 {
		if err := tx.Create(&offerTypes).Error; err != nil {
			return fmt.Errorf("failed to store offer types of store %d: %w", storeID, err)
		}
	}
	if len(tags) > 0 {
		if err := tx.Create(&tags).Error; err != nil {
			return fmt.Errorf("failed to store tags of store %d: %w", storeID, err)
		}
	}
	if len(featured) > 0 {
		if err := tx.Create(&featured).Error; err != nil {
			return fmt.Errorf("failed to store featured items of store %d: %w", storeID, err)
		}
	}
	return nil
}

func knownOfferTypes(ctx context.Context, db *gorm.DB) ([]string, error) {
	var types []string
	if err := db.WithContext(ctx).Model(&catalogmodels.OfferType{}).Order("position").Pluck("type", &types).Error; err != nil {
		return nil, fmt.Errorf("failed to load offer types: %w", err)
	}
	return types, nil
}

func (s *Service) offerTypeNames(ctx context.Context) (map[string]string, error) {
	var rows []catalogmodels.OfferType
	if err := s.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load offer types: %w", err)
	}
	names := make(map[string]string, len(rows))
	for _, r := range rows {
		names[r.Type] = r.Name
	}
	return names, nil
}

func artistTags(ctx context.Context, db *gorm.DB, artistID int64) ([]string, error) {
	var names []string
	err := db.WithContext(ctx).Model(&catalogmodels.Tag{}).
		Where("artist_id = ?", artistID).
		Order("id").
		Pluck("name", &names).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load tags of artist %d: %w", artistID, err)
	}
	return names, nil
}

type activationKey struct {
	name   string
	status int
}

// activation orders active keys first, then the remaining known keys as inactive.
// Blank and repeated keys are dropped.
func activation(active, known []string) []activationKey {
	seen := make(map[string]struct{}, len(active)+len(known))
	out := make([]activationKey, 0, len(active)+len(known))
	add := func(name string, status int) {
		if name == "" {
			return
		}
		if _, ok := seen[name]; ok {
			return
		}
		seen[name] = struct{}{}
		out = append(out, activationKey{name: name, status: status})
	}
	for _, k := range active {
		add(k, models.Active)
	}
	for _, k := range known {
		add(k, models.Inactive)
	}
	return out
}

func apply(store *models.Store, in StoreInput) error {
	if in.ArtistID <= 0 {
		return fmt.Errorf("%w: artist_id is required", ErrInvalidStore)
	}
	if in.ItemsPerPage < 0 {
		return fmt.Errorf("%w: items_per_page must not be negative", ErrInvalidStore)
	}

	sorting := in.DefaultSorting
	switch sorting {
	case "":
		sorting = models.SortChronological
	case models.SortAlphabetical, models.SortChronological:
	default:
		return fmt.Errorf("%w: unknown default_sorting %q", ErrInvalidStore, sorting)
	}
	sortingBy := in.DefaultSortingBy
	switch sortingBy {
	case "":
		sortingBy = models.SortByOfferType
	case models.SortByOfferType, models.SortByTag, models.SortByManual:
	default:
		return fmt.Errorf("%w: unknown default_sorting_by %q", ErrInvalidStore, sortingBy)
	}
	if err := compose.ValidateManualOrder(in.ItemsOrder); err != nil {
		return fmt.Errorf("items_order: %w", err)
	}

	store.Name = in.Name
	store.Slug = in.Slug
	store.InternalName = in.InternalName
	store.ArtistID = in.ArtistID
	store.ItemsPerPage = in.ItemsPerPage
	store.ShowAllItems = in.ShowAllItems
	store.GridColumns = in.GridColumns
	store.DefaultSorting = sorting
	store.DefaultSortingBy = sortingBy
	store.ItemsOrder = compose.FormatManualOrder(in.ItemsOrder)
	store.DescLength = in.DescLength
	store.SaleTag = in.SaleTag
	return nil
}

func cachePrefix(storeID int64) string {
	return fmt.Sprintf("store:%d:", storeID)
}
