package compose

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"catalog-mirror/feature/catalog/models"
	storemodels "catalog-mirror/feature/storefront/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// batchSize bounds the number of ids bound into a single IN predicate.
const batchSize = 500

// Filter selects candidate items. Empty lists and a zero ArtistID do not restrict.
type Filter struct {
	ArtistID     int64
	OfferTypes   []string
	Tags         []string
	Alphabetical bool
}

// Composer derives storefront listings from the mirrored catalog.
type Composer struct {
	db        *gorm.DB
	imageSize string
	logger    *zap.Logger
}

// NewComposer creates a Composer resolving default images at imageSize.
func NewComposer(db *gorm.DB, imageSize string, logger *zap.Logger) *Composer {
	if imageSize == "" {
		imageSize = models.ImageLarge
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Composer{db: db, imageSize: imageSize, logger: logger}
}

// ComposeStoreItems returns the ordered listing of store. artistOverride replaces the store's
// artist when positive; a store with neither lists nothing. Hidden manual entries, and candidates missing from the manual order,
// are only returned when showHidden is set.
func (c *Composer) ComposeStoreItems(ctx context.Context, store *storemodels.Store, showHidden bool, artistOverride int64) ([]ItemView, error) {
	if store == nil {
		return nil, fmt.Errorf("store is nil")
	}
	artistID := store.ArtistID
	if artistOverride > 0 {
		artistID = artistOverride
	}
	if artistID <= 0 {
		return []ItemView{}, nil
	}
	offerTypes := nonBlank(store.ActiveOfferTypes())
	tags := nonBlank(store.ActiveTags())

	items, err := c.candidates(ctx, Filter{
		ArtistID:     artistID,
		OfferTypes:   offerTypes,
		Tags:         tags,
		Alphabetical: store.Alphabetical(),
	})
	if err != nil {
		return nil, err
	}
	tagsByItem, err := c.loadTags(ctx, ids(items))
	if err != nil {
		return nil, err
	}

	var visible []bool
	switch store.DefaultSortingBy {
	case storemodels.SortByManual:
		entries, skipped := ParseManualOrder(store.ItemsOrder)
		if len(skipped) > 0 {
			c.logger.Warn("Skipping malformed manual order entries",
				zap.Int64("store_id", store.ID),
				zap.Strings("entries", skipped))
		}
		items, visible = arrangeManually(items, entries, showHidden)
	case storemodels.SortByTag:
		rankByTag(items, tags, tagsByItem)
	default:
		rankByOfferType(items, offerTypes)
	}

	return c.enrich(ctx, items, visible, tagsByItem)
}

// ComposeFilteredItems lists items matching the offer type and tag filters, ordered by name when
// order is "alphabetical" and by id otherwise. A zero artistID spans every artist.
func (c *Composer) ComposeFilteredItems(ctx context.Context, offerTypes, tags []string, artistID int64, order string) ([]ItemView, error) {
	items, err := c.candidates(ctx, Filter{
		ArtistID:     artistID,
		OfferTypes:   nonBlank(offerTypes),
		Tags:         nonBlank(tags),
		Alphabetical: order == storemodels.SortAlphabetical,
	})
	if err != nil {
		return nil, err
	}
	return c.enrich(ctx, items, nil, nil)
}

// ResolveItems composes the given items in the given order, skipping unknown and repeated ids.
func (c *Composer) ResolveItems(ctx context.Context, itemIDs []int64) ([]ItemView, error) {
	var found []models.Item
	for _, chunk := range chunks(itemIDs) {
		var batch []models.Item
		if err := c.db.WithContext(ctx).Where("id IN ?", chunk).Find(&batch).Error; err != nil {
			return nil, fmt.Errorf("failed to load items: %w", err)
		}
		found = append(found, batch...)
	}
	byID := make(map[int64]models.Item, len(found))
	for _, it := range found {
		byID[it.ID] = it
	}

	items := make([]models.Item, 0, len(itemIDs))
	seen := make(map[int64]struct{}, len(itemIDs))
	for _, id := range itemIDs {
		it, ok := byID[id]
		if !ok {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		items = append(items, it)
	}
	return c.enrich(ctx, items, nil, nil)
}

// candidates runs the single filtered query. Tag matching goes through a subquery so an item
// with several matching tags is returned once.
func (c *Composer) candidates(ctx context.Context, f Filter) ([]models.Item, error) {
	q := c.db.WithContext(ctx).Model(&models.Item{})
	if f.ArtistID > 0 {
		q = q.Where("artist_id = ?", f.ArtistID)
	}
	if len(f.OfferTypes) > 0 {
		q = q.Where("offer_type IN ?", f.OfferTypes)
	}
	if len(f.Tags) > 0 {
		sub := c.db.Model(&models.ItemTag{}).Select("item_id").Where("tag_name IN ?", f.Tags)
		q = q.Where("id IN (?)", sub)
	}
	if f.Alphabetical {
		q = q.Order("name ASC").Order("id ASC")
	} else {
		q = q.Order("id ASC")
	}

	var items []models.Item
	if err := q.Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to query items: %w", err)
	}
	return items, nil
}

// rankByOfferType groups items by the position of their offer type in active, keeping the base
// order inside each group.
func rankByOfferType(items []models.Item, active []string) {
	if len(active) == 0 {
		return
	}
	rank := positions(active)
	slices.SortStableFunc(items, func(a, b models.Item) int {
		return cmp.Compare(rankOf(rank, a.OfferType), rankOf(rank, b.OfferType))
	})
}

// rankByTag groups items under their first matching active tag, keeping the base order inside
// each group.
func rankByTag(items []models.Item, active []string, tagsByItem map[int64][]string) {
	if len(active) == 0 {
		return
	}
	rank := positions(active)
	best := make(map[int64]int, len(items))
	for _, it := range items {
		r := len(active)
		for _, t := range tagsByItem[it.ID] {
			r = min(r, rankOf(rank, t))
		}
		best[it.ID] = r
	}
	slices.SortStableFunc(items, func(a, b models.Item) int {
		return cmp.Compare(best[a.ID], best[b.ID])
	})
}

// arrangeManually walks entries over the candidate set. Without entries the candidates are
// returned as they are, all visible.
func arrangeManually(items []models.Item, entries []ManualEntry, showHidden bool) ([]models.Item, []bool) {
	if len(entries) == 0 {
		visible := make([]bool, len(items))
		for i := range visible {
			visible[i] = true
		}
		return items, visible
	}

	byID := make(map[int64]models.Item, len(items))
	for _, it := range items {
		byID[it.ID] = it
	}
	added := make(map[int64]struct{}, len(items))
	out := make([]models.Item, 0, len(items))
	visible := make([]bool, 0, len(items))

	for _, e := range entries {
		if !showHidden && !e.Visible {
			continue
		}
		it, ok := byID[e.ItemID]
		if !ok {
			continue
		}
		if _, dup := added[e.ItemID]; dup {
			continue
		}
		added[e.ItemID] = struct{}{}
		out = append(out, it)
		visible = append(visible, e.Visible)
	}

	if showHidden {
		for _, it := range items {
			if _, dup := added[it.ID]; dup {
				continue
			}
			added[it.ID] = struct{}{}
			out = append(out, it)
			visible = append(visible, false)
		}
	}
	return out, visible
}

// enrich attaches images, tags, currency symbols and offer type names. A nil visible slice marks
// every item visible.
func (c *Composer) enrich(ctx context.Context, items []models.Item, visible []bool, tagsByItem map[int64][]string) ([]ItemView, error) {
	views := make([]ItemView, 0, len(items))
	if len(items) == 0 {
		return views, nil
	}
	itemIDs := ids(items)

	var err error
	if tagsByItem == nil {
		if tagsByItem, err = c.loadTags(ctx, itemIDs); err != nil {
			return nil, err
		}
	}
	imagesByItem, err := c.loadImages(ctx, itemIDs)
	if err != nil {
		return nil, err
	}
	typeNames, err := c.offerTypeNames(ctx)
	if err != nil {
		return nil, err
	}

	for i, it := range items {
		images := imagesByItem[it.ID]
		if images == nil {
			images = []models.ItemImage{}
		}
		tags := tagsByItem[it.ID]
		if tags == nil {
			tags = []string{}
		}
		views = append(views, ItemView{
			Item:              it,
			OfferTypeName:     typeNames[it.OfferType],
			CurrencySymbol:    CurrencySymbol(it.Currency),
			Visible:           visible == nil || visible[i],
			DefaultImage:      ResolveImage(it, images, c.imageSize),
			DefaultImageLarge: ResolveImage(it, images, models.ImageLarge),
			Images:            images,
			Tags:              tags,
		})
	}
	return views, nil
}

func (c *Composer) loadTags(ctx context.Context, itemIDs []int64) (map[int64][]string, error) {
	out := make(map[int64][]string)
	for _, chunk := range chunks(itemIDs) {
		var rows []models.ItemTag
		err := c.db.WithContext(ctx).Where("item_id IN ?", chunk).Order("item_id").Order("tag_name").Find(&rows).Error
		if err != nil {
			return nil, fmt.Errorf("failed to load item tags: %w", err)
		}
		for _, r := range rows {
			out[r.ItemID] = append(out[r.ItemID], r.TagName)
		}
	}
	return out, nil
}

func (c *Composer) loadImages(ctx context.Context, itemIDs []int64) (map[int64][]models.ItemImage, error) {
	out := make(map[int64][]models.ItemImage)
	for _, chunk := range chunks(itemIDs) {
		var rows []models.ItemImage
		err := c.db.WithContext(ctx).Where("item_id IN ?", chunk).Order("item_id").Order("position").Find(&rows).Error
		if err != nil {
			return nil, fmt.Errorf("failed to load item images: %w", err)
		}
		for _, r := range rows {
			out[r.ItemID] = append(out[r.ItemID], r)
		}
	}
	return out, nil
}

func (c *Composer) offerTypeNames(ctx context.Context) (map[string]string, error) {
	var rows []models.OfferType
	if err := c.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load offer types: %w", err)
	}
	out := make(map[string]string, len(rows))
	for _, r := range rows {
		out[r.Type] = r.Name
	}
	return out, nil
}

func ids(items []models.Item) []int64 {
	out := make([]int64, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}

func chunks(ids []int64) [][]int64 {
	var out [][]int64
	for start := 0; start < len(ids); start += batchSize {
		out = append(out, ids[start:min(start+batchSize, len(ids))])
	}
	return out
}

func positions(keys []string) map[string]int {
	out := make(map[string]int, len(keys))
	for i, k := range keys {
		if _, ok := out[k]; !ok {
			out[k] = i
		}
	}
	return out
}

func rankOf(rank map[string]int, key string) int {
	if r, ok := rank[key]; ok {
		return r
	}
	return len(rank)
}

func nonBlank(values []string) []string {
	var out []string
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
