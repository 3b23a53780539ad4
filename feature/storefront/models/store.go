package models

import "time"

// Store statuses.
const (
	StatusPublish = "publish"
	StatusTrash   = "trash"
)

// Default sorting (base order of items).
const (
	SortAlphabetical  = "alphabetical"
	SortChronological = "chronological"
)

// Sorting strategies.
const (
	SortByOfferType = "offertype"
	SortByTag       = "tag"
	SortByManual    = "manual"
)

// Activation statuses of StoreOfferType and StoreTag rows.
const (
	Inactive = 0
	Active   = 1
)

// Store is a storefront display configuration.
type Store struct {
	ID               int64     `gorm:"column:id;primaryKey" json:"id"`
	Name             string    `gorm:"column:name;size:255" json:"name"`
	Slug             string    `gorm:"column:slug;size:255;index" json:"slug"`
	InternalName     string    `gorm:"column:internal_name;size:255" json:"internal_name"`
	ArtistID         int64     `gorm:"column:artist_id;index" json:"artist_id"`
	Status           string    `gorm:"column:status;size:32;index" json:"status"`
	ItemsPerPage     int       `gorm:"column:items_per_page" json:"items_per_page"`
	ShowAllItems     bool      `gorm:"column:show_all_items" json:"show_all_items"`
	GridColumns      int       `gorm:"column:grid_columns" json:"grid_columns"`
	DefaultSorting   string    `gorm:"column:default_sorting;size:32" json:"default_sorting"`
	DefaultSortingBy string    `gorm:"column:default_sorting_by;size:32" json:"default_sorting_by"`
	ItemsOrder       string    `gorm:"column:items_order;type:text" json:"items_order"`
	DescLength       int       `gorm:"column:desc_length" json:"desc_length"`
	SaleTag          string    `gorm:"column:sale_tag;size:255" json:"sale_tag"`
	CreatedDate      time.Time `gorm:"column:created_date;autoCreateTime" json:"created_date"`

	OfferTypes    []StoreOfferType    `gorm:"foreignKey:StoreID" json:"offer_types,omitempty"`
	Tags          []StoreTag          `gorm:"foreignKey:StoreID" json:"tags,omitempty"`
	FeaturedItems []StoreFeaturedItem `gorm:"foreignKey:StoreID" json:"featured_items,omitempty"`
}

// TableName overrides the table name.
func (Store) TableName() string {
	return "stores"
}

// Alphabetical reports whether items are ordered by name.
func (s *Store) Alphabetical() bool {
	return s.DefaultSorting == SortAlphabetical
}

// ActiveOfferTypes returns the active offer types in configured order.
func (s *Store) ActiveOfferTypes() []string {
	var out []string
	for _, t := range s.OfferTypes {
		if t.Status == Active {
			out = append(out, t.Type)
		}
	}
	return out
}

// ActiveTags returns the active tags in configured order.
func (s *Store) ActiveTags() []string {
	var out []string
	for _, t := range s.Tags {
		if t.Status == Active {
			out = append(out, t.Tag)
		}
	}
	return out
}

// StoreOfferType is an offer type activation of a store.
type StoreOfferType struct {
	StoreID  int64  `gorm:"column:store_id;primaryKey;autoIncrement:false" json:"-"`
	Type     string `gorm:"column:type;primaryKey;size:64" json:"type"`
	Name     string `gorm:"-" json:"name,omitempty"`
	OrderNum int    `gorm:"column:order_num" json:"order_num"`
	Status   int    `gorm:"column:status" json:"status"`
}

// TableName overrides the table name.
func (StoreOfferType) TableName() string {
	return "store_offer_types"
}

// StoreTag is a tag activation of a store.
type StoreTag struct {
	StoreID  int64  `gorm:"column:store_id;primaryKey;autoIncrement:false" json:"-"`
	Tag      string `gorm:"column:tag;primaryKey;size:191" json:"name"`
	OrderNum int    `gorm:"column:order_num" json:"order_num"`
	Status   int    `gorm:"column:status" json:"status"`
}

// TableName overrides the table name.
func (StoreTag) TableName() string {
	return "store_tags"
}

// StoreFeaturedItem is one entry of a store's featured list.
type StoreFeaturedItem struct {
	StoreID  int64 `gorm:"column:store_id;primaryKey;autoIncrement:false" json:"-"`
	OrderNum int   `gorm:"column:order_num;primaryKey;autoIncrement:false" json:"order_num"`
	ItemID   int64 `gorm:"column:item_id" json:"item_id"`
}

// TableName overrides the table name.
func (StoreFeaturedItem) TableName() string {
	return "store_featured_items"
}

// All returns every storefront model, in migration order.
func All() []any {
	return []any{&Store{}, &StoreOfferType{}, &StoreTag{}, &StoreFeaturedItem{}}
}
