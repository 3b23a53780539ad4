package models

import (
	"time"

	"gorm.io/datatypes"
)

// Item is a mirrored offer (a sellable or promotable catalog entry).
type Item struct {
	ID                int64          `gorm:"column:id;primaryKey;autoIncrement:false" json:"id"`
	ArtistID          int64          `gorm:"column:artist_id;index" json:"artist_id"`
	CampaignID        string         `gorm:"column:campaign_id;size:64;index" json:"campaign_id"`
	ReportingName     string         `gorm:"column:reporting_name;size:255" json:"reporting_name"`
	Name              string         `gorm:"column:name;size:255" json:"name"`
	Description       string         `gorm:"column:description;type:text" json:"description"`
	OfferType         string         `gorm:"column:offer_type;size:64;index" json:"offer_type"`
	ProductType       string         `gorm:"column:product_type;size:64" json:"product_type"`
	Price             float64        `gorm:"column:price" json:"price"`
	Currency          string         `gorm:"column:currency;size:8" json:"currency"`
	PosterImage       string         `gorm:"column:poster_image;size:1024" json:"poster_image"`
	PosterImageSource string         `gorm:"column:poster_image_source;size:1024" json:"poster_image_source"`
	EmbedCode         string         `gorm:"column:embed_code;type:text" json:"embed_code"`
	Width             int            `gorm:"column:width" json:"width"`
	Height            int            `gorm:"column:height" json:"height"`
	URL               string         `gorm:"column:url;size:1024" json:"url"`
	OfferURL          string         `gorm:"column:offer_url;size:1024" json:"offer_url"`
	MobileURL         string         `gorm:"column:mobile_url;size:1024" json:"mobile_url"`
	Campaign          datatypes.JSON `gorm:"column:campaign" json:"campaign,omitempty" swaggertype:"object"`
	SkuData           datatypes.JSON `gorm:"column:sku_data" json:"sku_data,omitempty" swaggertype:"array,object"`
	InStockQuantity   int64          `gorm:"column:in_stock_quantity" json:"in_stock_quantity"`
	LastModified      time.Time      `gorm:"column:last_modified;index" json:"last_modified"`
	CreatedDate       time.Time      `gorm:"column:created_date" json:"created_date"`
}

// TableName overrides the table name.
func (Item) TableName() string {
	return "items"
}

// ItemUpdateColumns are the columns refreshed when an existing item is upserted.
// created_date is deliberately absent: it keeps the first-seen date.
var ItemUpdateColumns = []string{
	"artist_id", "campaign_id", "reporting_name", "name", "description", "offer_type",
	"product_type", "price", "currency", "poster_image", "poster_image_source", "embed_code",
	"width", "height", "url", "offer_url", "mobile_url", "campaign", "sku_data",
	"in_stock_quantity", "last_modified",
}

// ItemTag links an item to one of its tags.
type ItemTag struct {
	ItemID  int64  `gorm:"column:item_id;primaryKey;autoIncrement:false" json:"item_id"`
	TagName string `gorm:"column:tag_name;primaryKey;size:255;index" json:"tag_name"`
}

// TableName overrides the table name.
func (ItemTag) TableName() string {
	return "item_tags"
}

// ItemImage is one entry of an item's product image list.
type ItemImage struct {
	ItemID    int64  `gorm:"column:item_id;primaryKey;autoIncrement:false" json:"item_id"`
	Position  int    `gorm:"column:position;primaryKey;autoIncrement:false" json:"position"`
	SourceURL string `gorm:"column:source_url;size:1024;index" json:"source_url"`
	SmallURL  string `gorm:"column:small_url;size:1024" json:"small_url"`
	MediumURL string `gorm:"column:medium_url;size:1024" json:"medium_url"`
	LargeURL  string `gorm:"column:large_url;size:1024" json:"large_url"`
}

// TableName overrides the table name.
func (ItemImage) TableName() string {
	return "item_images"
}

// Image sizes understood by ItemImage.URL.
const (
	ImageSmall  = "small"
	ImageMedium = "medium"
	ImageLarge  = "large"
)

// URL returns the variant for size. Unknown sizes map to large.
func (i ItemImage) URL(size string) string {
	switch size {
	case ImageSmall:
		return i.SmallURL
	case ImageMedium:
		return i.MediumURL
	default:
		return i.LargeURL
	}
}

// OfferType is a known offer type with its display name.
type OfferType struct {
	Type     string `gorm:"column:type;primaryKey;size:64" json:"type"`
	Name     string `gorm:"column:name;size:255" json:"name"`
	Position int    `gorm:"column:position" json:"position"`
}

// TableName overrides the table name.
func (OfferType) TableName() string {
	return "offer_types"
}
