package compose

import (
	"catalog-mirror/feature/catalog/models"
)

// ItemView is a composed item ready for rendering.
type ItemView struct {
	models.Item

	OfferTypeName     string             `json:"offer_type_name,omitempty"`
	CurrencySymbol    string             `json:"currency_symbol"`
	Visible           bool               `json:"is_public"`
	DefaultImage      string             `json:"default_image"`
	DefaultImageLarge string             `json:"default_image_large"`
	Images            []models.ItemImage `json:"images"`
	Tags              []string           `json:"tags"`
}

// ResolveImage picks the display image of item. A poster image source is looked up among the
// item's images and replaced by the requested size when a match has one; otherwise the source
// itself is used. Items without a source use the poster image.
func ResolveImage(item models.Item, images []models.ItemImage, size string) string {
	if item.PosterImageSource == "" {
		return item.PosterImage
	}
	for _, img := range images {
		if img.ItemID == item.ID && img.SourceURL == item.PosterImageSource {
			if u := img.URL(size); u != "" {
				return u
			}
			break
		}
	}
	return item.PosterImageSource
}
