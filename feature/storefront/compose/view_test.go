package compose

import (
	"testing"

	"catalog-mirror/feature/catalog/models"

	"github.com/stretchr/testify/assert"
)

func TestResolveImage(t *testing.T) {
	images := []models.ItemImage{
		{ItemID: 1, Position: 0, SourceURL: "http://x/b.jpg", LargeURL: "http://x/b-large.jpg"},
		{ItemID: 1, Position: 1, SourceURL: "http://x/a.jpg", SmallURL: "http://x/a-small.jpg", LargeURL: "http://x/a-large.jpg"},
	}

	tests := []struct {
		name   string
		item   models.Item
		images []models.ItemImage
		size   string
		want   string
	}{
		{"Matching image, large", models.Item{ID: 1, PosterImageSource: "http://x/a.jpg"}, images, models.ImageLarge, "http://x/a-large.jpg"},
		{"Matching image, small", models.Item{ID: 1, PosterImageSource: "http://x/a.jpg"}, images, models.ImageSmall, "http://x/a-small.jpg"},
		{"Matching image without that size", models.Item{ID: 1, PosterImageSource: "http://x/a.jpg"}, images, models.ImageMedium, "http://x/a.jpg"},
		{"No matching image", models.Item{ID: 1, PosterImageSource: "http://x/c.jpg"}, images, models.ImageLarge, "http://x/c.jpg"},
		{"Image of another item", models.Item{ID: 2, PosterImageSource: "http://x/a.jpg"}, images, models.ImageLarge, "http://x/a.jpg"},
		{"No source uses poster", models.Item{ID: 1, PosterImage: "http://x/poster.jpg"}, images, models.ImageLarge, "http://x/poster.jpg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveImage(tt.item, tt.images, tt.size))
		})
	}
}

func TestCurrencySymbol(t *testing.T) {
	assert.Equal(t, "$", CurrencySymbol("USD"))
	assert.Equal(t, "€", CurrencySymbol("EUR"))
	assert.Equal(t, "£", CurrencySymbol("gbp"))
	assert.Equal(t, "", CurrencySymbol(""))
	assert.Equal(t, "QQQ", CurrencySymbol("QQQ"))
}
