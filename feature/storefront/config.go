package storefront

import "time"

// Config holds storefront composition settings.
type Config struct {
	// ImageSize is the image variant used for an item's default image: small, medium or large.
	ImageSize string `mapstructure:"image_size" default:"large"`
	// CacheTTLSeconds is how long composed listings are cached. Zero disables the cache.
	CacheTTLSeconds int `mapstructure:"cache_ttl_seconds" default:"60"`
}

// CacheTTL returns the listing cache lifetime.
func (c Config) CacheTTL() time.Duration {
	if c.CacheTTLSeconds <= 0 {
		return 0
	}
	return time.Duration(c.CacheTTLSeconds) * time.Second
}
