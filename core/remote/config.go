package remote

import "catalog-mirror/core/utils"

// Config holds credentials and paging settings for the remote catalog API.
type Config struct {
	// BaseURL is the API root, without a trailing slash.
	BaseURL string `mapstructure:"base_url" default:"http://app.topspin.net/api/v1"`
	// Username is the account e-mail used for basic auth.
	Username string `mapstructure:"username" default:""`
	// ApiKey is the account API key used for basic auth.
	ApiKey string `mapstructure:"api_key" default:""`
	// ArtistIDs is the comma separated list of artists to mirror.
	ArtistIDs string `mapstructure:"artist_ids" default:""`
	// PerPage is the page size requested from the offers endpoint.
	PerPage int `mapstructure:"per_page" default:"100"`
	// TimeoutSeconds bounds a single HTTP request.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
	// MaxAttempts is the number of tries for transient failures.
	MaxAttempts int `mapstructure:"max_attempts" default:"3"`
	// BackoffMs is the first retry delay; it doubles on every attempt.
	BackoffMs int `mapstructure:"backoff_ms" default:"500"`
}

// HasCredentials reports whether both halves of the basic auth pair are set.
func (c Config) HasCredentials() bool {
	return c.Username != "" && c.ApiKey != ""
}

// ArtistIDList returns the configured artist ids.
func (c Config) ArtistIDList() []int64 {
	return utils.ParseIDList(c.ArtistIDs)
}
