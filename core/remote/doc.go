// Package remote is the client for the remote catalog API that the mirror reconciles from.
//
// The Client interface exposes paged listings of artists, offers and orders, the per-campaign
// SKU stock lookup and an authorization probe. Every failure is an *APIError carrying a human
// readable detail and the offending URL; IsUnauthorized recognises rejected credentials.
//
// # Wire format
//
// Listings are JSON objects with a total_pages count and an artists, offers or response array.
// Numeric fields arrive either as numbers or as numeric strings, so the record types use the
// lenient FlexInt, FlexFloat and FlexString decoders. Nested collections with an unexpected
// shape decode as empty rather than failing the whole page.
//
// # Retries
//
// Transport errors, 429 and 5xx responses are retried with exponential backoff up to
// Config.MaxAttempts. Other 4xx responses fail immediately.
package remote
