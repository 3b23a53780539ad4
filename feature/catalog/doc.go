// Package catalog serves the mirrored catalog and triggers reconciliation runs.
//
// The syncer subpackage reconciles the remote catalog into the local tables. This package
// exposes read helpers over the mirror (artists, orders with their lines, popular products,
// offer types and tags) and starts background sync runs.
//
// # Endpoints
//
//	POST /catalog/sync                 start a run (?scope, ?artist_ids); 409 while one is active
//	GET  /catalog/sync/status          last sync times, row counts and whether a run is active
//	GET  /catalog/artists              artists by name (?ids)
//	GET  /catalog/artists/:id/popular  buy button items ranked by quantity sold (?limit)
//	GET  /catalog/artists/:id/tags     an artist's tags
//	GET  /catalog/orders               orders newest first (?artist_ids)
//	GET  /catalog/offer-types          known offer types
package catalog
