// Package models defines the GORM models of the mirrored catalog.
//
// Artists, tags, items, item tags and item images are disposable: they are rebuilt from the
// remote catalog by the sync engines. Orders and order items are upserted and never removed.
// Opaque remote payloads (campaign, SKU data, SKU attributes, weight) are kept as JSON
// columns through EncodeBlob.
package models
