// Package models defines the GORM models of storefront configurations.
//
// A Store owns three ordered child lists: offer type activations, tag activations and featured
// items. After any create or update every known offer type and every tag of the store's artist
// has an activation row, so an empty active set means "no filter" rather than "nothing matches".
package models
