// Package storefront manages store configurations and serves their composed listings.
//
// # Store management
//
// CreateStore and UpdateStore rewrite a store's offer type and tag activations so that every
// known key has a row: the active keys first, in the requested order, then the rest as
// inactive. Featured items are kept as an ordered list. DeleteStore moves a store to the trash,
// or removes it with its child rows when forced.
//
// # Listings
//
// ComposeStoreItems delegates to the compose package and caches the result per store,
// hidden-items flag and artist override. Updates to a store drop its cached listings;
// Invalidate drops all of them and is wired to run after every catalog sync.
//
// # Endpoints
//
//	GET    /stores               list stores (?status=publish|trash)
//	POST   /stores               create a store
//	GET    /stores/:id           store with activation lists
//	PUT    /stores/:id           update a store
//	DELETE /stores/:id           trash a store (?force=true removes it)
//	GET    /stores/:id/items     composed page (?page, ?show_hidden, ?artist_id)
//	GET    /stores/:id/featured  featured items
//	GET    /items                filtered items outside any store
package storefront
