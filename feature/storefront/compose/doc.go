// Package compose builds storefront item listings from the mirrored catalog.
//
// Candidates come from one query restricted by the store's active offer types and tags (an
// empty active set does not filter). The strategy then orders them:
//
//   - offertype: grouped by the position of the item's offer type in the active list.
//   - tag: grouped under the first active tag the item carries.
//   - manual: the store's manual order ("id:flag,..."), with unlisted candidates appended as
//     hidden when hidden items are requested.
//
// Inside a group items keep the base order: id ascending, or name then id for alphabetical
// stores. Every returned item appears once and carries its images, tags and resolved
// default images.
package compose
