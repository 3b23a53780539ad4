package compose

// Paginate returns page (1-based) of items. Pages before the first map to the first page, pages
// past the end are empty, and a non-positive perPage returns items unchanged.
func Paginate[T any](items []T, perPage, page int) []T {
	if perPage <= 0 {
		return items
	}
	offset := 0
	if page > 1 {
		offset = (page - 1) * perPage
	}
	if offset >= len(items) {
		return []T{}
	}
	end := min(offset+perPage, len(items))
	return items[offset:end]
}
