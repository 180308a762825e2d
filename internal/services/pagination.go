package services

// DefaultPageSize is applied when a caller does not specify a page size.
const DefaultPageSize = 10

// normalizePage clamps page/limit to sane values. Pages are 1-indexed.
func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageSize
	}
	return page, limit
}

// pageCount returns ceil(total/limit).
func pageCount(total, limit int) int {
	return (total + limit - 1) / limit
}
