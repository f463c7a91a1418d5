package query

// TotalPages returns the number of pages needed for total records at the
// given page size. An empty result still has one (empty) page.
func TotalPages(total int64, pageSize int) int {
	if pageSize <= 0 {
		return 1
	}
	pages := int((total + int64(pageSize) - 1) / int64(pageSize))
	if pages < 1 {
		return 1
	}
	return pages
}

// ClampPage folds an out-of-range page number back into [1, totalPages].
// Requests past the end land on the last page instead of erroring.
func ClampPage(page, totalPages int) int {
	if page < 1 {
		return 1
	}
	if page > totalPages {
		return totalPages
	}
	return page
}
