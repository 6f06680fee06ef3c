package usecase

const (
	defaultPageSize = 10
	maxPageSize     = 100
	// Keeps (page-1)*pageSize far from overflow
	maxPage = 1_000_000
)

// pageToLimitOffset clamps paging input and converts it for the repositories.
func pageToLimitOffset(page, pageSize int) (limit, offset int) {
	if page < 1 {
		page = 1
	}
	if page > maxPage {
		page = maxPage
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return pageSize, (page - 1) * pageSize
}
