package service

// PageSize is the fixed page size for every paginated listing.
const PageSize = 12

// PageCount returns ceil(total/pageSize). An empty collection still has one
// (empty) page so callers always have a valid page to land on.
func PageCount(total int64, pageSize int) int {
	if total <= 0 {
		return 1
	}
	count := int(total) / pageSize
	if int(total)%pageSize != 0 {
		count++
	}
	return count
}

// ClampPage forces the requested page into [1, PageCount(total)]. Requests
// beyond the last page land on the last page; non-positive or missing pages
// land on the first.
func ClampPage(page int, total int64, pageSize int) int {
	if page < 1 {
		return 1
	}
	if last := PageCount(total, pageSize); page > last {
		return last
	}
	return page
}
