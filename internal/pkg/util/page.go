package util

const (
	DefaultPageSize        = 20
	DefaultMessagePageSize = 50
	MaxPageSize            = 100
)

// NormalizePage 规范化 1 起始的页码与页大小
func NormalizePage(page, limit, defaultLimit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	return page, limit
}

// PageCount 总页数 = ceil(total/limit)
func PageCount(total int64, limit int) int {
	if limit <= 0 {
		return 0
	}
	pages := total / int64(limit)
	if total%int64(limit) != 0 {
		pages++
	}
	return int(pages)
}

// PageOffset 换算为 0 起始偏移量
func PageOffset(page, limit int) int {
	return (page - 1) * limit
}
