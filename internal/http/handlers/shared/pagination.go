package shared

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// NormalizePagination 收敛发货单列表的分页参数：
// 页码最小为 1，页大小缺省 20、上限 100。
func NormalizePagination(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return page, pageSize
}
