package repository

import "time"

// DeliverOrderListFilter 查询发货单列表的过滤条件
type DeliverOrderListFilter struct {
	Page        int
	PageSize    int
	Sn          string
	SourceType  string
	SourceID    string
	Status      string
	ExpressNo   string
	Consignee   string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}
