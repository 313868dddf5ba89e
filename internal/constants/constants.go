package constants

// 发货单状态常量
const (
	DeliverStatusPending  = "pending"
	DeliverStatusShipped  = "shipped"
	DeliverStatusReceived = "received"
	DeliverStatusRejected = "rejected"
)

// 来源类型常量
const (
	SourceTypeOrder         = "order"
	SourceTypeContract      = "contract"
	SourceTypeAftersales    = "aftersales"
	SourceTypeReplenishment = "replenishment"
	SourceTypeOMS           = "oms"
	SourceTypeOther         = "other"
)

// 系统操作人标识
const (
	ActorOmsSync = "OMS_SYNC"
)

// 队列名称常量
const (
	QueueDefault = "default"
)

// 异步任务类型常量
const (
	TaskDeliverNotify = "deliver:notify"
)

// 发货通知事件常量
const (
	DeliverEventCreated   = "created"
	DeliverEventShipped   = "shipped"
	DeliverEventCancelled = "cancelled"
	DeliverEventCompleted = "completed"
)

// 字段长度上限（与存储层列定义一致）
const (
	MaxLenSn               = 100
	MaxLenSourceID         = 100
	MaxLenExpressCompany   = 50
	MaxLenExpressCode      = 30
	MaxLenExpressNumber    = 100
	MaxLenConsigneeName    = 100
	MaxLenConsigneePhone   = 50
	MaxLenConsigneeAddress = 500
	MaxLenActor            = 100
	MaxLenSkuID            = 100
	MaxLenSkuCode          = 100
	MaxLenSkuName          = 255
	MaxLenBatchNo          = 100
	MaxLenSerialNo         = 100
)

// 状态中文标签
var deliverStatusLabels = map[string]string{
	DeliverStatusPending:  "待发货",
	DeliverStatusShipped:  "已发货",
	DeliverStatusReceived: "已收货",
	DeliverStatusRejected: "已拒收",
}

// 来源类型中文标签
var sourceTypeLabels = map[string]string{
	SourceTypeOrder:         "订单",
	SourceTypeContract:      "合同",
	SourceTypeAftersales:    "售后",
	SourceTypeReplenishment: "补货",
	SourceTypeOMS:           "OMS系统",
	SourceTypeOther:         "其他",
}

// DeliverStatusLabel 返回状态的展示标签
func DeliverStatusLabel(status string) string {
	if label, ok := deliverStatusLabels[status]; ok {
		return label
	}
	return status
}

// IsValidDeliverStatus 判断状态是否合法
func IsValidDeliverStatus(status string) bool {
	_, ok := deliverStatusLabels[status]
	return ok
}

// SourceTypeLabel 返回来源类型的展示标签
func SourceTypeLabel(sourceType string) string {
	if label, ok := sourceTypeLabels[sourceType]; ok {
		return label
	}
	return sourceType
}

// IsValidSourceType 判断来源类型是否合法
func IsValidSourceType(sourceType string) bool {
	_, ok := sourceTypeLabels[sourceType]
	return ok
}

// SourceTypes 返回全部来源类型
func SourceTypes() []string {
	return []string{
		SourceTypeOrder,
		SourceTypeContract,
		SourceTypeAftersales,
		SourceTypeReplenishment,
		SourceTypeOMS,
		SourceTypeOther,
	}
}
