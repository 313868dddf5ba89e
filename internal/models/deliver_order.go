package models

import (
	"time"
)

// DeliverOrder 发货单表
type DeliverOrder struct {
	ID               uint       `gorm:"primarykey" json:"id"`                                                    // 主键
	Sn               string     `gorm:"type:varchar(100);uniqueIndex;not null" json:"sn"`                        // 发货单号
	SourceType       string     `gorm:"type:varchar(50);index:idx_deliver_order_source" json:"source_type"`     // 来源类型
	SourceID         string     `gorm:"type:varchar(100);index:idx_deliver_order_source" json:"source_id"`      // 来源ID
	ExpressCompany   string     `gorm:"type:varchar(50)" json:"express_company,omitempty"`                      // 快递公司
	ExpressCode      string     `gorm:"type:varchar(30)" json:"express_code,omitempty"`                         // 快递公司编码
	ExpressNumber    string     `gorm:"type:varchar(100)" json:"express_number,omitempty"`                      // 快递单号
	ConsigneeName    string     `gorm:"type:varchar(100)" json:"consignee_name,omitempty"`                      // 收货人姓名
	ConsigneePhone   string     `gorm:"type:varchar(50)" json:"consignee_phone,omitempty"`                      // 收货人电话
	ConsigneeAddress string     `gorm:"type:varchar(500)" json:"consignee_address,omitempty"`                   // 收货地址
	ConsigneeRemark  string     `gorm:"type:text" json:"consignee_remark,omitempty"`                            // 收货备注
	Status           string     `gorm:"type:varchar(20);index;not null;default:pending" json:"status"`          // 状态（pending/shipped/received/rejected）
	ShippedTime      *time.Time `gorm:"index" json:"shipped_time,omitempty"`                                    // 发货时间
	ShippedBy        string     `gorm:"type:varchar(100)" json:"shipped_by,omitempty"`                          // 发货人
	ReceivedTime     *time.Time `json:"received_time,omitempty"`                                                // 收货时间
	ReceivedBy       string     `gorm:"type:varchar(100)" json:"received_by,omitempty"`                         // 收货人
	RejectedTime     *time.Time `json:"rejected_time,omitempty"`                                                // 拒收时间
	RejectedBy       string     `gorm:"type:varchar(100)" json:"rejected_by,omitempty"`                         // 拒收操作人
	RejectReason     string     `gorm:"type:text" json:"reject_reason,omitempty"`                               // 拒收原因
	CreatedBy        string     `gorm:"type:varchar(100)" json:"created_by,omitempty"`                          // 创建人
	UpdatedBy        string     `gorm:"type:varchar(100)" json:"updated_by,omitempty"`                          // 更新人
	CreatedAt        time.Time  `gorm:"index" json:"created_at"`                                                // 创建时间
	UpdatedAt        time.Time  `json:"updated_at"`                                                             // 更新时间

	Stocks []DeliverStock `gorm:"foreignKey:DeliverOrderID;constraint:OnDelete:CASCADE" json:"stocks,omitempty"` // 发货明细
}

// TableName 指定表名
func (DeliverOrder) TableName() string {
	return "deliver_orders"
}

// IsShipped 判断发货时间是否已记录
func (o *DeliverOrder) IsShipped() bool {
	return o != nil && o.ShippedTime != nil
}

// TotalQuantity 汇总明细数量
func (o *DeliverOrder) TotalQuantity() int {
	if o == nil {
		return 0
	}
	total := 0
	for _, stock := range o.Stocks {
		total += stock.Quantity
	}
	return total
}
