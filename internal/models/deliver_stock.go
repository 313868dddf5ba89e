package models

import (
	"time"
)

// DeliverStock 发货库存表（发货单明细）
type DeliverStock struct {
	ID             uint       `gorm:"primarykey" json:"id"`                         // 主键
	DeliverOrderID uint       `gorm:"index;not null" json:"deliver_order_id"`       // 发货单ID
	SkuID          string     `gorm:"type:varchar(100);index" json:"sku_id,omitempty"` // SKU ID
	SkuCode        string     `gorm:"type:varchar(100)" json:"sku_code,omitempty"`  // SKU编码
	SkuName        string     `gorm:"type:varchar(255)" json:"sku_name,omitempty"`  // SKU名称
	Quantity       int        `gorm:"not null;default:1" json:"quantity"`           // 数量
	BatchNo        string     `gorm:"type:varchar(100)" json:"batch_no,omitempty"`  // 批次号
	SerialNo       string     `gorm:"type:varchar(100)" json:"serial_no,omitempty"` // 序列号
	Remark         string     `gorm:"type:text" json:"remark,omitempty"`            // 备注
	Received       bool       `gorm:"not null;default:false" json:"received"`       // 是否已收货
	ReceivedTime   *time.Time `json:"received_time,omitempty"`                      // 收货时间
	CreatedAt      time.Time  `gorm:"index" json:"created_at"`                      // 创建时间
	UpdatedAt      time.Time  `json:"updated_at"`                                   // 更新时间
}

// TableName 指定表名
func (DeliverStock) TableName() string {
	return "deliver_stocks"
}
