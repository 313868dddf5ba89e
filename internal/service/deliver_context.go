package service

import (
	"fmt"
	"strings"

	"github.com/deliver-center/internal/constants"
)

// DeliverItem 发货上下文里的单个商品
type DeliverItem struct {
	SkuID    string `json:"sku_id"`
	SkuCode  string `json:"sku_code"`
	SkuName  string `json:"sku_name"`
	Quantity int    `json:"quantity"`
	BatchNo  string `json:"batch_no"`
	SerialNo string `json:"serial_no"`
	Remark   string `json:"remark"`
}

// DeliverContext 创建发货单所需的全部上下文数据，
// 由各来源（订单、合同、OMS 等）组装后交给发货服务。
type DeliverContext struct {
	SourceType string `json:"source_type"`
	SourceID   string `json:"source_id"`

	ConsigneeName    string `json:"consignee_name"`
	ConsigneePhone   string `json:"consignee_phone"`
	ConsigneeAddress string `json:"consignee_address"`
	Remark           string `json:"remark"`

	ExpressCompany string `json:"express_company"`
	ExpressCode    string `json:"express_code"`
	ExpressNumber  string `json:"express_number"`

	Items []DeliverItem `json:"items"`

	// Operator 创建人，为空时由服务层填默认值
	Operator string `json:"operator"`

	// Extra 来源方附加数据，仅透传给来源回调
	Extra map[string]any `json:"extra,omitempty"`
}

// Sanitize 去除各字段首尾空白
func (c *DeliverContext) Sanitize() {
	c.SourceType = strings.TrimSpace(c.SourceType)
	c.SourceID = strings.TrimSpace(c.SourceID)
	c.ConsigneeName = strings.TrimSpace(c.ConsigneeName)
	c.ConsigneePhone = strings.TrimSpace(c.ConsigneePhone)
	c.ConsigneeAddress = strings.TrimSpace(c.ConsigneeAddress)
	c.ExpressCompany = strings.TrimSpace(c.ExpressCompany)
	c.ExpressCode = strings.TrimSpace(c.ExpressCode)
	c.ExpressNumber = strings.TrimSpace(c.ExpressNumber)
	c.Operator = strings.TrimSpace(c.Operator)
	for i := range c.Items {
		c.Items[i].SkuID = strings.TrimSpace(c.Items[i].SkuID)
		c.Items[i].SkuCode = strings.TrimSpace(c.Items[i].SkuCode)
		c.Items[i].SkuName = strings.TrimSpace(c.Items[i].SkuName)
		c.Items[i].BatchNo = strings.TrimSpace(c.Items[i].BatchNo)
		c.Items[i].SerialNo = strings.TrimSpace(c.Items[i].SerialNo)
	}
}

// Validate 校验上下文，一次性汇总全部错误信息
func (c *DeliverContext) Validate() []string {
	var msgs []string

	if c.SourceType == "" {
		msgs = append(msgs, "来源类型不能为空")
	} else if !constants.IsValidSourceType(c.SourceType) {
		msgs = append(msgs, fmt.Sprintf("来源类型无效: %s", c.SourceType))
	}
	if c.SourceID == "" {
		msgs = append(msgs, "来源单号不能为空")
	}

	if len(c.Items) == 0 {
		msgs = append(msgs, "发货商品列表不能为空")
		return msgs
	}
	for i, item := range c.Items {
		if item.SkuID == "" && item.SkuCode == "" {
			msgs = append(msgs, fmt.Sprintf("第%d个商品SKU不能为空", i+1))
		}
		if item.Quantity <= 0 {
			msgs = append(msgs, fmt.Sprintf("第%d个商品数量必须大于0", i+1))
		}
	}
	return msgs
}

// TotalQuantity 上下文中商品总数量
func (c *DeliverContext) TotalQuantity() int {
	total := 0
	for _, item := range c.Items {
		total += item.Quantity
	}
	return total
}

// HasConsignee 是否携带收货人信息
func (c *DeliverContext) HasConsignee() bool {
	return c.ConsigneeName != "" || c.ConsigneePhone != "" || c.ConsigneeAddress != ""
}

// HasExpress 是否携带物流信息
func (c *DeliverContext) HasExpress() bool {
	return c.ExpressCompany != "" || c.ExpressNumber != ""
}
