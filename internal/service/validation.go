package service

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/deliver-center/internal/constants"
	"github.com/deliver-center/internal/models"
)

// validateDeliverOrder 校验发货单字段长度与取值，汇总全部错误
func validateDeliverOrder(order *models.DeliverOrder) []string {
	var msgs []string

	if strings.TrimSpace(order.Sn) == "" {
		msgs = append(msgs, "发货单号不能为空")
	} else if utf8.RuneCountInString(order.Sn) > constants.MaxLenSn {
		msgs = append(msgs, fmt.Sprintf("发货单号长度不能超过%d", constants.MaxLenSn))
	}
	if !constants.IsValidSourceType(order.SourceType) {
		msgs = append(msgs, fmt.Sprintf("来源类型无效: %s", order.SourceType))
	}
	if utf8.RuneCountInString(order.SourceID) > constants.MaxLenSourceID {
		msgs = append(msgs, fmt.Sprintf("来源单号长度不能超过%d", constants.MaxLenSourceID))
	}
	if !constants.IsValidDeliverStatus(order.Status) {
		msgs = append(msgs, fmt.Sprintf("发货状态无效: %s", order.Status))
	}
	if utf8.RuneCountInString(order.ExpressCompany) > constants.MaxLenExpressCompany {
		msgs = append(msgs, fmt.Sprintf("快递公司长度不能超过%d", constants.MaxLenExpressCompany))
	}
	if utf8.RuneCountInString(order.ExpressCode) > constants.MaxLenExpressCode {
		msgs = append(msgs, fmt.Sprintf("快递编码长度不能超过%d", constants.MaxLenExpressCode))
	}
	if utf8.RuneCountInString(order.ExpressNumber) > constants.MaxLenExpressNumber {
		msgs = append(msgs, fmt.Sprintf("快递单号长度不能超过%d", constants.MaxLenExpressNumber))
	}
	if utf8.RuneCountInString(order.ConsigneeName) > constants.MaxLenConsigneeName {
		msgs = append(msgs, fmt.Sprintf("收货人姓名长度不能超过%d", constants.MaxLenConsigneeName))
	}
	if utf8.RuneCountInString(order.ConsigneePhone) > constants.MaxLenConsigneePhone {
		msgs = append(msgs, fmt.Sprintf("收货人电话长度不能超过%d", constants.MaxLenConsigneePhone))
	}
	if utf8.RuneCountInString(order.ConsigneeAddress) > constants.MaxLenConsigneeAddress {
		msgs = append(msgs, fmt.Sprintf("收货地址长度不能超过%d", constants.MaxLenConsigneeAddress))
	}
	if utf8.RuneCountInString(order.CreatedBy) > constants.MaxLenActor {
		msgs = append(msgs, fmt.Sprintf("创建人长度不能超过%d", constants.MaxLenActor))
	}
	return msgs
}

// validateDeliverStock 校验单条发货明细，idx 为 1 起始序号
func validateDeliverStock(stock *models.DeliverStock, idx int) []string {
	var msgs []string

	if strings.TrimSpace(stock.SkuID) == "" && strings.TrimSpace(stock.SkuCode) == "" {
		msgs = append(msgs, fmt.Sprintf("第%d个商品SKU不能为空", idx))
	}
	if stock.Quantity <= 0 {
		msgs = append(msgs, fmt.Sprintf("第%d个商品数量必须大于0", idx))
	}
	if utf8.RuneCountInString(stock.SkuID) > constants.MaxLenSkuID {
		msgs = append(msgs, fmt.Sprintf("第%d个商品SKU长度不能超过%d", idx, constants.MaxLenSkuID))
	}
	if utf8.RuneCountInString(stock.SkuCode) > constants.MaxLenSkuCode {
		msgs = append(msgs, fmt.Sprintf("第%d个商品编码长度不能超过%d", idx, constants.MaxLenSkuCode))
	}
	if utf8.RuneCountInString(stock.SkuName) > constants.MaxLenSkuName {
		msgs = append(msgs, fmt.Sprintf("第%d个商品名称长度不能超过%d", idx, constants.MaxLenSkuName))
	}
	if utf8.RuneCountInString(stock.BatchNo) > constants.MaxLenBatchNo {
		msgs = append(msgs, fmt.Sprintf("第%d个商品批次号长度不能超过%d", idx, constants.MaxLenBatchNo))
	}
	if utf8.RuneCountInString(stock.SerialNo) > constants.MaxLenSerialNo {
		msgs = append(msgs, fmt.Sprintf("第%d个商品序列号长度不能超过%d", idx, constants.MaxLenSerialNo))
	}
	return msgs
}

// validateOrderWithStocks 整单校验，返回聚合后的错误
func validateOrderWithStocks(order *models.DeliverOrder, stocks []models.DeliverStock) error {
	msgs := validateDeliverOrder(order)
	if len(stocks) == 0 {
		msgs = append(msgs, "发货商品列表不能为空")
	}
	for i := range stocks {
		msgs = append(msgs, validateDeliverStock(&stocks[i], i+1)...)
	}
	if len(msgs) > 0 {
		return fmt.Errorf("%w: %s", ErrDeliverValidateFailed, strings.Join(msgs, "; "))
	}
	return nil
}
