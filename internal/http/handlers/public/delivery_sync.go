package public

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/deliver-center/internal/http/response"
	"github.com/deliver-center/internal/service"

	"github.com/gin-gonic/gin"
)

// SyncDeliveryItemRequest OMS 同步请求中的商品
type SyncDeliveryItemRequest struct {
	SkuID    string `json:"sku_id"`
	SkuCode  string `json:"sku_code"`
	SkuName  string `json:"sku_name"`
	Quantity int    `json:"quantity"`
	BatchNo  string `json:"batch_no"`
	SerialNo string `json:"serial_no"`
	Remark   string `json:"remark"`
}

// SyncDeliveryRequest OMS 发货同步请求
type SyncDeliveryRequest struct {
	Sn               string                    `json:"sn" binding:"required"`
	SourceID         string                    `json:"source_id"`
	ExpressCompany   string                    `json:"express_company"`
	ExpressCode      string                    `json:"express_code"`
	ExpressNumber    string                    `json:"express_number"`
	ConsigneeName    string                    `json:"consignee_name"`
	ConsigneePhone   string                    `json:"consignee_phone"`
	ConsigneeAddress string                    `json:"consignee_address"`
	Remark           string                    `json:"remark"`
	ShippedTime      string                    `json:"shipped_time"`
	ShippedBy        string                    `json:"shipped_by"`
	Items            []SyncDeliveryItemRequest `json:"items"`
}

// SyncDelivery 接收 OMS 推送的发货数据
func (h *Handler) SyncDelivery(c *gin.Context) {
	var req SyncDeliveryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数无效", err)
		return
	}

	input := service.OmsDeliveryInput{
		Sn:               req.Sn,
		SourceID:         req.SourceID,
		ExpressCompany:   req.ExpressCompany,
		ExpressCode:      req.ExpressCode,
		ExpressNumber:    req.ExpressNumber,
		ConsigneeName:    req.ConsigneeName,
		ConsigneePhone:   req.ConsigneePhone,
		ConsigneeAddress: req.ConsigneeAddress,
		Remark:           req.Remark,
		ShippedBy:        req.ShippedBy,
		Items:            make([]service.OmsDeliveryItem, 0, len(req.Items)),
	}
	if t, ok := parseTimeParam(req.ShippedTime); ok {
		input.ShippedTime = &t
	}
	for _, item := range req.Items {
		input.Items = append(input.Items, service.OmsDeliveryItem{
			SkuID:    item.SkuID,
			SkuCode:  item.SkuCode,
			SkuName:  item.SkuName,
			Quantity: item.Quantity,
			BatchNo:  item.BatchNo,
			SerialNo: item.SerialNo,
			Remark:   item.Remark,
		})
	}

	order, err := h.DeliverySyncService.SyncDeliveryFromOms(input)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrDeliverSnEmpty):
			respondError(c, response.CodeBadRequest, err.Error(), nil)
		case errors.Is(err, service.ErrDeliverSnExists):
			respondError(c, response.CodeConflict, err.Error(), nil)
		case errors.Is(err, service.ErrDeliverValidateFailed):
			respondError(c, response.CodeUnprocessable, err.Error(), nil)
		default:
			respondError(c, response.CodeInternal, "发货同步失败", err)
		}
		return
	}

	requestLog(c).Infow("oms_delivery_sync_accepted", "sn", order.Sn, "item_count", len(order.Stocks))
	// 响应字段与 OMS 侧约定保持一致
	response.Success(c, gin.H{
		"success":         true,
		"message":         "发货信息同步成功",
		"deliveryOrderId": strconv.FormatUint(uint64(order.ID), 10),
		"sn":              order.Sn,
		"status":          order.Status,
	})
}

// parseTimeParam 解析时间参数，兼容 RFC3339 与常规日期时间格式
func parseTimeParam(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
