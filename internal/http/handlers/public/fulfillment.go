package public

import (
	"errors"
	"strconv"
	"strings"

	"github.com/deliver-center/internal/constants"
	"github.com/deliver-center/internal/http/response"
	"github.com/deliver-center/internal/service"

	"github.com/gin-gonic/gin"
)

// GetDeliverySummary 查询来源单据的发货汇总
func (h *Handler) GetDeliverySummary(c *gin.Context) {
	sourceType := strings.TrimSpace(c.Query("source_type"))
	sourceID := strings.TrimSpace(c.Query("source_id"))
	if !constants.IsValidSourceType(sourceType) || sourceID == "" {
		respondError(c, response.CodeBadRequest, "来源类型或来源单号无效", nil)
		return
	}

	summary, err := h.FulfillmentService.GetDeliverySummary(sourceType, sourceID)
	if err != nil {
		respondError(c, response.CodeInternal, "发货汇总查询失败", err)
		return
	}
	response.Success(c, summary)
}

// GetDeliveredQuantity 查询来源单据下某 SKU 的已发货数量
func (h *Handler) GetDeliveredQuantity(c *gin.Context) {
	sourceType := strings.TrimSpace(c.Query("source_type"))
	sourceID := strings.TrimSpace(c.Query("source_id"))
	skuCode := strings.TrimSpace(c.Query("sku_code"))
	if !constants.IsValidSourceType(sourceType) || sourceID == "" || skuCode == "" {
		respondError(c, response.CodeBadRequest, "查询参数无效", nil)
		return
	}

	quantity, err := h.FulfillmentService.GetDeliveredQuantity(sourceType, sourceID, skuCode)
	if err != nil {
		respondError(c, response.CodeInternal, "发货数量查询失败", err)
		return
	}
	firstShipped, err := h.FulfillmentService.FirstShipmentTimeForSku(sourceType, sourceID, skuCode)
	if err != nil {
		respondError(c, response.CodeInternal, "发货数量查询失败", err)
		return
	}
	lastShipped, err := h.FulfillmentService.LastShipmentTimeForSku(sourceType, sourceID, skuCode)
	if err != nil {
		respondError(c, response.CodeInternal, "发货数量查询失败", err)
		return
	}

	demand, hasDemand := parsePositiveInt(c.Query("demand"))
	data := gin.H{
		"sku_code":           skuCode,
		"delivered_quantity": quantity,
		"first_shipped":      firstShipped,
		"last_shipped":       lastShipped,
	}
	if hasDemand {
		data["fully_delivered"] = quantity >= demand
	}
	response.Success(c, data)
}

// GetDeliverOrder 按单号查询发货单（含明细）
func (h *Handler) GetDeliverOrder(c *gin.Context) {
	sn := strings.TrimSpace(c.Param("sn"))
	order, err := h.DeliverOrderService.GetBySn(sn)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrDeliverSnEmpty):
			respondError(c, response.CodeBadRequest, err.Error(), nil)
		case errors.Is(err, service.ErrDeliverOrderNotFound):
			respondError(c, response.CodeNotFound, err.Error(), nil)
		default:
			respondError(c, response.CodeInternal, "发货单查询失败", err)
		}
		return
	}
	response.Success(c, order)
}

// GetExpressTrack 查询发货单物流轨迹
func (h *Handler) GetExpressTrack(c *gin.Context) {
	sn := strings.TrimSpace(c.Param("sn"))
	order, err := h.DeliverOrderService.GetBySn(sn)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrDeliverOrderNotFound):
			respondError(c, response.CodeNotFound, err.Error(), nil)
		default:
			respondError(c, response.CodeBadRequest, "发货单查询失败", err)
		}
		return
	}
	if order.ExpressNumber == "" {
		respondError(c, response.CodeBadRequest, "发货单暂无物流单号", nil)
		return
	}

	result, err := h.ExpressTrackingService.Query(c.Request.Context(), order.ExpressCode, order.ExpressNumber)
	if err != nil {
		respondError(c, response.CodeInternal, "物流轨迹查询失败", err)
		return
	}
	response.Success(c, result)
}

func parsePositiveInt(value string) (int, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, false
	}
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}
