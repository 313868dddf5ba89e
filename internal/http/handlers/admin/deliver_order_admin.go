package admin

import (
	"strconv"
	"strings"
	"time"

	handlershared "github.com/deliver-center/internal/http/handlers/shared"
	"github.com/deliver-center/internal/http/response"
	"github.com/deliver-center/internal/repository"
	"github.com/deliver-center/internal/service"

	"github.com/gin-gonic/gin"
)

// ListDeliverOrders 分页查询发货单
func (h *Handler) ListDeliverOrders(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = handlershared.NormalizePagination(page, pageSize)

	filter := repository.DeliverOrderListFilter{
		Page:       page,
		PageSize:   pageSize,
		Sn:         strings.TrimSpace(c.Query("sn")),
		SourceType: strings.TrimSpace(c.Query("source_type")),
		SourceID:   strings.TrimSpace(c.Query("source_id")),
		Status:     strings.TrimSpace(c.Query("status")),
		ExpressNo:  strings.TrimSpace(c.Query("express_no")),
		Consignee:  strings.TrimSpace(c.Query("consignee")),
	}
	if t, ok := parseDateParam(c.Query("created_from")); ok {
		filter.CreatedFrom = &t
	}
	if t, ok := parseDateParam(c.Query("created_to")); ok {
		end := t.AddDate(0, 0, 1)
		filter.CreatedTo = &end
	}

	orders, total, err := h.DeliverOrderService.ListAdmin(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "发货单列表查询失败", err)
		return
	}

	totalPage := (total + int64(pageSize) - 1) / int64(pageSize)
	response.SuccessWithPage(c, orders, response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: totalPage,
	})
}

// GetDeliverOrder 查询发货单详情
func (h *Handler) GetDeliverOrder(c *gin.Context) {
	order, err := h.DeliverOrderService.GetBySn(strings.TrimSpace(c.Param("sn")))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, order)
}

// CreateDeliverOrderRequest 手工创建发货单请求
type CreateDeliverOrderRequest struct {
	SourceType       string                `json:"source_type" binding:"required"`
	SourceID         string                `json:"source_id" binding:"required"`
	ConsigneeName    string                `json:"consignee_name"`
	ConsigneePhone   string                `json:"consignee_phone"`
	ConsigneeAddress string                `json:"consignee_address"`
	Remark           string                `json:"remark"`
	Operator         string                `json:"operator"`
	Items            []service.DeliverItem `json:"items" binding:"required"`
}

// CreateDeliverOrder 手工创建发货单（初始待发货）
func (h *Handler) CreateDeliverOrder(c *gin.Context) {
	var req CreateDeliverOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数无效", err)
		return
	}

	ctx := &service.DeliverContext{
		SourceType:       req.SourceType,
		SourceID:         req.SourceID,
		ConsigneeName:    req.ConsigneeName,
		ConsigneePhone:   req.ConsigneePhone,
		ConsigneeAddress: req.ConsigneeAddress,
		Remark:           req.Remark,
		Operator:         req.Operator,
		Items:            req.Items,
	}
	order, err := h.DeliverOrderService.CreateFromContext(ctx)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	requestLog(c).Infow("admin_deliver_order_created", "sn", order.Sn, "operator", req.Operator)
	response.Success(c, order)
}

// ShipDeliverOrderRequest 发货请求
type ShipDeliverOrderRequest struct {
	ExpressCompany string `json:"express_company"`
	ExpressCode    string `json:"express_code"`
	ExpressNumber  string `json:"express_number"`
	Operator       string `json:"operator"`
	ShippedTime    string `json:"shipped_time"`
}

// ShipDeliverOrder 发货
func (h *Handler) ShipDeliverOrder(c *gin.Context) {
	var req ShipDeliverOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数无效", err)
		return
	}
	input := service.ShipInput{
		ExpressCompany: req.ExpressCompany,
		ExpressCode:    req.ExpressCode,
		ExpressNumber:  req.ExpressNumber,
		Operator:       req.Operator,
	}
	if t, ok := parseDateTimeParam(req.ShippedTime); ok {
		input.ShippedTime = &t
	}
	order, err := h.DeliverOrderService.Ship(strings.TrimSpace(c.Param("sn")), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, order)
}

// OperateDeliverOrderRequest 签收/拒收/取消请求
type OperateDeliverOrderRequest struct {
	Operator string `json:"operator"`
	Reason   string `json:"reason"`
}

// ReceiveDeliverOrder 签收
func (h *Handler) ReceiveDeliverOrder(c *gin.Context) {
	var req OperateDeliverOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数无效", err)
		return
	}
	order, err := h.DeliverOrderService.Receive(strings.TrimSpace(c.Param("sn")), req.Operator, nil)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, order)
}

// RejectDeliverOrder 拒收
func (h *Handler) RejectDeliverOrder(c *gin.Context) {
	var req OperateDeliverOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数无效", err)
		return
	}
	order, err := h.DeliverOrderService.Reject(strings.TrimSpace(c.Param("sn")), req.Operator, req.Reason)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, order)
}

// CancelDeliverOrder 取消发货（仅触发来源方通知）
func (h *Handler) CancelDeliverOrder(c *gin.Context) {
	var req OperateDeliverOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数无效", err)
		return
	}
	order, err := h.DeliverOrderService.Cancel(strings.TrimSpace(c.Param("sn")), req.Operator, req.Reason)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	requestLog(c).Infow("admin_deliver_order_cancelled", "sn", order.Sn, "operator", req.Operator, "reason", req.Reason)
	response.SuccessWithMsg(c, "已通知来源方取消发货", gin.H{"sn": order.Sn})
}

// DeliverOrderStats 各状态发货单统计
func (h *Handler) DeliverOrderStats(c *gin.Context) {
	stats, err := h.DeliverOrderService.StatusStatistics()
	if err != nil {
		respondError(c, response.CodeInternal, "发货统计查询失败", err)
		return
	}
	response.Success(c, stats)
}

func parseDateParam(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation("2006-01-02", value, time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func parseDateTimeParam(value string) (time.Time, bool) {
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
