package admin

import (
	"strconv"
	"time"

	"github.com/deliver-center/internal/http/response"
	"github.com/deliver-center/internal/service"

	"github.com/gin-gonic/gin"
)

// AddDeliverStockRequest 追加发货明细请求
type AddDeliverStockRequest struct {
	SkuID    string `json:"sku_id"`
	SkuCode  string `json:"sku_code"`
	SkuName  string `json:"sku_name"`
	Quantity int    `json:"quantity" binding:"required"`
	BatchNo  string `json:"batch_no"`
	SerialNo string `json:"serial_no"`
	Remark   string `json:"remark"`
}

// AddDeliverStock 为待发货单追加明细
func (h *Handler) AddDeliverStock(c *gin.Context) {
	orderID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	var req AddDeliverStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数无效", err)
		return
	}
	stock, err := h.DeliverStockService.AddStock(orderID, service.DeliverItem{
		SkuID:    req.SkuID,
		SkuCode:  req.SkuCode,
		SkuName:  req.SkuName,
		Quantity: req.Quantity,
		BatchNo:  req.BatchNo,
		SerialNo: req.SerialNo,
		Remark:   req.Remark,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, stock)
}

// UpdateDeliverStockRequest 修改明细数量请求
type UpdateDeliverStockRequest struct {
	Quantity int `json:"quantity" binding:"required"`
}

// UpdateDeliverStockQuantity 修改待发货单明细数量
func (h *Handler) UpdateDeliverStockQuantity(c *gin.Context) {
	stockID, ok := parseUintParam(c, "stock_id")
	if !ok {
		return
	}
	var req UpdateDeliverStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数无效", err)
		return
	}
	if err := h.DeliverStockService.UpdateQuantity(stockID, req.Quantity); err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, nil)
}

// ReceiveDeliverStock 单条明细签收
func (h *Handler) ReceiveDeliverStock(c *gin.Context) {
	stockID, ok := parseUintParam(c, "stock_id")
	if !ok {
		return
	}
	if err := h.DeliverStockService.ReceiveStock(stockID, time.Now()); err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, nil)
}

func parseUintParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		respondError(c, response.CodeBadRequest, "路径参数无效", err)
		return 0, false
	}
	return uint(id), true
}
