package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/deliver-center/internal/constants"
	"github.com/deliver-center/internal/logger"
	"github.com/deliver-center/internal/models"

	"gorm.io/gorm"
)

// OmsDeliveryItem OMS 推送的单个发货商品
type OmsDeliveryItem struct {
	SkuID    string `json:"sku_id"`
	SkuCode  string `json:"sku_code"`
	SkuName  string `json:"sku_name"`
	Quantity int    `json:"quantity"`
	BatchNo  string `json:"batch_no"`
	SerialNo string `json:"serial_no"`
	Remark   string `json:"remark"`
}

// OmsDeliveryInput OMS 推送的发货数据
type OmsDeliveryInput struct {
	Sn               string            `json:"sn"`
	SourceID         string            `json:"source_id"`
	ExpressCompany   string            `json:"express_company"`
	ExpressCode      string            `json:"express_code"`
	ExpressNumber    string            `json:"express_number"`
	ConsigneeName    string            `json:"consignee_name"`
	ConsigneePhone   string            `json:"consignee_phone"`
	ConsigneeAddress string            `json:"consignee_address"`
	Remark           string            `json:"remark"`
	ShippedTime      *time.Time        `json:"shipped_time"`
	ShippedBy        string            `json:"shipped_by"`
	Items            []OmsDeliveryItem `json:"items"`
}

// DeliverySyncService OMS 发货同步服务
type DeliverySyncService struct {
	orderService *DeliverOrderService
}

// NewDeliverySyncService 创建 OMS 同步服务
func NewDeliverySyncService(orderService *DeliverOrderService) *DeliverySyncService {
	return &DeliverySyncService{orderService: orderService}
}

// SyncDeliveryFromOms 同步一条 OMS 发货记录：
// 整单成功或整单失败，单号幂等（重复推送直接报已存在）。
func (s *DeliverySyncService) SyncDeliveryFromOms(input OmsDeliveryInput) (*models.DeliverOrder, error) {
	sn := strings.TrimSpace(input.Sn)
	if sn == "" {
		return nil, ErrDeliverSnEmpty
	}

	exists, err := s.orderService.orderRepo.ExistsBySn(sn)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDeliverOperationFailed, err)
	}
	if exists {
		return nil, ErrDeliverSnExists
	}

	now := time.Now()
	shippedTime := now
	if input.ShippedTime != nil {
		shippedTime = *input.ShippedTime
	}
	sourceID := strings.TrimSpace(input.SourceID)
	if sourceID == "" {
		sourceID = sn
	}
	shippedBy := strings.TrimSpace(input.ShippedBy)
	if shippedBy == "" {
		shippedBy = constants.ActorOmsSync
	}
	order := &models.DeliverOrder{
		Sn:               sn,
		SourceType:       constants.SourceTypeOMS,
		SourceID:         sourceID,
		ExpressCompany:   strings.TrimSpace(input.ExpressCompany),
		ExpressCode:      strings.TrimSpace(input.ExpressCode),
		ExpressNumber:    strings.TrimSpace(input.ExpressNumber),
		ConsigneeName:    strings.TrimSpace(input.ConsigneeName),
		ConsigneePhone:   strings.TrimSpace(input.ConsigneePhone),
		ConsigneeAddress: strings.TrimSpace(input.ConsigneeAddress),
		ConsigneeRemark:  input.Remark,
		Status:           constants.DeliverStatusShipped,
		ShippedTime:      &shippedTime,
		ShippedBy:        shippedBy,
		CreatedBy:        constants.ActorOmsSync,
	}
	stocks := buildOmsStocks(input.Items)

	if err := validateOrderWithStocks(order, stocks); err != nil {
		return nil, err
	}
	if err := validateOmsItems(input.Items); err != nil {
		return nil, err
	}

	if err := models.DB.Transaction(func(tx *gorm.DB) error {
		return s.orderService.orderRepo.WithTx(tx).Create(order, stocks)
	}); err != nil {
		// 并发推送同一单号时由唯一索引兜底
		if isDuplicateKeyErr(err) {
			return nil, ErrDeliverSnExists
		}
		return nil, fmt.Errorf("%w: %v", ErrDeliverOperationFailed, err)
	}
	order.Stocks = stocks

	logger.Infow("oms_delivery_synced",
		"sn", order.Sn,
		"source_id", order.SourceID,
		"item_count", len(stocks),
		"total_quantity", order.TotalQuantity(),
	)
	s.orderService.afterTransition(order, constants.DeliverEventShipped)
	return order, nil
}

// validateOmsItems 同步入口的载荷校验：商品名称必填，实体层 sku_name 仍允许为空
func validateOmsItems(items []OmsDeliveryItem) error {
	var msgs []string
	for i := range items {
		if strings.TrimSpace(items[i].SkuName) == "" {
			msgs = append(msgs, fmt.Sprintf("第%d个商品名称不能为空", i+1))
		}
	}
	if len(msgs) > 0 {
		return fmt.Errorf("%w: %s", ErrDeliverValidateFailed, strings.Join(msgs, "; "))
	}
	return nil
}

func buildOmsStocks(items []OmsDeliveryItem) []models.DeliverStock {
	stocks := make([]models.DeliverStock, 0, len(items))
	for _, item := range items {
		stock := models.DeliverStock{
			SkuID:    strings.TrimSpace(item.SkuID),
			SkuCode:  strings.TrimSpace(item.SkuCode),
			SkuName:  strings.TrimSpace(item.SkuName),
			Quantity: item.Quantity,
		}
		if v := strings.TrimSpace(item.BatchNo); v != "" {
			stock.BatchNo = v
		}
		if v := strings.TrimSpace(item.SerialNo); v != "" {
			stock.SerialNo = v
		}
		if item.Remark != "" {
			stock.Remark = item.Remark
		}
		stocks = append(stocks, stock)
	}
	return stocks
}

func isDuplicateKeyErr(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique") || strings.Contains(msg, "duplicate")
}
