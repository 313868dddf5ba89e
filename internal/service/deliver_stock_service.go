package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/deliver-center/internal/constants"
	"github.com/deliver-center/internal/logger"
	"github.com/deliver-center/internal/models"
	"github.com/deliver-center/internal/repository"
)

// DeliverStockService 发货明细服务
type DeliverStockService struct {
	orderRepo repository.DeliverOrderRepository
	stockRepo repository.DeliverStockRepository
}

// NewDeliverStockService 创建发货明细服务
func NewDeliverStockService(orderRepo repository.DeliverOrderRepository, stockRepo repository.DeliverStockRepository) *DeliverStockService {
	return &DeliverStockService{orderRepo: orderRepo, stockRepo: stockRepo}
}

// AddStock 为待发货单追加一条明细
func (s *DeliverStockService) AddStock(orderID uint, item DeliverItem) (*models.DeliverStock, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrDeliverOrderNotFound
	}
	if order.Status != constants.DeliverStatusPending {
		return nil, NewStateTransitionError(order.Status, "add_stock")
	}
	stock := &models.DeliverStock{
		DeliverOrderID: orderID,
		SkuID:          strings.TrimSpace(item.SkuID),
		SkuCode:        strings.TrimSpace(item.SkuCode),
		SkuName:        strings.TrimSpace(item.SkuName),
		Quantity:       item.Quantity,
		BatchNo:        strings.TrimSpace(item.BatchNo),
		SerialNo:       strings.TrimSpace(item.SerialNo),
		Remark:         item.Remark,
	}
	if msgs := validateDeliverStock(stock, 1); len(msgs) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrDeliverValidateFailed, strings.Join(msgs, "; "))
	}
	if err := s.stockRepo.Create(stock); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDeliverOperationFailed, err)
	}
	logger.Infow("deliver_stock_added", "sn", order.Sn, "sku_id", stock.SkuID, "quantity", stock.Quantity)
	return stock, nil
}

// UpdateQuantity 修改待发货单明细数量
func (s *DeliverStockService) UpdateQuantity(stockID uint, quantity int) error {
	if quantity <= 0 {
		return fmt.Errorf("%w: 数量必须大于0", ErrDeliverValidateFailed)
	}
	stock, err := s.stockRepo.GetByID(stockID)
	if err != nil {
		return err
	}
	if stock == nil {
		return ErrDeliverStockNotFound
	}
	order, err := s.orderRepo.GetByID(stock.DeliverOrderID)
	if err != nil {
		return err
	}
	if order == nil {
		return ErrDeliverOrderNotFound
	}
	if order.Status != constants.DeliverStatusPending {
		return NewStateTransitionError(order.Status, "update_stock")
	}
	return s.stockRepo.Updates(stockID, map[string]interface{}{
		"quantity":   quantity,
		"updated_at": time.Now(),
	})
}

// ReceiveStock 单条明细签收（部分签收场景）
func (s *DeliverStockService) ReceiveStock(stockID uint, receivedAt time.Time) error {
	stock, err := s.stockRepo.GetByID(stockID)
	if err != nil {
		return err
	}
	if stock == nil {
		return ErrDeliverStockNotFound
	}
	if stock.Received {
		return nil
	}
	return s.stockRepo.MarkReceived(stockID, receivedAt)
}

// ListByOrder 查询发货单全部明细
func (s *DeliverStockService) ListByOrder(orderID uint) ([]models.DeliverStock, error) {
	return s.stockRepo.ListByOrderID(orderID)
}

// TotalQuantity 发货单的商品总数量
func (s *DeliverStockService) TotalQuantity(orderID uint) (int, error) {
	return s.stockRepo.SumQuantityByOrderID(orderID)
}
