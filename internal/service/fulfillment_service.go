package service

import (
	"time"

	"github.com/deliver-center/internal/models"
	"github.com/deliver-center/internal/repository"
)

// DeliverySummary 某来源单据的发货汇总
type DeliverySummary struct {
	SourceType    string     `json:"source_type"`
	SourceID      string     `json:"source_id"`
	TotalCount    int        `json:"total_count"`
	ShippedCount  int        `json:"shipped_count"`
	ReceivedCount int        `json:"received_count"`
	AllReceived   bool       `json:"all_received"`
	TotalQuantity int        `json:"total_quantity"`
	FirstShipped  *time.Time `json:"first_shipped"`
	LastShipped   *time.Time `json:"last_shipped"`
}

// FulfillmentService 发货履约查询服务（只读聚合）
type FulfillmentService struct {
	orderRepo repository.DeliverOrderRepository
}

// NewFulfillmentService 创建履约查询服务
func NewFulfillmentService(orderRepo repository.DeliverOrderRepository) *FulfillmentService {
	return &FulfillmentService{orderRepo: orderRepo}
}

// GetDeliverySummary 汇总某来源单据的发货进度
func (s *FulfillmentService) GetDeliverySummary(sourceType, sourceID string) (*DeliverySummary, error) {
	orders, err := s.orderRepo.ListBySource(sourceType, sourceID)
	if err != nil {
		return nil, err
	}
	summary := summarizeOrders(orders)
	summary.SourceType = sourceType
	summary.SourceID = sourceID
	return summary, nil
}

// GetDeliveredQuantity 某来源单据下指定 SKU 的已发货数量
func (s *FulfillmentService) GetDeliveredQuantity(sourceType, sourceID, skuCode string) (int, error) {
	orders, err := s.orderRepo.ListBySource(sourceType, sourceID)
	if err != nil {
		return 0, err
	}
	return deliveredQuantityForSku(orders, skuCode), nil
}

// TotalDeliveredQuantity 来源单据已发货的商品总数量
func (s *FulfillmentService) TotalDeliveredQuantity(sourceType, sourceID string) (int, error) {
	orders, err := s.orderRepo.ListBySource(sourceType, sourceID)
	if err != nil {
		return 0, err
	}
	return totalDeliveredQuantity(orders), nil
}

// IsFullyDelivered 来源单据的发货总量是否已满足需求总量，
// 恰好等于需求量时视为足额
func (s *FulfillmentService) IsFullyDelivered(sourceType, sourceID string, demand int) (bool, error) {
	orders, err := s.orderRepo.ListBySource(sourceType, sourceID)
	if err != nil {
		return false, err
	}
	return totalDeliveredQuantity(orders) >= demand, nil
}

// IsSkuFullyDelivered 按 SKU 需求量逐项判断是否足额发货，
// demand 为 skuCode -> 需求数量
func (s *FulfillmentService) IsSkuFullyDelivered(sourceType, sourceID string, demand map[string]int) (bool, error) {
	orders, err := s.orderRepo.ListBySource(sourceType, sourceID)
	if err != nil {
		return false, err
	}
	for skuCode, need := range demand {
		if need <= 0 {
			continue
		}
		if deliveredQuantityForSku(orders, skuCode) < need {
			return false, nil
		}
	}
	return true, nil
}

// FirstShipmentTime 来源单据首次发货时间，未发货返回 nil
func (s *FulfillmentService) FirstShipmentTime(sourceType, sourceID string) (*time.Time, error) {
	orders, err := s.orderRepo.ListBySource(sourceType, sourceID)
	if err != nil {
		return nil, err
	}
	first, _ := shipmentTimeRange(orders)
	return first, nil
}

// LastShipmentTime 来源单据最近发货时间，未发货返回 nil
func (s *FulfillmentService) LastShipmentTime(sourceType, sourceID string) (*time.Time, error) {
	orders, err := s.orderRepo.ListBySource(sourceType, sourceID)
	if err != nil {
		return nil, err
	}
	_, last := shipmentTimeRange(orders)
	return last, nil
}

// FirstShipmentTimeForSku 指定 SKU 的首次发货时间，仅统计含该 SKU 的已发货单
func (s *FulfillmentService) FirstShipmentTimeForSku(sourceType, sourceID, skuCode string) (*time.Time, error) {
	orders, err := s.orderRepo.ListBySource(sourceType, sourceID)
	if err != nil {
		return nil, err
	}
	first, _ := shipmentTimeRangeForSku(orders, skuCode)
	return first, nil
}

// LastShipmentTimeForSku 指定 SKU 的最近发货时间，仅统计含该 SKU 的已发货单
func (s *FulfillmentService) LastShipmentTimeForSku(sourceType, sourceID, skuCode string) (*time.Time, error) {
	orders, err := s.orderRepo.ListBySource(sourceType, sourceID)
	if err != nil {
		return nil, err
	}
	_, last := shipmentTimeRangeForSku(orders, skuCode)
	return last, nil
}

// summarizeOrders 聚合一组发货单的发货进度
func summarizeOrders(orders []models.DeliverOrder) *DeliverySummary {
	summary := &DeliverySummary{TotalCount: len(orders)}
	for i := range orders {
		order := &orders[i]
		if order.IsShipped() {
			summary.ShippedCount++
		}
		if order.ReceivedTime != nil {
			summary.ReceivedCount++
		}
		summary.TotalQuantity += order.TotalQuantity()
	}
	summary.FirstShipped, summary.LastShipped = shipmentTimeRange(orders)
	summary.AllReceived = summary.TotalCount > 0 && summary.ShippedCount == summary.TotalCount
	return summary
}

// shipmentTimeRange 发货时间的最早值与最晚值，忽略未发货单
func shipmentTimeRange(orders []models.DeliverOrder) (first, last *time.Time) {
	for i := range orders {
		t := orders[i].ShippedTime
		if t == nil {
			continue
		}
		if first == nil || t.Before(*first) {
			first = t
		}
		if last == nil || t.After(*last) {
			last = t
		}
	}
	return first, last
}

// shipmentTimeRangeForSku 含指定 SKU 的发货单的发货时间范围，
// 不含该 SKU 的单即使已发货也不计入
func shipmentTimeRangeForSku(orders []models.DeliverOrder, skuCode string) (first, last *time.Time) {
	for i := range orders {
		order := &orders[i]
		t := order.ShippedTime
		if t == nil {
			continue
		}
		matched := false
		for j := range order.Stocks {
			if order.Stocks[j].SkuCode == skuCode {
				matched = true
				break
			}
		}
		if !matched {
			continue
		}
		if first == nil || t.Before(*first) {
			first = t
		}
		if last == nil || t.After(*last) {
			last = t
		}
	}
	return first, last
}

// deliveredQuantityForSku 按 skuCode 汇总发货明细数量，不区分单据状态
func deliveredQuantityForSku(orders []models.DeliverOrder, skuCode string) int {
	total := 0
	for i := range orders {
		order := &orders[i]
		for j := range order.Stocks {
			if order.Stocks[j].SkuCode == skuCode {
				total += order.Stocks[j].Quantity
			}
		}
	}
	return total
}

// totalDeliveredQuantity 全部发货单的商品总数量，不区分单据状态
func totalDeliveredQuantity(orders []models.DeliverOrder) int {
	total := 0
	for i := range orders {
		total += orders[i].TotalQuantity()
	}
	return total
}
