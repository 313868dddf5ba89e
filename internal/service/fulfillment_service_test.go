package service

import (
	"testing"
	"time"

	"github.com/deliver-center/internal/constants"
	"github.com/deliver-center/internal/models"
	"github.com/deliver-center/internal/repository"
)

func shippedOrder(shippedAt time.Time, stocks ...models.DeliverStock) models.DeliverOrder {
	return models.DeliverOrder{
		Status:      constants.DeliverStatusShipped,
		ShippedTime: &shippedAt,
		Stocks:      stocks,
	}
}

func TestShipmentTimeRange(t *testing.T) {
	t1 := time.Date(2025, 5, 1, 10, 0, 0, 0, time.Local)
	t2 := t1.Add(24 * time.Hour)
	t3 := t1.Add(72 * time.Hour)
	orders := []models.DeliverOrder{
		shippedOrder(t2),
		{Status: constants.DeliverStatusPending},
		shippedOrder(t3),
		shippedOrder(t1),
	}

	first, last := shipmentTimeRange(orders)
	if first == nil || !first.Equal(t1) {
		t.Fatalf("expected first %v, got %v", t1, first)
	}
	if last == nil || !last.Equal(t3) {
		t.Fatalf("expected last %v, got %v", t3, last)
	}
}

func TestShipmentTimeRangeAllPending(t *testing.T) {
	orders := []models.DeliverOrder{
		{Status: constants.DeliverStatusPending},
		{Status: constants.DeliverStatusPending},
	}
	first, last := shipmentTimeRange(orders)
	if first != nil || last != nil {
		t.Fatalf("expected nil range for unshipped orders, got %v / %v", first, last)
	}
}

func TestDeliveredQuantityForSku(t *testing.T) {
	now := time.Now()
	orders := []models.DeliverOrder{
		shippedOrder(now,
			models.DeliverStock{SkuCode: "A-1", Quantity: 5},
			models.DeliverStock{SkuCode: "B-1", Quantity: 2},
		),
		shippedOrder(now, models.DeliverStock{SkuCode: "A-1", Quantity: 3}),
		// 数量汇总不区分单据状态
		{Status: constants.DeliverStatusPending, Stocks: []models.DeliverStock{{SkuCode: "A-1", Quantity: 10}}},
	}

	if got := deliveredQuantityForSku(orders, "A-1"); got != 18 {
		t.Fatalf("expected 18 delivered for A-1, got %d", got)
	}
	if got := deliveredQuantityForSku(orders, "B-1"); got != 2 {
		t.Fatalf("expected 2 delivered for B-1, got %d", got)
	}
	if got := deliveredQuantityForSku(orders, "missing"); got != 0 {
		t.Fatalf("expected 0 for unknown sku, got %d", got)
	}
}

func TestTotalDeliveredQuantity(t *testing.T) {
	now := time.Now()
	orders := []models.DeliverOrder{
		shippedOrder(now, models.DeliverStock{SkuCode: "A-1", Quantity: 9}),
		shippedOrder(now, models.DeliverStock{SkuCode: "B-1", Quantity: 1}),
		{Status: constants.DeliverStatusPending, Stocks: []models.DeliverStock{{SkuCode: "C-1", Quantity: 4}}},
	}
	if got := totalDeliveredQuantity(orders); got != 14 {
		t.Fatalf("expected 14, got %d", got)
	}
}

func TestShipmentTimeRangeForSku(t *testing.T) {
	t1 := time.Date(2025, 6, 1, 9, 0, 0, 0, time.Local)
	t2 := t1.Add(24 * time.Hour)
	t3 := t1.Add(48 * time.Hour)
	orders := []models.DeliverOrder{
		shippedOrder(t1, models.DeliverStock{SkuCode: "A-1", Quantity: 1}),
		shippedOrder(t2, models.DeliverStock{SkuCode: "B-1", Quantity: 1}),
		shippedOrder(t3, models.DeliverStock{SkuCode: "A-1", Quantity: 2}),
		// 未发货的单即使含该 SKU 也不计入时间范围
		{Status: constants.DeliverStatusPending, Stocks: []models.DeliverStock{{SkuCode: "A-1", Quantity: 9}}},
	}

	first, last := shipmentTimeRangeForSku(orders, "A-1")
	if first == nil || !first.Equal(t1) {
		t.Fatalf("expected first %v, got %v", t1, first)
	}
	if last == nil || !last.Equal(t3) {
		t.Fatalf("expected last %v, got %v", t3, last)
	}

	first, last = shipmentTimeRangeForSku(orders, "missing")
	if first != nil || last != nil {
		t.Fatalf("expected nil range for unknown sku, got %v / %v", first, last)
	}
}

func TestSummarizeOrders(t *testing.T) {
	now := time.Now()
	received := now.Add(time.Hour)
	orders := []models.DeliverOrder{
		shippedOrder(now, models.DeliverStock{SkuCode: "A-1", Quantity: 2}),
		{
			Status:       constants.DeliverStatusReceived,
			ShippedTime:  &now,
			ReceivedTime: &received,
			Stocks:       []models.DeliverStock{{SkuCode: "B-1", Quantity: 3}},
		},
	}

	summary := summarizeOrders(orders)
	if summary.TotalCount != 2 || summary.ShippedCount != 2 {
		t.Fatalf("unexpected counts: %+v", summary)
	}
	if summary.ReceivedCount != 1 {
		t.Fatalf("expected 1 received, got %d", summary.ReceivedCount)
	}
	if !summary.AllReceived {
		t.Fatalf("expected all_received when shipped == total")
	}
	if summary.TotalQuantity != 5 {
		t.Fatalf("expected total quantity 5, got %d", summary.TotalQuantity)
	}
}

func TestSummarizeOrdersEmpty(t *testing.T) {
	summary := summarizeOrders(nil)
	if summary.AllReceived {
		t.Fatalf("empty source should not be all_received")
	}
	if summary.TotalCount != 0 || summary.ShippedCount != 0 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
}

func TestFulfillmentServiceIsFullyDelivered(t *testing.T) {
	db := setupDeliverTestDB(t, "fulfillment_full")
	orderRepo := repository.NewDeliverOrderRepository(db)
	svc := NewFulfillmentService(orderRepo)

	now := time.Now()
	order := models.DeliverOrder{
		Sn:          "DO-F-1",
		SourceType:  constants.SourceTypeOrder,
		SourceID:    "ORD-1",
		Status:      constants.DeliverStatusShipped,
		ShippedTime: &now,
		Stocks: []models.DeliverStock{
			{SkuCode: "A-1", Quantity: 5},
			{SkuCode: "B-1", Quantity: 2},
		},
	}
	if err := db.Create(&order).Error; err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	// 发货总量恰好等于需求总量时视为足额，不区分 SKU
	full, err := svc.IsFullyDelivered(constants.SourceTypeOrder, "ORD-1", 7)
	if err != nil {
		t.Fatalf("IsFullyDelivered error: %v", err)
	}
	if !full {
		t.Fatalf("expected fully delivered at exact demand")
	}

	full, err = svc.IsFullyDelivered(constants.SourceTypeOrder, "ORD-1", 8)
	if err != nil {
		t.Fatalf("IsFullyDelivered error: %v", err)
	}
	if full {
		t.Fatalf("expected shortfall for demand above delivered")
	}

	// 按 SKU 逐项判断
	skuFull, err := svc.IsSkuFullyDelivered(constants.SourceTypeOrder, "ORD-1", map[string]int{"A-1": 5, "B-1": 2})
	if err != nil {
		t.Fatalf("IsSkuFullyDelivered error: %v", err)
	}
	if !skuFull {
		t.Fatalf("expected sku-level fully delivered at exact demand")
	}
	skuFull, err = svc.IsSkuFullyDelivered(constants.SourceTypeOrder, "ORD-1", map[string]int{"A-1": 6})
	if err != nil {
		t.Fatalf("IsSkuFullyDelivered error: %v", err)
	}
	if skuFull {
		t.Fatalf("expected sku-level shortfall for demand above delivered")
	}
}

func TestFulfillmentServiceIsFullyDeliveredAcrossOrders(t *testing.T) {
	db := setupDeliverTestDB(t, "fulfillment_split")
	orderRepo := repository.NewDeliverOrderRepository(db)
	svc := NewFulfillmentService(orderRepo)

	now := time.Now()
	first := models.DeliverOrder{
		Sn:          "DO-P-1",
		SourceType:  constants.SourceTypeOrder,
		SourceID:    "ORD-2",
		Status:      constants.DeliverStatusShipped,
		ShippedTime: &now,
		Stocks:      []models.DeliverStock{{SkuCode: "A-1", Quantity: 9}},
	}
	if err := db.Create(&first).Error; err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	full, err := svc.IsFullyDelivered(constants.SourceTypeOrder, "ORD-2", 10)
	if err != nil {
		t.Fatalf("IsFullyDelivered error: %v", err)
	}
	if full {
		t.Fatalf("9 of 10 should not be fully delivered")
	}

	// 补发 1 件后足额
	second := models.DeliverOrder{
		Sn:          "DO-P-2",
		SourceType:  constants.SourceTypeOrder,
		SourceID:    "ORD-2",
		Status:      constants.DeliverStatusShipped,
		ShippedTime: &now,
		Stocks:      []models.DeliverStock{{SkuCode: "A-1", Quantity: 1}},
	}
	if err := db.Create(&second).Error; err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	full, err = svc.IsFullyDelivered(constants.SourceTypeOrder, "ORD-2", 10)
	if err != nil {
		t.Fatalf("IsFullyDelivered error: %v", err)
	}
	if !full {
		t.Fatalf("9+1 should satisfy demand 10")
	}
}

func TestFulfillmentServiceGetDeliverySummary(t *testing.T) {
	db := setupDeliverTestDB(t, "fulfillment_summary")
	orderRepo := repository.NewDeliverOrderRepository(db)
	svc := NewFulfillmentService(orderRepo)

	t1 := time.Date(2025, 4, 1, 8, 0, 0, 0, time.Local)
	t2 := t1.Add(48 * time.Hour)
	orders := []models.DeliverOrder{
		{Sn: "DO-S-1", SourceType: constants.SourceTypeContract, SourceID: "CT-9", Status: constants.DeliverStatusShipped, ShippedTime: &t2},
		{Sn: "DO-S-2", SourceType: constants.SourceTypeContract, SourceID: "CT-9", Status: constants.DeliverStatusShipped, ShippedTime: &t1},
		{Sn: "DO-S-3", SourceType: constants.SourceTypeContract, SourceID: "CT-9", Status: constants.DeliverStatusPending},
		{Sn: "DO-S-4", SourceType: constants.SourceTypeContract, SourceID: "CT-other", Status: constants.DeliverStatusShipped, ShippedTime: &t1},
	}
	for i := range orders {
		if err := db.Create(&orders[i]).Error; err != nil {
			t.Fatalf("create order failed: %v", err)
		}
	}

	summary, err := svc.GetDeliverySummary(constants.SourceTypeContract, "CT-9")
	if err != nil {
		t.Fatalf("GetDeliverySummary error: %v", err)
	}
	if summary.TotalCount != 3 || summary.ShippedCount != 2 {
		t.Fatalf("unexpected summary counts: %+v", summary)
	}
	if summary.AllReceived {
		t.Fatalf("pending order should block all_received")
	}
	if summary.FirstShipped == nil || !summary.FirstShipped.Equal(t1) {
		t.Fatalf("unexpected first shipped: %v", summary.FirstShipped)
	}
	if summary.LastShipped == nil || !summary.LastShipped.Equal(t2) {
		t.Fatalf("unexpected last shipped: %v", summary.LastShipped)
	}
}
