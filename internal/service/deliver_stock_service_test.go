package service

import (
	"errors"
	"testing"
	"time"

	"github.com/deliver-center/internal/constants"
	"github.com/deliver-center/internal/models"
	"github.com/deliver-center/internal/repository"
)

func setupStockServiceTest(t *testing.T, name string) (*DeliverStockService, *DeliverOrderService) {
	t.Helper()

	db := setupDeliverTestDB(t, name)
	orderRepo := repository.NewDeliverOrderRepository(db)
	stockRepo := repository.NewDeliverStockRepository(db)
	orderService := NewDeliverOrderService(orderRepo, stockRepo, NewSourceRegistry(), nil, "DO", 5)
	return NewDeliverStockService(orderRepo, stockRepo), orderService
}

func TestAddStockToPendingOrder(t *testing.T) {
	stockSvc, orderSvc := setupStockServiceTest(t, "stock_add")

	order, err := orderSvc.CreateFromContext(&DeliverContext{
		SourceType: constants.SourceTypeOrder,
		SourceID:   "ORD-1",
		Items:      []DeliverItem{{SkuID: "SKU-1", SkuName: "商品一", Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("create error: %v", err)
	}

	stock, err := stockSvc.AddStock(order.ID, DeliverItem{SkuID: "SKU-2", SkuName: "商品二", Quantity: 3})
	if err != nil {
		t.Fatalf("AddStock error: %v", err)
	}
	if stock.ID == 0 || stock.DeliverOrderID != order.ID {
		t.Fatalf("unexpected stock: %+v", stock)
	}

	total, err := stockSvc.TotalQuantity(order.ID)
	if err != nil {
		t.Fatalf("TotalQuantity error: %v", err)
	}
	if total != 4 {
		t.Fatalf("expected total 4, got %d", total)
	}
}

func TestAddStockRejectsShippedOrder(t *testing.T) {
	stockSvc, orderSvc := setupStockServiceTest(t, "stock_add_shipped")

	order, err := orderSvc.CreateFromContext(&DeliverContext{
		SourceType: constants.SourceTypeOrder,
		SourceID:   "ORD-2",
		Items:      []DeliverItem{{SkuID: "SKU-1", SkuName: "商品一", Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("create error: %v", err)
	}
	if _, err := orderSvc.Ship(order.Sn, ShipInput{}); err != nil {
		t.Fatalf("ship error: %v", err)
	}

	if _, err := stockSvc.AddStock(order.ID, DeliverItem{SkuID: "SKU-2", Quantity: 1}); !IsStateTransitionError(err) {
		t.Fatalf("expected transition error, got %v", err)
	}
}

func TestUpdateQuantityValidation(t *testing.T) {
	stockSvc, orderSvc := setupStockServiceTest(t, "stock_update")

	order, err := orderSvc.CreateFromContext(&DeliverContext{
		SourceType: constants.SourceTypeOrder,
		SourceID:   "ORD-3",
		Items:      []DeliverItem{{SkuID: "SKU-1", SkuName: "商品一", Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("create error: %v", err)
	}
	stocks, err := stockSvc.ListByOrder(order.ID)
	if err != nil || len(stocks) != 1 {
		t.Fatalf("list stocks failed: %v (%d)", err, len(stocks))
	}

	if err := stockSvc.UpdateQuantity(stocks[0].ID, 0); !errors.Is(err, ErrDeliverValidateFailed) {
		t.Fatalf("expected validate error for zero quantity, got %v", err)
	}
	if err := stockSvc.UpdateQuantity(stocks[0].ID, 5); err != nil {
		t.Fatalf("UpdateQuantity error: %v", err)
	}

	total, err := stockSvc.TotalQuantity(order.ID)
	if err != nil || total != 5 {
		t.Fatalf("expected total 5, got %d (%v)", total, err)
	}
}

func TestReceiveStockIdempotent(t *testing.T) {
	stockSvc, orderSvc := setupStockServiceTest(t, "stock_receive")

	order, err := orderSvc.CreateFromContext(&DeliverContext{
		SourceType: constants.SourceTypeOrder,
		SourceID:   "ORD-4",
		Items:      []DeliverItem{{SkuID: "SKU-1", SkuName: "商品一", Quantity: 2}},
	})
	if err != nil {
		t.Fatalf("create error: %v", err)
	}
	stocks, _ := stockSvc.ListByOrder(order.ID)

	now := time.Now()
	if err := stockSvc.ReceiveStock(stocks[0].ID, now); err != nil {
		t.Fatalf("ReceiveStock error: %v", err)
	}
	if err := stockSvc.ReceiveStock(stocks[0].ID, now.Add(time.Hour)); err != nil {
		t.Fatalf("repeated ReceiveStock should be no-op, got %v", err)
	}

	reloaded, err := stockSvc.ListByOrder(order.ID)
	if err != nil {
		t.Fatalf("list stocks failed: %v", err)
	}
	if !reloaded[0].Received || reloaded[0].ReceivedTime == nil {
		t.Fatalf("stock not marked received: %+v", reloaded[0])
	}

	if err := stockSvc.ReceiveStock(9999, now); !errors.Is(err, ErrDeliverStockNotFound) {
		t.Fatalf("expected ErrDeliverStockNotFound, got %v", err)
	}
}

func TestValidateOrderWithStocksLengthLimits(t *testing.T) {
	long := make([]byte, 0, 120)
	for i := 0; i < 120; i++ {
		long = append(long, 'x')
	}
	order := &models.DeliverOrder{
		Sn:         string(long),
		SourceType: constants.SourceTypeOrder,
		Status:     constants.DeliverStatusPending,
	}
	err := validateOrderWithStocks(order, []models.DeliverStock{{SkuID: "SKU-1", Quantity: 1}})
	if !errors.Is(err, ErrDeliverValidateFailed) {
		t.Fatalf("expected validate error for over-long sn, got %v", err)
	}
}
