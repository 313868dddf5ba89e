package service

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/deliver-center/internal/constants"
	"github.com/deliver-center/internal/models"
	"github.com/deliver-center/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupDeliverTestDB(t *testing.T, name string) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.DeliverOrder{}, &models.DeliverStock{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db
	return db
}

func setupSyncServiceTest(t *testing.T, name string) (*DeliverySyncService, *gorm.DB) {
	t.Helper()

	db := setupDeliverTestDB(t, name)
	orderRepo := repository.NewDeliverOrderRepository(db)
	stockRepo := repository.NewDeliverStockRepository(db)
	orderService := NewDeliverOrderService(orderRepo, stockRepo, NewSourceRegistry(), nil, "DO", 5)
	return NewDeliverySyncService(orderService), db
}

func TestSyncDeliveryFromOms(t *testing.T) {
	svc, db := setupSyncServiceTest(t, "sync_ok")

	shipped := time.Date(2025, 6, 1, 12, 30, 0, 0, time.Local)
	order, err := svc.SyncDeliveryFromOms(OmsDeliveryInput{
		Sn:             "OMS20250601001",
		SourceID:       "SO-1001",
		ExpressCompany: "顺丰速运",
		ExpressNumber:  "SF123456",
		ConsigneeName:  "张三",
		ShippedTime:    &shipped,
		Items: []OmsDeliveryItem{
			{SkuID: "SKU-1", SkuCode: "A-1", SkuName: "商品一", Quantity: 2, BatchNo: "B01"},
			{SkuID: "SKU-2", SkuCode: "A-2", SkuName: "商品二", Quantity: 3},
		},
	})
	if err != nil {
		t.Fatalf("SyncDeliveryFromOms error: %v", err)
	}
	if order.Status != constants.DeliverStatusShipped {
		t.Fatalf("expected shipped status, got %s", order.Status)
	}
	if order.SourceType != constants.SourceTypeOMS {
		t.Fatalf("expected oms source type, got %s", order.SourceType)
	}
	if order.CreatedBy != constants.ActorOmsSync || order.ShippedBy != constants.ActorOmsSync {
		t.Fatalf("expected OMS_SYNC actor, got created_by=%s shipped_by=%s", order.CreatedBy, order.ShippedBy)
	}
	if order.ShippedTime == nil || !order.ShippedTime.Equal(shipped) {
		t.Fatalf("unexpected shipped time: %v", order.ShippedTime)
	}

	var stockCount int64
	if err := db.Model(&models.DeliverStock{}).Where("deliver_order_id = ?", order.ID).Count(&stockCount).Error; err != nil {
		t.Fatalf("count stocks failed: %v", err)
	}
	if stockCount != 2 {
		t.Fatalf("expected 2 stocks, got %d", stockCount)
	}

	var saved models.DeliverStock
	if err := db.Where("sku_code = ?", "A-1").First(&saved).Error; err != nil {
		t.Fatalf("load stock failed: %v", err)
	}
	if saved.BatchNo != "B01" {
		t.Fatalf("expected batch no copied, got %q", saved.BatchNo)
	}
}

func TestSyncDeliveryFromOmsDefaultsShippedTime(t *testing.T) {
	svc, _ := setupSyncServiceTest(t, "sync_default_time")

	before := time.Now()
	order, err := svc.SyncDeliveryFromOms(OmsDeliveryInput{
		Sn:    "OMS20250601002",
		Items: []OmsDeliveryItem{{SkuID: "SKU-1", SkuName: "商品一", Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("SyncDeliveryFromOms error: %v", err)
	}
	if order.ShippedTime == nil || order.ShippedTime.Before(before.Add(-time.Second)) {
		t.Fatalf("expected shipped time defaulted to now, got %v", order.ShippedTime)
	}
	if order.SourceID != "OMS20250601002" {
		t.Fatalf("expected source id fallback to sn, got %s", order.SourceID)
	}
}

func TestSyncDeliveryFromOmsKeepsShippedBy(t *testing.T) {
	svc, _ := setupSyncServiceTest(t, "sync_shipped_by")

	order, err := svc.SyncDeliveryFromOms(OmsDeliveryInput{
		Sn:        "OMS20250601006",
		ShippedBy: "仓库小王",
		Items:     []OmsDeliveryItem{{SkuID: "SKU-1", SkuName: "商品一", Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("SyncDeliveryFromOms error: %v", err)
	}
	if order.ShippedBy != "仓库小王" {
		t.Fatalf("expected shipped_by kept, got %s", order.ShippedBy)
	}
	if order.CreatedBy != constants.ActorOmsSync {
		t.Fatalf("expected created_by OMS_SYNC, got %s", order.CreatedBy)
	}
}

func TestSyncDeliveryFromOmsEmptySn(t *testing.T) {
	svc, _ := setupSyncServiceTest(t, "sync_empty_sn")

	_, err := svc.SyncDeliveryFromOms(OmsDeliveryInput{Sn: "   "})
	if !errors.Is(err, ErrDeliverSnEmpty) {
		t.Fatalf("expected ErrDeliverSnEmpty, got %v", err)
	}
}

func TestSyncDeliveryFromOmsDuplicateSn(t *testing.T) {
	svc, db := setupSyncServiceTest(t, "sync_dup")

	input := OmsDeliveryInput{
		Sn:    "OMS20250601003",
		Items: []OmsDeliveryItem{{SkuID: "SKU-1", SkuName: "商品一", Quantity: 1}},
	}
	if _, err := svc.SyncDeliveryFromOms(input); err != nil {
		t.Fatalf("first sync error: %v", err)
	}
	if _, err := svc.SyncDeliveryFromOms(input); !errors.Is(err, ErrDeliverSnExists) {
		t.Fatalf("expected ErrDeliverSnExists, got %v", err)
	}

	var count int64
	if err := db.Model(&models.DeliverOrder{}).Count(&count).Error; err != nil {
		t.Fatalf("count orders failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected single order after duplicate push, got %d", count)
	}
}

func TestSyncDeliveryFromOmsEmptyItems(t *testing.T) {
	svc, db := setupSyncServiceTest(t, "sync_no_items")

	_, err := svc.SyncDeliveryFromOms(OmsDeliveryInput{Sn: "OMS20250601004"})
	if !errors.Is(err, ErrDeliverValidateFailed) {
		t.Fatalf("expected ErrDeliverValidateFailed, got %v", err)
	}
	if !strings.Contains(err.Error(), "发货商品列表不能为空") {
		t.Fatalf("unexpected message: %v", err)
	}
	assertNoRows(t, db)
}

func TestSyncDeliveryFromOmsInvalidItemMessages(t *testing.T) {
	svc, db := setupSyncServiceTest(t, "sync_bad_items")

	_, err := svc.SyncDeliveryFromOms(OmsDeliveryInput{
		Sn: "OMS20250601005",
		Items: []OmsDeliveryItem{
			{SkuID: "SKU-1", SkuName: "商品一", Quantity: 1},
			{Quantity: 0},
		},
	})
	if !errors.Is(err, ErrDeliverValidateFailed) {
		t.Fatalf("expected ErrDeliverValidateFailed, got %v", err)
	}
	msg := err.Error()
	if !strings.Contains(msg, "第2个商品SKU不能为空") {
		t.Fatalf("expected 1-based sku message, got: %s", msg)
	}
	if !strings.Contains(msg, "第2个商品数量必须大于0") {
		t.Fatalf("expected 1-based quantity message, got: %s", msg)
	}
	if strings.Contains(msg, "第1个") {
		t.Fatalf("valid item should not be reported: %s", msg)
	}
	assertNoRows(t, db)
}

func TestSyncDeliveryFromOmsEmptySkuName(t *testing.T) {
	svc, db := setupSyncServiceTest(t, "sync_empty_name")

	_, err := svc.SyncDeliveryFromOms(OmsDeliveryInput{
		Sn: "OMS20250601006",
		Items: []OmsDeliveryItem{
			{SkuID: "SKU-1", SkuName: "商品一", Quantity: 1},
			{SkuID: "SKU-2", SkuName: "  ", Quantity: 1},
		},
	})
	if !errors.Is(err, ErrDeliverValidateFailed) {
		t.Fatalf("expected ErrDeliverValidateFailed, got %v", err)
	}
	if !strings.Contains(err.Error(), "第2个商品名称不能为空") {
		t.Fatalf("expected 1-based name message, got: %v", err)
	}
	assertNoRows(t, db)
}

func assertNoRows(t *testing.T, db *gorm.DB) {
	t.Helper()

	var orderCount, stockCount int64
	if err := db.Model(&models.DeliverOrder{}).Count(&orderCount).Error; err != nil {
		t.Fatalf("count orders failed: %v", err)
	}
	if err := db.Model(&models.DeliverStock{}).Count(&stockCount).Error; err != nil {
		t.Fatalf("count stocks failed: %v", err)
	}
	if orderCount != 0 || stockCount != 0 {
		t.Fatalf("expected no persisted rows, got orders=%d stocks=%d", orderCount, stockCount)
	}
}

func TestIsDuplicateKeyErr(t *testing.T) {
	if !isDuplicateKeyErr(gorm.ErrDuplicatedKey) {
		t.Fatalf("gorm.ErrDuplicatedKey should be treated as duplicate")
	}
	if !isDuplicateKeyErr(errors.New("UNIQUE constraint failed: deliver_orders.sn")) {
		t.Fatalf("sqlite unique message should be treated as duplicate")
	}
	if isDuplicateKeyErr(errors.New("connection refused")) {
		t.Fatalf("unrelated error treated as duplicate")
	}
}
