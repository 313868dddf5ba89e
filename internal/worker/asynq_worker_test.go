package worker

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/deliver-center/internal/constants"
	"github.com/deliver-center/internal/models"
	"github.com/deliver-center/internal/provider"
	"github.com/deliver-center/internal/queue"
	"github.com/deliver-center/internal/repository"
	"github.com/deliver-center/internal/service"

	"github.com/glebarez/sqlite"
	"github.com/hibiken/asynq"
	"gorm.io/gorm"
)

func setupConsumerTest(t *testing.T, name string) (*Consumer, repository.DeliverOrderRepository) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.DeliverOrder{}, &models.DeliverStock{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}

	orderRepo := repository.NewDeliverOrderRepository(db)
	registry := service.NewSourceRegistry()
	registry.Register(service.NewOmsSource())

	container := &provider.Container{
		DeliverOrderRepo:    orderRepo,
		SourceRegistry:      registry,
		NotificationService: service.NewNotificationService(orderRepo, registry),
	}
	return NewConsumer(container), orderRepo
}

func TestHandleDeliverNotifySkipsEmptyPayload(t *testing.T) {
	consumer, _ := setupConsumerTest(t, "worker_empty")

	task, err := queue.NewDeliverNotifyTask(queue.DeliverNotifyPayload{})
	if err != nil {
		t.Fatalf("build task failed: %v", err)
	}
	if err := consumer.handleDeliverNotify(context.Background(), task); err != nil {
		t.Fatalf("empty payload should be skipped, got %v", err)
	}
}

func TestHandleDeliverNotifyBadPayload(t *testing.T) {
	consumer, _ := setupConsumerTest(t, "worker_bad")

	task := asynq.NewTask(queue.TaskDeliverNotify, []byte("{not-json"))
	if err := consumer.handleDeliverNotify(context.Background(), task); err == nil {
		t.Fatalf("expected unmarshal error")
	}
}

func TestHandleDeliverNotifyDispatch(t *testing.T) {
	consumer, orderRepo := setupConsumerTest(t, "worker_dispatch")

	order := &models.DeliverOrder{
		Sn:         "DO-W-1",
		SourceType: constants.SourceTypeOMS,
		SourceID:   "PO-1",
		Status:     constants.DeliverStatusShipped,
	}
	if err := orderRepo.Create(order, nil); err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	task, err := queue.NewDeliverNotifyTask(queue.DeliverNotifyPayload{
		DeliverOrderID: order.ID,
		Sn:             order.Sn,
		SourceType:     order.SourceType,
		SourceID:       order.SourceID,
		Event:          constants.DeliverEventShipped,
	})
	if err != nil {
		t.Fatalf("build task failed: %v", err)
	}
	if err := consumer.handleDeliverNotify(context.Background(), task); err != nil {
		t.Fatalf("dispatch failed: %v", err)
	}
}

func TestHandleDeliverNotifyMissingOrder(t *testing.T) {
	consumer, _ := setupConsumerTest(t, "worker_missing")

	task, err := queue.NewDeliverNotifyTask(queue.DeliverNotifyPayload{
		DeliverOrderID: 9999,
		Sn:             "DO-none",
		Event:          constants.DeliverEventShipped,
	})
	if err != nil {
		t.Fatalf("build task failed: %v", err)
	}
	if err := consumer.handleDeliverNotify(context.Background(), task); err != nil {
		t.Fatalf("missing order should be tolerated, got %v", err)
	}
}
