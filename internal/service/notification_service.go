package service

import (
	"context"
	"fmt"
	"time"

	"github.com/deliver-center/internal/cache"
	"github.com/deliver-center/internal/constants"
	"github.com/deliver-center/internal/logger"
	"github.com/deliver-center/internal/models"
	"github.com/deliver-center/internal/repository"
)

// deliverEventTTL 事件快照在缓存中的保留时长
const deliverEventTTL = 7 * 24 * time.Hour

// DeliverEventRecord 最近一次发货事件的缓存快照
type DeliverEventRecord struct {
	Sn         string    `json:"sn"`
	SourceType string    `json:"source_type"`
	SourceID   string    `json:"source_id"`
	Event      string    `json:"event"`
	Status     string    `json:"status"`
	NotifiedAt time.Time `json:"notified_at"`
}

// NotificationService 发货事件通知服务，由队列消费侧调用
type NotificationService struct {
	orderRepo repository.DeliverOrderRepository
	registry  *SourceRegistry
}

// NewNotificationService 创建发货通知服务
func NewNotificationService(orderRepo repository.DeliverOrderRepository, registry *SourceRegistry) *NotificationService {
	return &NotificationService{orderRepo: orderRepo, registry: registry}
}

// Dispatch 分发一条发货事件：触发来源方回调并缓存事件快照。
// 发货单已不存在时视为过期事件，直接丢弃。
func (s *NotificationService) Dispatch(ctx context.Context, deliverOrderID uint, sn, event, reason string) error {
	order, err := s.orderRepo.GetByID(deliverOrderID)
	if err != nil {
		return err
	}
	if order == nil && sn != "" {
		order, err = s.orderRepo.GetBySn(sn)
		if err != nil {
			return err
		}
	}
	if order == nil {
		logger.Warnw("deliver_notify_order_missing", "deliver_order_id", deliverOrderID, "sn", sn, "event", event)
		return nil
	}

	if s.registry != nil {
		s.registry.notify(order, event, reason)
	}
	s.recordEvent(ctx, order, event)

	logger.Infow("deliver_notify_dispatched",
		"sn", order.Sn,
		"event", event,
		"event_label", deliverEventLabel(event),
		"status", order.Status,
	)
	return nil
}

// recordEvent 写入事件快照，缓存不可用时静默跳过
func (s *NotificationService) recordEvent(ctx context.Context, order *models.DeliverOrder, event string) {
	if !cache.Enabled() {
		return
	}
	record := DeliverEventRecord{
		Sn:         order.Sn,
		SourceType: order.SourceType,
		SourceID:   order.SourceID,
		Event:      event,
		Status:     order.Status,
		NotifiedAt: time.Now(),
	}
	if err := cache.SetJSON(ctx, deliverEventKey(order.Sn), record, deliverEventTTL); err != nil {
		logger.Warnw("deliver_event_cache_failed", "sn", order.Sn, "error", err)
	}
}

// LastEvent 读取发货单最近一次事件快照，无记录时返回 nil
func (s *NotificationService) LastEvent(ctx context.Context, sn string) (*DeliverEventRecord, error) {
	var record DeliverEventRecord
	found, err := cache.GetJSON(ctx, deliverEventKey(sn), &record)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return &record, nil
}

func deliverEventKey(sn string) string {
	return fmt.Sprintf("deliver:event:%s", sn)
}

func deliverEventLabel(event string) string {
	switch event {
	case constants.DeliverEventCreated:
		return "发货单已创建"
	case constants.DeliverEventShipped:
		return "商品已发货"
	case constants.DeliverEventCancelled:
		return "发货已取消"
	case constants.DeliverEventCompleted:
		return "发货已完成"
	default:
		return event
	}
}
