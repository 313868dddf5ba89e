package worker

import (
	"context"
	"encoding/json"

	"github.com/deliver-center/internal/logger"
	"github.com/deliver-center/internal/provider"
	"github.com/deliver-center/internal/queue"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskDeliverNotify, c.handleDeliverNotify)
}

func (c *Consumer) handleDeliverNotify(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_deliver_notify_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.DeliverNotifyPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_deliver_notify_unmarshal_failed", "error", err)
		return err
	}
	if payload.DeliverOrderID == 0 && payload.Sn == "" {
		logger.Debugw("worker_deliver_notify_skip_invalid_payload", "event", payload.Event)
		return nil
	}
	if err := c.NotificationService.Dispatch(ctx, payload.DeliverOrderID, payload.Sn, payload.Event, payload.Reason); err != nil {
		logger.Warnw("worker_deliver_notify_dispatch_failed",
			"deliver_order_id", payload.DeliverOrderID,
			"sn", payload.Sn,
			"event", payload.Event,
			"error", err,
		)
		return err
	}
	return nil
}
