package worker

import (
	"context"
	"errors"
	"time"

	"github.com/deliver-center/internal/config"
	"github.com/deliver-center/internal/logger"
	"github.com/deliver-center/internal/queue"

	"github.com/hibiken/asynq"
)

const (
	pendingWarnInterval = time.Hour
)

// Service 异步队列服务
type Service struct {
	name            string
	server          *asynq.Server
	mux             *asynq.ServeMux
	consumer        *Consumer
	pendingWarnDays int
}

// NewService 创建异步队列服务
func NewService(cfg *config.QueueConfig, consumer *Consumer, pendingWarnDays int) (*Service, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, errors.New("queue disabled")
	}
	if consumer == nil {
		return nil, errors.New("consumer is nil")
	}
	opt, serverCfg := queue.BuildServerConfig(cfg)
	server := asynq.NewServer(opt, serverCfg)
	mux := asynq.NewServeMux()
	consumer.Register(mux)
	return &Service{
		name:            "worker",
		server:          server,
		mux:             mux,
		consumer:        consumer,
		pendingWarnDays: pendingWarnDays,
	}, nil
}

// Name 服务名称
func (s *Service) Name() string {
	if s == nil || s.name == "" {
		return "worker"
	}
	return s.name
}

// Start 启动服务
func (s *Service) Start(ctx context.Context) error {
	if s == nil || s.server == nil || s.mux == nil {
		return errors.New("worker not initialized")
	}
	if s.consumer != nil && s.consumer.DeliverOrderService != nil && s.pendingWarnDays > 0 {
		go s.runPendingWarnLoop(ctx)
	}
	return s.server.Run(s.mux)
}

// Stop 停止服务
func (s *Service) Stop(ctx context.Context) error {
	if s == nil || s.server == nil {
		return nil
	}
	_ = ctx
	s.server.Shutdown()
	return nil
}

// runPendingWarnLoop 周期巡检超期未发货的发货单并告警
func (s *Service) runPendingWarnLoop(ctx context.Context) {
	if s == nil || s.consumer == nil || s.consumer.DeliverOrderService == nil {
		return
	}
	runOnce := func() {
		orders, err := s.consumer.DeliverOrderService.ListPendingOlderThan(s.pendingWarnDays)
		if err != nil {
			logger.Warnw("worker_pending_warn_scan_failed", "error", err)
			return
		}
		for i := range orders {
			logger.Warnw("deliver_order_pending_overdue",
				"sn", orders[i].Sn,
				"source_type", orders[i].SourceType,
				"source_id", orders[i].SourceID,
				"created_at", orders[i].CreatedAt,
				"overdue_days", s.pendingWarnDays,
			)
		}
	}
	runOnce()

	ticker := time.NewTicker(pendingWarnInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			runOnce()
		}
	}
}
