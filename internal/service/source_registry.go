package service

import (
	"sort"
	"sync"

	"github.com/deliver-center/internal/constants"
	"github.com/deliver-center/internal/logger"
	"github.com/deliver-center/internal/models"
)

// DeliverSource 来源处理器：每种来源类型（订单、合同、OMS 等）
// 实现本接口以参与来源校验与生命周期回调。
type DeliverSource interface {
	// SourceType 处理器对应的来源类型
	SourceType() string
	// ValidateSource 校验来源单据是否允许发货
	ValidateSource(sourceID string) error
	// FillContext 由来源单据补全发货上下文（收货人、商品等），
	// 返回 nil 表示来源方不提供补全数据
	FillContext(sourceID string, ctx *DeliverContext) error
}

// DeliverNotification 来源方可选实现的生命周期回调，
// 回调失败只记录日志，不影响主流程。
type DeliverNotification interface {
	OnDeliverCreated(order *models.DeliverOrder)
	OnDeliverShipped(order *models.DeliverOrder)
	OnDeliverCancelled(order *models.DeliverOrder, reason string)
	OnDeliverCompleted(order *models.DeliverOrder)
}

// SourceRegistry 来源处理器注册表
type SourceRegistry struct {
	mu      sync.RWMutex
	sources map[string]DeliverSource
}

// NewSourceRegistry 创建来源注册表
func NewSourceRegistry() *SourceRegistry {
	return &SourceRegistry{sources: make(map[string]DeliverSource)}
}

// Register 注册来源处理器，同类型重复注册时后者覆盖前者
func (r *SourceRegistry) Register(source DeliverSource) {
	if source == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sources[source.SourceType()] = source
}

// Lookup 查找来源处理器
func (r *SourceRegistry) Lookup(sourceType string) (DeliverSource, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	source, ok := r.sources[sourceType]
	return source, ok
}

// RegisteredTypes 已注册的来源类型，按字典序返回
func (r *SourceRegistry) RegisteredTypes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	types := make([]string, 0, len(r.sources))
	for t := range r.sources {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// notify 触发来源方回调，panic 与错误均不向上传播，
// reason 仅取消事件使用
func (r *SourceRegistry) notify(order *models.DeliverOrder, event, reason string) {
	if order == nil {
		return
	}
	source, ok := r.Lookup(order.SourceType)
	if !ok {
		return
	}
	notifier, ok := source.(DeliverNotification)
	if !ok {
		return
	}
	defer func() {
		if rec := recover(); rec != nil {
			logger.Errorw("deliver_source_notify_panic",
				"source_type", order.SourceType,
				"sn", order.Sn,
				"event", event,
				"panic", rec,
			)
		}
	}()
	switch event {
	case constants.DeliverEventCreated:
		notifier.OnDeliverCreated(order)
	case constants.DeliverEventShipped:
		notifier.OnDeliverShipped(order)
	case constants.DeliverEventCancelled:
		notifier.OnDeliverCancelled(order, reason)
	case constants.DeliverEventCompleted:
		notifier.OnDeliverCompleted(order)
	}
	logger.Infow("deliver_source_notified",
		"source_type", order.SourceType,
		"sn", order.Sn,
		"event", event,
	)
}
