package service

import (
	"strings"

	"github.com/deliver-center/internal/constants"
	"github.com/deliver-center/internal/logger"
	"github.com/deliver-center/internal/models"
)

// OmsSource OMS 来源处理器。
// OMS 推送的数据即为完整事实，校验只做基本合法性，
// 生命周期回调在本侧记录日志，由 OMS 方轮询拉取结果。
type OmsSource struct{}

// NewOmsSource 创建 OMS 来源处理器
func NewOmsSource() *OmsSource {
	return &OmsSource{}
}

// SourceType 来源类型
func (s *OmsSource) SourceType() string {
	return constants.SourceTypeOMS
}

// ValidateSource 校验来源单号
func (s *OmsSource) ValidateSource(sourceID string) error {
	if strings.TrimSpace(sourceID) == "" {
		return ErrInvalidSource
	}
	return nil
}

// FillContext OMS 推送自带完整数据，无需补全
func (s *OmsSource) FillContext(_ string, _ *DeliverContext) error {
	return nil
}

// OnDeliverCreated 创建回调
func (s *OmsSource) OnDeliverCreated(order *models.DeliverOrder) {
	logger.Infow("oms_source_deliver_created", "sn", order.Sn, "source_id", order.SourceID)
}

// OnDeliverShipped 发货回调
func (s *OmsSource) OnDeliverShipped(order *models.DeliverOrder) {
	logger.Infow("oms_source_deliver_shipped", "sn", order.Sn, "source_id", order.SourceID)
}

// OnDeliverCancelled 取消回调
func (s *OmsSource) OnDeliverCancelled(order *models.DeliverOrder, reason string) {
	logger.Infow("oms_source_deliver_cancelled", "sn", order.Sn, "source_id", order.SourceID, "reason", reason)
}

// OnDeliverCompleted 完成回调
func (s *OmsSource) OnDeliverCompleted(order *models.DeliverOrder) {
	logger.Infow("oms_source_deliver_completed", "sn", order.Sn, "source_id", order.SourceID)
}
