package service

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/deliver-center/internal/constants"
	"github.com/deliver-center/internal/logger"
	"github.com/deliver-center/internal/models"
	"github.com/deliver-center/internal/queue"
	"github.com/deliver-center/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DeliverOrderService 发货单生命周期服务
type DeliverOrderService struct {
	orderRepo     repository.DeliverOrderRepository
	stockRepo     repository.DeliverStockRepository
	registry      *SourceRegistry
	queueClient   *queue.Client
	snPrefix      string
	snMaxAttempts int
}

// NewDeliverOrderService 创建发货单服务
func NewDeliverOrderService(orderRepo repository.DeliverOrderRepository, stockRepo repository.DeliverStockRepository, registry *SourceRegistry, queueClient *queue.Client, snPrefix string, snMaxAttempts int) *DeliverOrderService {
	if snPrefix == "" {
		snPrefix = "DO"
	}
	if snMaxAttempts <= 0 {
		snMaxAttempts = 5
	}
	return &DeliverOrderService{
		orderRepo:     orderRepo,
		stockRepo:     stockRepo,
		registry:      registry,
		queueClient:   queueClient,
		snPrefix:      snPrefix,
		snMaxAttempts: snMaxAttempts,
	}
}

// ShipInput 发货操作输入
type ShipInput struct {
	ExpressCompany string
	ExpressCode    string
	ExpressNumber  string
	Operator       string
	ShippedTime    *time.Time
}

// GenerateSn 生成发货单号：前缀 + 时间戳 + 随机数字，
// 冲突时重试，重试耗尽后退化为 UUID 保证唯一。
func (s *DeliverOrderService) GenerateSn() (string, error) {
	for i := 0; i < s.snMaxAttempts; i++ {
		sn := fmt.Sprintf("%s%s%s", s.snPrefix, time.Now().Format("20060102150405"), randNumeric(6))
		exists, err := s.orderRepo.ExistsBySn(sn)
		if err != nil {
			return "", err
		}
		if !exists {
			return sn, nil
		}
	}
	sn := fmt.Sprintf("%s%s", s.snPrefix, strings.ReplaceAll(uuid.NewString(), "-", ""))
	exists, err := s.orderRepo.ExistsBySn(sn)
	if err != nil {
		return "", err
	}
	if exists {
		return "", ErrDeliverSnGenerateFailed
	}
	return sn, nil
}

func randNumeric(length int) string {
	var b strings.Builder
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			b.WriteString("0")
			continue
		}
		b.WriteString(fmt.Sprintf("%d", n.Int64()))
	}
	return b.String()
}

// CreateFromContext 从发货上下文创建发货单（初始状态待发货）
func (s *DeliverOrderService) CreateFromContext(ctx *DeliverContext) (*models.DeliverOrder, error) {
	if ctx == nil {
		return nil, ErrDeliverContextInvalid
	}
	ctx.Sanitize()
	if msgs := ctx.Validate(); len(msgs) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrDeliverContextInvalid, strings.Join(msgs, "; "))
	}
	if s.registry != nil {
		if source, ok := s.registry.Lookup(ctx.SourceType); ok {
			if err := source.ValidateSource(ctx.SourceID); err != nil {
				return nil, fmt.Errorf("%w: %v", ErrInvalidSource, err)
			}
			if err := source.FillContext(ctx.SourceID, ctx); err != nil {
				return nil, fmt.Errorf("%w: %v", ErrInvalidSource, err)
			}
		}
	}

	sn, err := s.GenerateSn()
	if err != nil {
		return nil, err
	}
	operator := ctx.Operator
	if operator == "" {
		operator = "system"
	}
	order := &models.DeliverOrder{
		Sn:               sn,
		SourceType:       ctx.SourceType,
		SourceID:         ctx.SourceID,
		ExpressCompany:   ctx.ExpressCompany,
		ExpressCode:      ctx.ExpressCode,
		ExpressNumber:    ctx.ExpressNumber,
		ConsigneeName:    ctx.ConsigneeName,
		ConsigneePhone:   ctx.ConsigneePhone,
		ConsigneeAddress: ctx.ConsigneeAddress,
		ConsigneeRemark:  ctx.Remark,
		Status:           constants.DeliverStatusPending,
		CreatedBy:        operator,
	}
	stocks := buildStocks(ctx.Items)
	if err := validateOrderWithStocks(order, stocks); err != nil {
		return nil, err
	}

	if err := models.DB.Transaction(func(tx *gorm.DB) error {
		return s.orderRepo.WithTx(tx).Create(order, stocks)
	}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDeliverOperationFailed, err)
	}
	order.Stocks = stocks

	logger.Infow("deliver_order_created",
		"sn", order.Sn,
		"source_type", order.SourceType,
		"source_id", order.SourceID,
		"item_count", len(stocks),
	)
	s.afterTransition(order, constants.DeliverEventCreated)
	return order, nil
}

func buildStocks(items []DeliverItem) []models.DeliverStock {
	stocks := make([]models.DeliverStock, 0, len(items))
	for _, item := range items {
		stocks = append(stocks, models.DeliverStock{
			SkuID:    item.SkuID,
			SkuCode:  item.SkuCode,
			SkuName:  item.SkuName,
			Quantity: item.Quantity,
			BatchNo:  item.BatchNo,
			SerialNo: item.SerialNo,
			Remark:   item.Remark,
		})
	}
	return stocks
}

// Ship 将待发货单置为已发货并记录物流信息。
// 对已发货单重复调用时：物流信息一致则幂等返回，不一致则报错。
func (s *DeliverOrderService) Ship(sn string, input ShipInput) (*models.DeliverOrder, error) {
	order, err := s.mustGetBySn(sn)
	if err != nil {
		return nil, err
	}
	if order.Status == constants.DeliverStatusShipped {
		if sameExpress(order, input) {
			return order, nil
		}
		return nil, ErrShipConflict
	}
	if !isTransitionAllowed(order.Status, constants.DeliverStatusShipped) {
		return nil, NewStateTransitionError(order.Status, "ship")
	}

	now := time.Now()
	shippedTime := now
	if input.ShippedTime != nil {
		shippedTime = *input.ShippedTime
	}
	operator := strings.TrimSpace(input.Operator)
	if operator == "" {
		operator = "system"
	}
	updates := map[string]interface{}{
		"shipped_time": shippedTime,
		"shipped_by":   operator,
		"updated_by":   operator,
		"updated_at":   now,
	}
	if v := strings.TrimSpace(input.ExpressCompany); v != "" {
		updates["express_company"] = v
		order.ExpressCompany = v
	}
	if v := strings.TrimSpace(input.ExpressCode); v != "" {
		updates["express_code"] = v
		order.ExpressCode = v
	}
	if v := strings.TrimSpace(input.ExpressNumber); v != "" {
		updates["express_number"] = v
		order.ExpressNumber = v
	}
	if err := s.orderRepo.UpdateStatus(order.ID, constants.DeliverStatusShipped, updates); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDeliverOperationFailed, err)
	}
	order.Status = constants.DeliverStatusShipped
	order.ShippedTime = &shippedTime
	order.ShippedBy = operator
	order.UpdatedBy = operator

	logger.Infow("deliver_order_shipped",
		"sn", order.Sn,
		"express_company", order.ExpressCompany,
		"express_number", order.ExpressNumber,
		"operator", operator,
	)
	s.afterTransition(order, constants.DeliverEventShipped)
	return order, nil
}

// sameExpress 重复发货是否复述了与当前单完全一致的副作用数据：
// 物流字段逐项相等（缺省对已有值也算冲突），操作人与发货时间一致
func sameExpress(order *models.DeliverOrder, input ShipInput) bool {
	if strings.TrimSpace(input.ExpressCompany) != order.ExpressCompany ||
		strings.TrimSpace(input.ExpressCode) != order.ExpressCode ||
		strings.TrimSpace(input.ExpressNumber) != order.ExpressNumber {
		return false
	}
	operator := strings.TrimSpace(input.Operator)
	if operator == "" {
		operator = "system"
	}
	if operator != order.ShippedBy {
		return false
	}
	if input.ShippedTime != nil {
		if order.ShippedTime == nil || !input.ShippedTime.Equal(*order.ShippedTime) {
			return false
		}
	}
	return true
}

// Receive 签收发货单，同时勾选全部明细为已收货
func (s *DeliverOrderService) Receive(sn, operator string, receivedTime *time.Time) (*models.DeliverOrder, error) {
	order, err := s.mustGetBySn(sn)
	if err != nil {
		return nil, err
	}
	if !isTransitionAllowed(order.Status, constants.DeliverStatusReceived) {
		return nil, NewStateTransitionError(order.Status, "receive")
	}
	now := time.Now()
	received := now
	if receivedTime != nil {
		received = *receivedTime
	}
	operator = strings.TrimSpace(operator)
	if operator == "" {
		operator = "system"
	}

	if err := models.DB.Transaction(func(tx *gorm.DB) error {
		orderRepo := s.orderRepo.WithTx(tx)
		stockRepo := s.stockRepo.WithTx(tx)
		if err := orderRepo.UpdateStatus(order.ID, constants.DeliverStatusReceived, map[string]interface{}{
			"received_time": received,
			"received_by":   operator,
			"updated_by":    operator,
			"updated_at":    now,
		}); err != nil {
			return err
		}
		for i := range order.Stocks {
			if order.Stocks[i].Received {
				continue
			}
			if err := stockRepo.MarkReceived(order.Stocks[i].ID, received); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDeliverOperationFailed, err)
	}
	order.Status = constants.DeliverStatusReceived
	order.ReceivedTime = &received
	order.ReceivedBy = operator
	order.UpdatedBy = operator
	for i := range order.Stocks {
		order.Stocks[i].Received = true
		if order.Stocks[i].ReceivedTime == nil {
			order.Stocks[i].ReceivedTime = &received
		}
	}

	logger.Infow("deliver_order_received", "sn", order.Sn, "operator", operator)
	s.afterTransition(order, constants.DeliverEventCompleted)
	return order, nil
}

// Reject 拒收发货单
func (s *DeliverOrderService) Reject(sn, operator, reason string) (*models.DeliverOrder, error) {
	order, err := s.mustGetBySn(sn)
	if err != nil {
		return nil, err
	}
	if !isTransitionAllowed(order.Status, constants.DeliverStatusRejected) {
		return nil, NewStateTransitionError(order.Status, "reject")
	}
	now := time.Now()
	operator = strings.TrimSpace(operator)
	if operator == "" {
		operator = "system"
	}
	if err := s.orderRepo.UpdateStatus(order.ID, constants.DeliverStatusRejected, map[string]interface{}{
		"rejected_time": now,
		"rejected_by":   operator,
		"reject_reason": reason,
		"updated_by":    operator,
		"updated_at":    now,
	}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDeliverOperationFailed, err)
	}
	order.Status = constants.DeliverStatusRejected
	order.RejectedTime = &now
	order.RejectedBy = operator
	order.RejectReason = reason
	order.UpdatedBy = operator

	logger.Infow("deliver_order_rejected", "sn", order.Sn, "operator", operator, "reason", reason)
	return order, nil
}

// Cancel 取消发货：只对待发货单生效，不落库状态，
// 仅触发来源方回调与通知（携带取消原因），由来源方决定后续处理。
func (s *DeliverOrderService) Cancel(sn, operator, reason string) (*models.DeliverOrder, error) {
	order, err := s.mustGetBySn(sn)
	if err != nil {
		return nil, err
	}
	if order.Status != constants.DeliverStatusPending {
		return nil, NewStateTransitionError(order.Status, "cancel")
	}
	logger.Infow("deliver_order_cancel_requested", "sn", order.Sn, "operator", operator, "reason", reason)
	s.notifyTransition(order, constants.DeliverEventCancelled, reason)
	return order, nil
}

// UpdateStatus 按状态机流转到目标状态（管理端通用入口）
func (s *DeliverOrderService) UpdateStatus(sn, target, operator string) (*models.DeliverOrder, error) {
	switch target {
	case constants.DeliverStatusShipped:
		return s.Ship(sn, ShipInput{Operator: operator})
	case constants.DeliverStatusReceived:
		return s.Receive(sn, operator, nil)
	case constants.DeliverStatusRejected:
		return s.Reject(sn, operator, "")
	default:
		order, err := s.mustGetBySn(sn)
		if err != nil {
			return nil, err
		}
		return nil, NewStateTransitionError(order.Status, target)
	}
}

// GetBySn 按单号查询发货单（含明细）
func (s *DeliverOrderService) GetBySn(sn string) (*models.DeliverOrder, error) {
	return s.mustGetBySn(sn)
}

// GetByID 按主键查询发货单
func (s *DeliverOrderService) GetByID(id uint) (*models.DeliverOrder, error) {
	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrDeliverOrderNotFound
	}
	return order, nil
}

// GetBySource 查询某来源单据的全部发货单
func (s *DeliverOrderService) GetBySource(sourceType, sourceID string) ([]models.DeliverOrder, error) {
	if !constants.IsValidSourceType(sourceType) {
		return nil, ErrInvalidSource
	}
	return s.orderRepo.ListBySource(sourceType, sourceID)
}

// ListAdmin 管理端分页查询
func (s *DeliverOrderService) ListAdmin(filter repository.DeliverOrderListFilter) ([]models.DeliverOrder, int64, error) {
	return s.orderRepo.ListAdmin(filter)
}

// StatusStatistics 各状态发货单数量
func (s *DeliverOrderService) StatusStatistics() (map[string]int64, error) {
	return s.orderRepo.StatusStatistics()
}

// ListPendingOlderThan 查询滞留超过指定天数的待发货单
func (s *DeliverOrderService) ListPendingOlderThan(days int) ([]models.DeliverOrder, error) {
	if days <= 0 {
		days = 1
	}
	before := time.Now().AddDate(0, 0, -days)
	return s.orderRepo.ListPendingOlderThan(before)
}

func (s *DeliverOrderService) mustGetBySn(sn string) (*models.DeliverOrder, error) {
	sn = strings.TrimSpace(sn)
	if sn == "" {
		return nil, ErrDeliverSnEmpty
	}
	order, err := s.orderRepo.GetBySn(sn)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrDeliverOrderNotFound
	}
	return order, nil
}

// afterTransition 状态流转后的副作用：来源回调 + 异步通知，
// 均为尽力而为，失败不影响主流程。
func (s *DeliverOrderService) afterTransition(order *models.DeliverOrder, event string) {
	s.notifyTransition(order, event, "")
}

func (s *DeliverOrderService) notifyTransition(order *models.DeliverOrder, event, reason string) {
	if s.registry != nil {
		s.registry.notify(order, event, reason)
	}
	if s.queueClient == nil || !s.queueClient.Enabled() {
		return
	}
	payload := queue.DeliverNotifyPayload{
		DeliverOrderID: order.ID,
		Sn:             order.Sn,
		SourceType:     order.SourceType,
		SourceID:       order.SourceID,
		Event:          event,
		Reason:         reason,
	}
	if err := s.queueClient.EnqueueDeliverNotify(payload); err != nil {
		logger.Errorw("deliver_notify_enqueue_failed", "sn", order.Sn, "event", event, "error", err)
	}
}
