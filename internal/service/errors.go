package service

import "errors"

var (
	// ErrDeliverOrderNotFound 发货单不存在
	ErrDeliverOrderNotFound = errors.New("发货单不存在")
	// ErrDeliverSnEmpty 发货单号为空
	ErrDeliverSnEmpty = errors.New("发货单号不能为空")
	// ErrDeliverSnExists 发货单号已存在
	ErrDeliverSnExists = errors.New("发货单号已存在")
	// ErrDeliverSnGenerateFailed 发货单号生成失败（重试耗尽）
	ErrDeliverSnGenerateFailed = errors.New("发货单号生成失败")
	// ErrDeliverContextInvalid 发货上下文校验失败
	ErrDeliverContextInvalid = errors.New("发货上下文校验失败")
	// ErrInvalidSource 发货单来源无效
	ErrInvalidSource = errors.New("发货单来源无效")
	// ErrSourceNotSupported 来源类型没有对应的处理器
	ErrSourceNotSupported = errors.New("来源类型不支持")
	// ErrShipConflict 重复发货且物流信息不一致
	ErrShipConflict = errors.New("发货单已发货且物流信息不一致")
	// ErrInsufficientStock 库存不足
	ErrInsufficientStock = errors.New("库存不足")
	// ErrDeliverStockNotFound 发货明细不存在
	ErrDeliverStockNotFound = errors.New("发货明细不存在")
	// ErrDeliverItemsEmpty 发货商品列表为空
	ErrDeliverItemsEmpty = errors.New("发货商品列表不能为空")
	// ErrDeliverValidateFailed 实体校验失败
	ErrDeliverValidateFailed = errors.New("数据验证失败")
	// ErrDeliverOperationFailed 发货操作失败
	ErrDeliverOperationFailed = errors.New("发货操作失败")
)

// StateTransitionError 非法状态流转错误
type StateTransitionError struct {
	From  string
	Event string
}

func (e *StateTransitionError) Error() string {
	return "状态流转非法: " + e.From + " 不允许执行 " + e.Event
}

// NewStateTransitionError 创建状态流转错误
func NewStateTransitionError(from, event string) *StateTransitionError {
	return &StateTransitionError{From: from, Event: event}
}

// IsStateTransitionError 判断是否状态流转错误
func IsStateTransitionError(err error) bool {
	var target *StateTransitionError
	return errors.As(err, &target)
}
