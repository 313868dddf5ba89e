package queue

import (
	"encoding/json"

	"github.com/deliver-center/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskDeliverNotify 发货事件通知任务
	TaskDeliverNotify = constants.TaskDeliverNotify
)

// DeliverNotifyPayload 发货事件通知任务载荷
type DeliverNotifyPayload struct {
	DeliverOrderID uint   `json:"deliver_order_id"`
	Sn             string `json:"sn"`
	SourceType     string `json:"source_type"`
	SourceID       string `json:"source_id"`
	Event          string `json:"event"`
	Reason         string `json:"reason,omitempty"`
}

// NewDeliverNotifyTask 创建发货事件通知任务
func NewDeliverNotifyTask(payload DeliverNotifyPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskDeliverNotify, body), nil
}
