package service

import "github.com/deliver-center/internal/constants"

// allowedTransitions 发货单状态机：
// pending -> shipped，shipped -> received/rejected，终态不再流转。
var allowedTransitions = map[string]map[string]bool{
	constants.DeliverStatusPending: {
		constants.DeliverStatusShipped: true,
	},
	constants.DeliverStatusShipped: {
		constants.DeliverStatusReceived: true,
		constants.DeliverStatusRejected: true,
	},
}

func isTransitionAllowed(current, target string) bool {
	nexts, ok := allowedTransitions[current]
	if !ok {
		return false
	}
	return nexts[target]
}

// IsFinalStatus 是否终态（已签收或已拒收）
func IsFinalStatus(status string) bool {
	return status == constants.DeliverStatusReceived || status == constants.DeliverStatusRejected
}

// NextStatuses 当前状态允许流转到的目标状态集合
func NextStatuses(current string) []string {
	nexts, ok := allowedTransitions[current]
	if !ok {
		return nil
	}
	out := make([]string, 0, len(nexts))
	for _, status := range []string{
		constants.DeliverStatusShipped,
		constants.DeliverStatusReceived,
		constants.DeliverStatusRejected,
	} {
		if nexts[status] {
			out = append(out, status)
		}
	}
	return out
}
