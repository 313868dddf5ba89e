package public

import "github.com/deliver-center/internal/provider"

// Handler 对外开放接口处理器入口
// 说明：该处理器承接 OMS 回调与来源系统的履约查询。
type Handler struct {
	*provider.Container
}

// New 创建开放接口处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
