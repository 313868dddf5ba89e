package admin

import (
	"errors"

	handlershared "github.com/deliver-center/internal/http/handlers/shared"
	"github.com/deliver-center/internal/http/response"
	"github.com/deliver-center/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func requestLog(c *gin.Context) *zap.SugaredLogger {
	return handlershared.RequestLog(c)
}

func respondError(c *gin.Context, code int, msg string, err error) {
	handlershared.RespondError(c, code, msg, err)
}

// respondServiceError 将 service 层错误映射为统一响应
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrDeliverSnEmpty),
		errors.Is(err, service.ErrDeliverContextInvalid),
		errors.Is(err, service.ErrInvalidSource):
		respondError(c, response.CodeBadRequest, err.Error(), nil)
	case errors.Is(err, service.ErrDeliverOrderNotFound),
		errors.Is(err, service.ErrDeliverStockNotFound):
		respondError(c, response.CodeNotFound, err.Error(), nil)
	case errors.Is(err, service.ErrDeliverSnExists),
		errors.Is(err, service.ErrShipConflict):
		respondError(c, response.CodeConflict, err.Error(), nil)
	case errors.Is(err, service.ErrDeliverValidateFailed):
		respondError(c, response.CodeUnprocessable, err.Error(), nil)
	case service.IsStateTransitionError(err):
		respondError(c, response.CodeConflict, err.Error(), nil)
	default:
		respondError(c, response.CodeInternal, "操作失败", err)
	}
}
