package router

import (
	"fmt"
	"strings"

	"github.com/deliver-center/internal/cache"
	"github.com/deliver-center/internal/config"
	adminhandlers "github.com/deliver-center/internal/http/handlers/admin"
	publichandlers "github.com/deliver-center/internal/http/handlers/public"
	"github.com/deliver-center/internal/logger"
	"github.com/deliver-center/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)

	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "dc"
	}
	syncRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:oms_sync", redisPrefix),
		WindowSeconds: cfg.Security.SyncRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.SyncRateLimit.MaxRequests,
		BlockSeconds:  cfg.Security.SyncRateLimit.BlockSeconds,
	}

	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	r.GET("/healthz", func(ctx *gin.Context) {
		ctx.JSON(200, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		// OMS 回调接口
		oms := api.Group("/oms")
		{
			oms.POST("/delivery/sync", RateLimitMiddleware(cache.Client(), syncRule, KeyByIP), publicHandler.SyncDelivery)
		}

		// 对来源系统开放的发货查询接口
		delivery := api.Group("/delivery")
		{
			delivery.GET("/summary", publicHandler.GetDeliverySummary)
			delivery.GET("/quantity", publicHandler.GetDeliveredQuantity)
			delivery.GET("/orders/:sn", publicHandler.GetDeliverOrder)
			delivery.GET("/orders/:sn/track", publicHandler.GetExpressTrack)
		}

		// 管理端接口
		admin := api.Group("/admin")
		{
			admin.GET("/deliver-orders", adminHandler.ListDeliverOrders)
			admin.POST("/deliver-orders", adminHandler.CreateDeliverOrder)
			admin.GET("/deliver-orders/stats", adminHandler.DeliverOrderStats)
			admin.GET("/deliver-orders/:sn", adminHandler.GetDeliverOrder)
			admin.POST("/deliver-orders/:sn/ship", adminHandler.ShipDeliverOrder)
			admin.POST("/deliver-orders/:sn/receive", adminHandler.ReceiveDeliverOrder)
			admin.POST("/deliver-orders/:sn/reject", adminHandler.RejectDeliverOrder)
			admin.POST("/deliver-orders/:sn/cancel", adminHandler.CancelDeliverOrder)
			admin.POST("/deliver-orders/id/:id/stocks", adminHandler.AddDeliverStock)
			admin.PUT("/deliver-stocks/:stock_id/quantity", adminHandler.UpdateDeliverStockQuantity)
			admin.POST("/deliver-stocks/:stock_id/receive", adminHandler.ReceiveDeliverStock)
		}
	}

	return r
}
