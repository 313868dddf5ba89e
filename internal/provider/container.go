package provider

import (
	"github.com/deliver-center/internal/cache"
	"github.com/deliver-center/internal/config"
	"github.com/deliver-center/internal/logger"
	"github.com/deliver-center/internal/models"
	"github.com/deliver-center/internal/queue"
	"github.com/deliver-center/internal/repository"
	"github.com/deliver-center/internal/service"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	DeliverOrderRepo repository.DeliverOrderRepository
	DeliverStockRepo repository.DeliverStockRepository

	// Services
	SourceRegistry         *service.SourceRegistry
	DeliverOrderService    *service.DeliverOrderService
	DeliverStockService    *service.DeliverStockService
	DeliverySyncService    *service.DeliverySyncService
	FulfillmentService     *service.FulfillmentService
	NotificationService    *service.NotificationService
	ExpressTrackingService *service.ExpressTrackingService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端
	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}

	c.initRepositories()
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.DeliverOrderRepo = repository.NewDeliverOrderRepository(db)
	c.DeliverStockRepo = repository.NewDeliverStockRepository(db)
}

func (c *Container) initServices() {
	c.SourceRegistry = service.NewSourceRegistry()
	c.SourceRegistry.Register(service.NewOmsSource())
	c.DeliverOrderService = service.NewDeliverOrderService(
		c.DeliverOrderRepo,
		c.DeliverStockRepo,
		c.SourceRegistry,
		c.QueueClient,
		c.Config.Deliver.SnPrefix,
		c.Config.Deliver.SnMaxAttempts,
	)
	c.DeliverStockService = service.NewDeliverStockService(c.DeliverOrderRepo, c.DeliverStockRepo)
	c.DeliverySyncService = service.NewDeliverySyncService(c.DeliverOrderService)
	c.FulfillmentService = service.NewFulfillmentService(c.DeliverOrderRepo)
	c.NotificationService = service.NewNotificationService(c.DeliverOrderRepo, c.SourceRegistry)
	c.ExpressTrackingService = service.NewExpressTrackingService()
}
