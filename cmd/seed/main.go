package main

import (
	"time"

	"github.com/deliver-center/internal/config"
	"github.com/deliver-center/internal/constants"
	"github.com/deliver-center/internal/logger"
	"github.com/deliver-center/internal/models"
)

func main() {
	// 连接数据库
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	now := time.Now()
	shipped := now.Add(-48 * time.Hour)
	received := now.Add(-24 * time.Hour)

	orders := []models.DeliverOrder{
		{
			Sn:               "DO20250101000001",
			SourceType:       constants.SourceTypeOrder,
			SourceID:         "ORD-1001",
			ConsigneeName:    "张三",
			ConsigneePhone:   "13800000001",
			ConsigneeAddress: "北京市朝阳区望京街道 1 号",
			Status:           constants.DeliverStatusPending,
			CreatedBy:        "seed",
			Stocks: []models.DeliverStock{
				{SkuID: "SKU-1001", SkuCode: "IPHONE-15-BLK", SkuName: "iPhone 15 黑色", Quantity: 1},
				{SkuID: "SKU-1002", SkuCode: "CASE-CLEAR", SkuName: "透明手机壳", Quantity: 2},
			},
		},
		{
			Sn:               "DO20250101000002",
			SourceType:       constants.SourceTypeOrder,
			SourceID:         "ORD-1002",
			ExpressCompany:   "顺丰速运",
			ExpressCode:      "SF",
			ExpressNumber:    "SF1234567890",
			ConsigneeName:    "李四",
			ConsigneePhone:   "13800000002",
			ConsigneeAddress: "上海市徐汇区漕河泾 88 号",
			Status:           constants.DeliverStatusShipped,
			ShippedTime:      &shipped,
			ShippedBy:        "admin",
			CreatedBy:        "admin",
			Stocks: []models.DeliverStock{
				{SkuID: "SKU-2001", SkuCode: "KB-MECH-87", SkuName: "机械键盘 87 键", Quantity: 1, BatchNo: "B202501"},
			},
		},
		{
			Sn:               "DO20250101000003",
			SourceType:       constants.SourceTypeOMS,
			SourceID:         "OMS-3001",
			ExpressCompany:   "中通快递",
			ExpressCode:      "ZTO",
			ExpressNumber:    "ZT9876543210",
			ConsigneeName:    "王五",
			ConsigneePhone:   "13800000003",
			ConsigneeAddress: "广州市天河区体育西路 10 号",
			Status:           constants.DeliverStatusReceived,
			ShippedTime:      &shipped,
			ShippedBy:        constants.ActorOmsSync,
			ReceivedTime:     &received,
			ReceivedBy:       "王五",
			CreatedBy:        constants.ActorOmsSync,
			Stocks: []models.DeliverStock{
				{SkuID: "SKU-3001", SkuCode: "MOUSE-WL", SkuName: "无线鼠标", Quantity: 3, Received: true, ReceivedTime: &received},
			},
		},
	}

	for i := range orders {
		if err := models.DB.Where("sn = ?", orders[i].Sn).FirstOrCreate(&orders[i]).Error; err != nil {
			stdLog.Fatalf("Failed to seed deliver order %s: %v", orders[i].Sn, err)
		}
	}

	stdLog.Printf("Seed 完成: %d 条发货单", len(orders))
}
