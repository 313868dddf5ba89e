package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/deliver-center/internal/cache"
)

// expressTrackTTL 物流轨迹缓存时长
const expressTrackTTL = 10 * time.Minute

// ExpressTrackNode 单条物流轨迹
type ExpressTrackNode struct {
	Time    string `json:"time"`
	Context string `json:"context"`
}

// ExpressTrackResult 物流轨迹查询结果
type ExpressTrackResult struct {
	Status  string             `json:"status"`
	Message string             `json:"message"`
	Data    []ExpressTrackNode `json:"data"`
}

// ExpressTrackingService 物流轨迹查询服务。
// 当前未接入第三方物流接口，返回空轨迹占位结果，
// TODO 接入快递鸟/快递100后替换 queryRemote。
type ExpressTrackingService struct{}

// NewExpressTrackingService 创建物流轨迹服务
func NewExpressTrackingService() *ExpressTrackingService {
	return &ExpressTrackingService{}
}

// Query 查询物流轨迹，结果短暂缓存避免重复外调
func (s *ExpressTrackingService) Query(ctx context.Context, expressCode, expressNumber string) (*ExpressTrackResult, error) {
	expressCode = strings.TrimSpace(expressCode)
	expressNumber = strings.TrimSpace(expressNumber)
	if expressNumber == "" {
		return nil, fmt.Errorf("%w: 快递单号不能为空", ErrDeliverValidateFailed)
	}

	key := fmt.Sprintf("express:track:%s:%s", expressCode, expressNumber)
	var cached ExpressTrackResult
	if found, err := cache.GetJSON(ctx, key, &cached); err == nil && found {
		return &cached, nil
	}

	result := s.queryRemote(expressCode, expressNumber)
	_ = cache.SetJSON(ctx, key, result, expressTrackTTL)
	return result, nil
}

func (s *ExpressTrackingService) queryRemote(_, _ string) *ExpressTrackResult {
	return &ExpressTrackResult{
		Status:  "1",
		Message: "success",
		Data:    []ExpressTrackNode{},
	}
}
