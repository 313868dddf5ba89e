package repository

import (
	"errors"
	"time"

	"github.com/deliver-center/internal/models"

	"gorm.io/gorm"
)

// DeliverStockRepository 发货明细数据访问接口
type DeliverStockRepository interface {
	Create(stock *models.DeliverStock) error
	GetByID(id uint) (*models.DeliverStock, error)
	ListByOrderID(orderID uint) ([]models.DeliverStock, error)
	ListBySkuID(skuID string) ([]models.DeliverStock, error)
	Updates(id uint, updates map[string]interface{}) error
	MarkReceived(id uint, receivedAt time.Time) error
	SumQuantityByOrderID(orderID uint) (int, error)
	WithTx(tx *gorm.DB) *GormDeliverStockRepository
}

// GormDeliverStockRepository GORM 实现
type GormDeliverStockRepository struct {
	db *gorm.DB
}

// NewDeliverStockRepository 创建发货明细仓库
func NewDeliverStockRepository(db *gorm.DB) *GormDeliverStockRepository {
	return &GormDeliverStockRepository{db: db}
}

// WithTx 绑定事务
func (r *GormDeliverStockRepository) WithTx(tx *gorm.DB) *GormDeliverStockRepository {
	if tx == nil {
		return r
	}
	return &GormDeliverStockRepository{db: tx}
}

// Create 创建发货明细
func (r *GormDeliverStockRepository) Create(stock *models.DeliverStock) error {
	return r.db.Create(stock).Error
}

// GetByID 根据 ID 获取发货明细
func (r *GormDeliverStockRepository) GetByID(id uint) (*models.DeliverStock, error) {
	var stock models.DeliverStock
	if err := r.db.First(&stock, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &stock, nil
}

// ListByOrderID 根据发货单获取明细列表
func (r *GormDeliverStockRepository) ListByOrderID(orderID uint) ([]models.DeliverStock, error) {
	var stocks []models.DeliverStock
	if err := r.db.Where("deliver_order_id = ?", orderID).Order("id ASC").Find(&stocks).Error; err != nil {
		return nil, err
	}
	return stocks, nil
}

// ListBySkuID 根据 SKU ID 获取明细列表
func (r *GormDeliverStockRepository) ListBySkuID(skuID string) ([]models.DeliverStock, error) {
	var stocks []models.DeliverStock
	if err := r.db.Where("sku_id = ?", skuID).Find(&stocks).Error; err != nil {
		return nil, err
	}
	return stocks, nil
}

// Updates 更新发货明细字段
func (r *GormDeliverStockRepository) Updates(id uint, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}
	return r.db.Model(&models.DeliverStock{}).Where("id = ?", id).Updates(updates).Error
}

// MarkReceived 标记明细为已收货
func (r *GormDeliverStockRepository) MarkReceived(id uint, receivedAt time.Time) error {
	return r.db.Model(&models.DeliverStock{}).Where("id = ?", id).Updates(map[string]interface{}{
		"received":      true,
		"received_time": receivedAt,
		"updated_at":    receivedAt,
	}).Error
}

// SumQuantityByOrderID 汇总发货单的明细数量
func (r *GormDeliverStockRepository) SumQuantityByOrderID(orderID uint) (int, error) {
	var total int64
	err := r.db.Model(&models.DeliverStock{}).
		Where("deliver_order_id = ?", orderID).
		Select("COALESCE(SUM(quantity), 0)").
		Scan(&total).Error
	return int(total), err
}
