package repository

import (
	"errors"
	"strings"
	"time"

	"github.com/deliver-center/internal/models"

	"gorm.io/gorm"
)

// DeliverOrderRepository 发货单数据访问接口
type DeliverOrderRepository interface {
	Create(order *models.DeliverOrder, stocks []models.DeliverStock) error
	GetByID(id uint) (*models.DeliverOrder, error)
	GetBySn(sn string) (*models.DeliverOrder, error)
	ExistsBySn(sn string) (bool, error)
	ListBySource(sourceType, sourceID string) ([]models.DeliverOrder, error)
	ListByStatus(status string) ([]models.DeliverOrder, error)
	CountByStatus(status string) (int64, error)
	ListPendingOlderThan(cutoff time.Time) ([]models.DeliverOrder, error)
	ListRecent(limit int) ([]models.DeliverOrder, error)
	ListByDateRange(from, to time.Time) ([]models.DeliverOrder, error)
	ListAdmin(filter DeliverOrderListFilter) ([]models.DeliverOrder, int64, error)
	StatusStatistics() (map[string]int64, error)
	UpdateStatus(id uint, status string, updates map[string]interface{}) error
	Delete(id uint) error
	WithTx(tx *gorm.DB) *GormDeliverOrderRepository
}

// GormDeliverOrderRepository GORM 实现
type GormDeliverOrderRepository struct {
	db *gorm.DB
}

// NewDeliverOrderRepository 创建发货单仓库
func NewDeliverOrderRepository(db *gorm.DB) *GormDeliverOrderRepository {
	return &GormDeliverOrderRepository{db: db}
}

// WithTx 绑定事务
func (r *GormDeliverOrderRepository) WithTx(tx *gorm.DB) *GormDeliverOrderRepository {
	if tx == nil {
		return r
	}
	return &GormDeliverOrderRepository{db: tx}
}

// Create 创建发货单及其明细
func (r *GormDeliverOrderRepository) Create(order *models.DeliverOrder, stocks []models.DeliverStock) error {
	if err := r.db.Create(order).Error; err != nil {
		return err
	}
	for i := range stocks {
		stocks[i].DeliverOrderID = order.ID
	}
	if len(stocks) > 0 {
		if err := r.db.Create(&stocks).Error; err != nil {
			return err
		}
		order.Stocks = stocks
	}
	return nil
}

// GetByID 根据 ID 获取发货单（含明细）
func (r *GormDeliverOrderRepository) GetByID(id uint) (*models.DeliverOrder, error) {
	var order models.DeliverOrder
	if err := r.db.Preload("Stocks").First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// GetBySn 根据发货单号获取发货单（含明细）
func (r *GormDeliverOrderRepository) GetBySn(sn string) (*models.DeliverOrder, error) {
	var order models.DeliverOrder
	if err := r.db.Preload("Stocks").Where("sn = ?", sn).First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// ExistsBySn 判断发货单号是否已存在
func (r *GormDeliverOrderRepository) ExistsBySn(sn string) (bool, error) {
	var count int64
	if err := r.db.Model(&models.DeliverOrder{}).Where("sn = ?", sn).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListBySource 根据来源获取发货单列表，明细随单一次性加载。
func (r *GormDeliverOrderRepository) ListBySource(sourceType, sourceID string) ([]models.DeliverOrder, error) {
	var orders []models.DeliverOrder
	if err := r.db.Preload("Stocks").
		Where("source_type = ? AND source_id = ?", sourceType, sourceID).
		Order("created_at ASC").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// ListByStatus 根据状态获取发货单列表
func (r *GormDeliverOrderRepository) ListByStatus(status string) ([]models.DeliverOrder, error) {
	var orders []models.DeliverOrder
	if err := r.db.Where("status = ?", status).Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// CountByStatus 根据状态统计发货单数量
func (r *GormDeliverOrderRepository) CountByStatus(status string) (int64, error) {
	var count int64
	err := r.db.Model(&models.DeliverOrder{}).Where("status = ?", status).Count(&count).Error
	return count, err
}

// ListPendingOlderThan 查找创建时间早于指定时间且仍待发货的发货单
func (r *GormDeliverOrderRepository) ListPendingOlderThan(cutoff time.Time) ([]models.DeliverOrder, error) {
	var orders []models.DeliverOrder
	if err := r.db.Where("status = ? AND created_at < ?", "pending", cutoff).
		Order("created_at ASC").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// ListRecent 查找最近创建的发货单
func (r *GormDeliverOrderRepository) ListRecent(limit int) ([]models.DeliverOrder, error) {
	if limit <= 0 {
		limit = 10
	}
	var orders []models.DeliverOrder
	if err := r.db.Order("created_at DESC").Limit(limit).Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// ListByDateRange 根据创建时间区间查找发货单
func (r *GormDeliverOrderRepository) ListByDateRange(from, to time.Time) ([]models.DeliverOrder, error) {
	var orders []models.DeliverOrder
	if err := r.db.Where("created_at >= ? AND created_at <= ?", from, to).
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// ListAdmin 管理端列表查询
func (r *GormDeliverOrderRepository) ListAdmin(filter DeliverOrderListFilter) ([]models.DeliverOrder, int64, error) {
	var orders []models.DeliverOrder
	query := r.db.Model(&models.DeliverOrder{})

	if sn := strings.TrimSpace(filter.Sn); sn != "" {
		query = query.Where("sn = ?", sn)
	}
	if filter.SourceType != "" {
		query = query.Where("source_type = ?", filter.SourceType)
	}
	if filter.SourceID != "" {
		query = query.Where("source_id = ?", filter.SourceID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if expressNo := strings.TrimSpace(filter.ExpressNo); expressNo != "" {
		query = query.Where("express_number = ?", expressNo)
	}
	if consignee := strings.TrimSpace(filter.Consignee); consignee != "" {
		query = query.Where("consignee_name LIKE ?", "%"+consignee+"%")
	}
	if filter.CreatedFrom != nil {
		query = query.Where("created_at >= ?", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		query = query.Where("created_at <= ?", *filter.CreatedTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query.Preload("Stocks").Order("created_at DESC"), filter.Page, filter.PageSize)
	if err := query.Find(&orders).Error; err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// StatusStatistics 按状态汇总发货单数量
func (r *GormDeliverOrderRepository) StatusStatistics() (map[string]int64, error) {
	var rows []struct {
		Status string
		Count  int64
	}
	if err := r.db.Model(&models.DeliverOrder{}).
		Select("status, COUNT(id) as count").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	statistics := make(map[string]int64, len(rows))
	for _, row := range rows {
		statistics[row.Status] = row.Count
	}
	return statistics, nil
}

// UpdateStatus 更新发货单状态及附加字段
func (r *GormDeliverOrderRepository) UpdateStatus(id uint, status string, updates map[string]interface{}) error {
	values := map[string]interface{}{
		"status": status,
	}
	for k, v := range updates {
		values[k] = v
	}
	return r.db.Model(&models.DeliverOrder{}).Where("id = ?", id).Updates(values).Error
}

// Delete 删除发货单，明细由外键级联删除。
func (r *GormDeliverOrderRepository) Delete(id uint) error {
	return r.db.Select("Stocks").Delete(&models.DeliverOrder{ID: id}).Error
}
