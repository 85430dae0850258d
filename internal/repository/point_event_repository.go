package repository

import (
	"context"

	"filetag-go/internal/models"

	"gorm.io/gorm"
)

// PointEventRepository 积分流水数据访问层
type PointEventRepository struct {
	db *gorm.DB
}

// NewPointEventRepository 创建积分流水Repository
func NewPointEventRepository(db *gorm.DB) *PointEventRepository {
	return &PointEventRepository{db: db}
}

// Create 追加积分流水
func (r *PointEventRepository) Create(ctx context.Context, event *models.PointEvent) error {
	return r.db.WithContext(ctx).Create(event).Error
}

// ListByUserID 获取用户积分流水，最新在前
func (r *PointEventRepository) ListByUserID(ctx context.Context, userID uint, limit int) ([]models.PointEvent, error) {
	var events []models.PointEvent
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id DESC").
		Limit(limit).
		Find(&events).Error
	return events, err
}

// SumByUserID 汇总用户积分流水
func (r *PointEventRepository) SumByUserID(ctx context.Context, userID uint) (int64, error) {
	var sum int64
	err := r.db.WithContext(ctx).Model(&models.PointEvent{}).
		Select("COALESCE(SUM(delta), 0)").
		Where("user_id = ?", userID).
		Row().Scan(&sum)
	return sum, err
}
