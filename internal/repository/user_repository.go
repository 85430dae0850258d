package repository

import (
	"context"

	"filetag-go/internal/models"

	"gorm.io/gorm"
)

// UserRepository 用户数据访问层
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository 创建用户Repository
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create 创建用户
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// GetByID 根据ID获取用户
func (r *UserRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).First(&user, id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByWalletAddress 根据钱包地址获取用户
func (r *UserRepository) GetByWalletAddress(ctx context.Context, address string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("wallet_address = ?", address).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// CountByWalletAddress 统计钱包地址对应的用户数
func (r *UserRepository) CountByWalletAddress(ctx context.Context, address string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Where("wallet_address = ?", address).Count(&count).Error
	return count, err
}

// AddPoints 原子增加积分并返回最新积分
func (r *UserRepository) AddPoints(ctx context.Context, id uint, delta int) (int, error) {
	result := r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", id).
		Update("reward_points", gorm.Expr("reward_points + ?", delta))
	if result.Error != nil {
		return 0, result.Error
	}
	if result.RowsAffected == 0 {
		return 0, gorm.ErrRecordNotFound
	}

	var points int
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Select("reward_points").
		Where("id = ?", id).
		Row().Scan(&points)
	return points, err
}
