package repository

import (
	"context"

	"filetag-go/internal/models"

	"gorm.io/gorm"
)

// CommentRepository 评论数据访问层
type CommentRepository struct {
	db *gorm.DB
}

// NewCommentRepository 创建评论Repository
func NewCommentRepository(db *gorm.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

// Create 创建评论
func (r *CommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	return r.db.WithContext(ctx).Omit("User").Create(comment).Error
}

// GetByID 根据ID获取评论
func (r *CommentRepository) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	var comment models.Comment
	err := r.db.WithContext(ctx).Preload("User").First(&comment, id).Error
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// ListByFileID 获取文件的评论，按时间正序
func (r *CommentRepository) ListByFileID(ctx context.Context, fileID uint) ([]models.Comment, error) {
	var comments []models.Comment
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("file_id = ?", fileID).
		Order("created_at ASC").Order("id ASC").
		Find(&comments).Error
	return comments, err
}

// CountByFileID 统计文件评论数
func (r *CommentRepository) CountByFileID(ctx context.Context, fileID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Comment{}).Where("file_id = ?", fileID).Count(&count).Error
	return count, err
}

// Delete 删除评论
func (r *CommentRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Comment{}, id).Error
}
