package repository

import (
	"context"

	"filetag-go/internal/models"

	"gorm.io/gorm"
)

// FileFilter 文件列表过滤条件
type FileFilter struct {
	FileType string
	TagIDs   []uint
	Search   string
	// Limit 为0时不限制条数
	Limit int
}

// FileRepository 文件数据访问层
type FileRepository struct {
	db *gorm.DB
}

// NewFileRepository 创建文件Repository
func NewFileRepository(db *gorm.DB) *FileRepository {
	return &FileRepository{db: db}
}

// Create 创建文件
func (r *FileRepository) Create(ctx context.Context, file *models.File) error {
	return r.db.WithContext(ctx).Omit("User").Create(file).Error
}

// GetByID 根据ID获取文件
func (r *FileRepository) GetByID(ctx context.Context, id uint) (*models.File, error) {
	var file models.File
	err := r.db.WithContext(ctx).Preload("User").First(&file, id).Error
	if err != nil {
		return nil, err
	}
	return &file, nil
}

// GetOwnerID 获取文件所有者ID
func (r *FileRepository) GetOwnerID(ctx context.Context, id uint) (uint, error) {
	var file models.File
	err := r.db.WithContext(ctx).Select("id", "user_id").First(&file, id).Error
	if err != nil {
		return 0, err
	}
	return file.UserID, nil
}

// Exists 检查文件是否存在
func (r *FileRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.File{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// List 按过滤条件获取文件列表，按上传时间倒序
func (r *FileRepository) List(ctx context.Context, filter FileFilter) ([]models.File, error) {
	db := r.db.WithContext(ctx)
	query := db.Model(&models.File{})

	if filter.FileType != "" {
		query = query.Where("file_type = ?", filter.FileType)
	}

	// 标签过滤：包含任一标签即可，子查询避免连接产生重复行
	if len(filter.TagIDs) > 0 {
		sub := db.Model(&models.FileTag{}).Select("file_id").Where("tag_id IN ?", filter.TagIDs)
		query = query.Where("id IN (?)", sub)
	}

	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		query = query.Where(
			`(LOWER(COALESCE(file_name, '')) LIKE ? ESCAPE '\' OR LOWER(COALESCE(description, '')) LIKE ? ESCAPE '\')`,
			pattern, pattern,
		)
	}

	query = query.Preload("User").Order("upload_date DESC").Order("id DESC")
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var files []models.File
	err := query.Find(&files).Error
	return files, err
}

// ListByUserID 获取用户的文件列表
func (r *FileRepository) ListByUserID(ctx context.Context, userID uint, offset, limit int) ([]models.File, int64, error) {
	var files []models.File
	var total int64

	query := r.db.WithContext(ctx).Model(&models.File{}).Where("user_id = ?", userID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Preload("User").Order("upload_date DESC").Order("id DESC").Offset(offset).Limit(limit).Find(&files).Error
	return files, total, err
}
