package repository

import (
	"context"

	"filetag-go/internal/models"

	"gorm.io/gorm"
)

// ReportRepository 举报数据访问层
type ReportRepository struct {
	db *gorm.DB
}

// NewReportRepository 创建举报Repository
func NewReportRepository(db *gorm.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// Create 创建举报
func (r *ReportRepository) Create(ctx context.Context, report *models.Report) error {
	return r.db.WithContext(ctx).Create(report).Error
}

// ListByFileID 获取文件的举报，最新在前
func (r *ReportRepository) ListByFileID(ctx context.Context, fileID uint) ([]models.Report, error) {
	var reports []models.Report
	err := r.db.WithContext(ctx).Where("file_id = ?", fileID).Order("created_at DESC").Order("id DESC").Find(&reports).Error
	return reports, err
}

// CountByFileID 统计文件被举报次数
func (r *ReportRepository) CountByFileID(ctx context.Context, fileID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Report{}).Where("file_id = ?", fileID).Count(&count).Error
	return count, err
}
