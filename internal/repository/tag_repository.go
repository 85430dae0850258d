package repository

import (
	"context"

	"filetag-go/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DuplicateTagGroup 规范化文本相同的一组标签
type DuplicateTagGroup struct {
	Normalized string
	KeepID     uint
	Count      int64
}

// TagRepository 标签数据访问层
type TagRepository struct {
	db *gorm.DB
}

// NewTagRepository 创建标签Repository
func NewTagRepository(db *gorm.DB) *TagRepository {
	return &TagRepository{db: db}
}

// Create 创建标签
func (r *TagRepository) Create(ctx context.Context, tag *models.Tag) error {
	return r.db.WithContext(ctx).Create(tag).Error
}

// GetByID 根据ID获取标签
func (r *TagRepository) GetByID(ctx context.Context, id uint) (*models.Tag, error) {
	var tag models.Tag
	err := r.db.WithContext(ctx).First(&tag, id).Error
	if err != nil {
		return nil, err
	}
	return &tag, nil
}

// FindByNormalized 大小写无关查找标签，存在重复时取最小ID
func (r *TagRepository) FindByNormalized(ctx context.Context, normalized string) (*models.Tag, error) {
	var tag models.Tag
	err := r.db.WithContext(ctx).
		Where("LOWER(tag) = ?", normalized).
		Order("id ASC").
		First(&tag).Error
	if err != nil {
		return nil, err
	}
	return &tag, nil
}

// Search 子串搜索标签
func (r *TagRepository) Search(ctx context.Context, q string, limit int) ([]models.Tag, error) {
	var tags []models.Tag
	err := r.db.WithContext(ctx).
		Where(`LOWER(tag) LIKE ? ESCAPE '\'`, likePattern(q)).
		Order("tag ASC").
		Limit(limit).
		Find(&tags).Error
	return tags, err
}

// ListByFileID 获取文件的标签
func (r *TagRepository) ListByFileID(ctx context.Context, fileID uint) ([]models.Tag, error) {
	var tags []models.Tag
	err := r.db.WithContext(ctx).
		Joins("JOIN file_tags ON file_tags.tag_id = tags.id").
		Where("file_tags.file_id = ?", fileID).
		Order("tags.tag ASC").
		Find(&tags).Error
	return tags, err
}

// ListByFileIDs 批量获取文件的标签
func (r *TagRepository) ListByFileIDs(ctx context.Context, fileIDs []uint) (map[uint][]models.Tag, error) {
	result := make(map[uint][]models.Tag, len(fileIDs))
	if len(fileIDs) == 0 {
		return result, nil
	}

	var rows []struct {
		FileID uint
		ID     uint
		Tag    string
	}
	err := r.db.WithContext(ctx).
		Table("file_tags").
		Select("file_tags.file_id, tags.id, tags.tag").
		Joins("JOIN tags ON tags.id = file_tags.tag_id").
		Where("file_tags.file_id IN ?", fileIDs).
		Order("tags.tag ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		result[row.FileID] = append(result[row.FileID], models.Tag{ID: row.ID, Tag: row.Tag})
	}
	return result, nil
}

// LinkedTagIDs 获取文件已关联的标签ID
func (r *TagRepository) LinkedTagIDs(ctx context.Context, fileID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&models.FileTag{}).Where("file_id = ?", fileID).Pluck("tag_id", &ids).Error
	return ids, err
}

// Link 批量创建文件标签关联，已存在的关联忽略
func (r *TagRepository) Link(ctx context.Context, links []models.FileTag) error {
	if len(links) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&links).Error
}

// Unlink 删除文件标签关联
func (r *TagRepository) Unlink(ctx context.Context, fileID, tagID uint) (int64, error) {
	result := r.db.WithContext(ctx).Where("file_id = ? AND tag_id = ?", fileID, tagID).Delete(&models.FileTag{})
	return result.RowsAffected, result.Error
}

// DuplicateGroups 查找规范化文本重复的标签组
func (r *TagRepository) DuplicateGroups(ctx context.Context) ([]DuplicateTagGroup, error) {
	var groups []DuplicateTagGroup
	err := r.db.WithContext(ctx).
		Model(&models.Tag{}).
		Select("LOWER(TRIM(tag)) AS normalized, MIN(id) AS keep_id, COUNT(*) AS count").
		Group("LOWER(TRIM(tag))").
		Having("COUNT(*) > 1").
		Scan(&groups).Error
	return groups, err
}

// IDsByNormalized 获取规范化文本对应的全部标签ID
func (r *TagRepository) IDsByNormalized(ctx context.Context, normalized string) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&models.Tag{}).
		Where("LOWER(TRIM(tag)) = ?", normalized).
		Order("id ASC").
		Pluck("id", &ids).Error
	return ids, err
}

// FileIDsByTagIDs 获取关联了任一标签的文件ID
func (r *TagRepository) FileIDsByTagIDs(ctx context.Context, tagIDs []uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&models.FileTag{}).
		Where("tag_id IN ?", tagIDs).
		Distinct().
		Pluck("file_id", &ids).Error
	return ids, err
}

// Rename 修改标签文本
func (r *TagRepository) Rename(ctx context.Context, id uint, tag string) error {
	return r.db.WithContext(ctx).Model(&models.Tag{}).Where("id = ?", id).Update("tag", tag).Error
}

// DeleteWithLinks 删除标签及其关联
func (r *TagRepository) DeleteWithLinks(ctx context.Context, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Where("tag_id IN ?", ids).Delete(&models.FileTag{}).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).Delete(&models.Tag{}, ids).Error
}
