package repository

import (
	"context"

	"filetag-go/internal/models"

	"gorm.io/gorm"
)

// VoteCount 文件的赞踩计数
type VoteCount struct {
	FileID    uint
	Upvotes   int64
	Downvotes int64
}

// Net 净票数
func (c VoteCount) Net() int64 {
	return c.Upvotes - c.Downvotes
}

// VoteRepository 投票数据访问层
type VoteRepository struct {
	db *gorm.DB
}

// NewVoteRepository 创建投票Repository
func NewVoteRepository(db *gorm.DB) *VoteRepository {
	return &VoteRepository{db: db}
}

// Create 创建投票
func (r *VoteRepository) Create(ctx context.Context, vote *models.Vote) error {
	return r.db.WithContext(ctx).Create(vote).Error
}

// Get 获取用户对文件的投票
func (r *VoteRepository) Get(ctx context.Context, fileID, userID uint) (*models.Vote, error) {
	var vote models.Vote
	err := r.db.WithContext(ctx).Where("file_id = ? AND user_id = ?", fileID, userID).First(&vote).Error
	if err != nil {
		return nil, err
	}
	return &vote, nil
}

// UpdateType 修改投票方向
func (r *VoteRepository) UpdateType(ctx context.Context, id uint, voteType int) error {
	return r.db.WithContext(ctx).Model(&models.Vote{}).Where("id = ?", id).Update("vote_type", voteType).Error
}

// Delete 删除投票
func (r *VoteRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Vote{}, id).Error
}

// CountByFileAndUser 统计用户对文件的投票行数
func (r *VoteRepository) CountByFileAndUser(ctx context.Context, fileID, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Vote{}).Where("file_id = ? AND user_id = ?", fileID, userID).Count(&count).Error
	return count, err
}

// CountByFileID 按投票方向统计文件的票数
func (r *VoteRepository) CountByFileID(ctx context.Context, fileID uint) (VoteCount, error) {
	counts, err := r.CountByFileIDs(ctx, []uint{fileID})
	if err != nil {
		return VoteCount{}, err
	}
	return counts[fileID], nil
}

// CountByFileIDs 批量统计票数，没有投票的文件计数为0
func (r *VoteRepository) CountByFileIDs(ctx context.Context, fileIDs []uint) (map[uint]VoteCount, error) {
	result := make(map[uint]VoteCount, len(fileIDs))
	for _, id := range fileIDs {
		result[id] = VoteCount{FileID: id}
	}
	if len(fileIDs) == 0 {
		return result, nil
	}

	var rows []struct {
		FileID   uint
		VoteType int
		Total    int64
	}
	err := r.db.WithContext(ctx).Model(&models.Vote{}).
		Select("file_id, vote_type, COUNT(*) AS total").
		Where("file_id IN ?", fileIDs).
		Group("file_id, vote_type").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		count := result[row.FileID]
		switch row.VoteType {
		case models.VoteUp:
			count.Upvotes += row.Total
		case models.VoteDown:
			count.Downvotes += row.Total
		}
		result[row.FileID] = count
	}
	return result, nil
}
