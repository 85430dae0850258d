package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"emperror.dev/errors"
	"github.com/sirupsen/logrus"

	"filetag-go/internal/config"
	"filetag-go/internal/models"
	"filetag-go/internal/repository"
	"filetag-go/internal/utils"
)

const (
	defaultFileLimit = 10
	maxFileLimit     = 100

	OrderByUploadDate = "upload_date"
	OrderByUpvotes    = "upvotes"
)

// CreateFileInput 创建文件参数
type CreateFileInput struct {
	FilecoinHash string  `validate:"required,max=255"`
	FileName     *string `validate:"omitempty,max=255"`
	FileType     string  `validate:"required,max=100"`
	FileSize     int64   `validate:"gte=0"`
	ThumbnailURL *string `validate:"omitempty,max=1024"`
	Description  *string `validate:"omitempty,max=5000"`
	Network      string  `validate:"required,max=50"`
	// UploadDate 为零值时使用当前时间
	UploadDate time.Time
	Tags       []TagRef `validate:"required,min=1"`
}

// Reward 打标签奖励
type Reward struct {
	TagFile int `json:"tag_file"`
	Bonus   int `json:"bonus"`
	Total   int `json:"total"`
}

// CreateFileResult 创建文件结果
type CreateFileResult struct {
	File    *FileView
	Skipped []string
	Reward  *Reward
	// RewardError 奖励发放失败时的说明，文件本身已保存
	RewardError string
}

// FileView 文件及其派生数据
type FileView struct {
	File         *models.File
	Tags         []models.Tag
	Tally        Tally
	CommentCount int64
}

// ListFilesQuery 文件列表查询
type ListFilesQuery struct {
	FileType string
	TagIDs   []uint
	Query    string
	OrderBy  string
	Limit    int
}

// FileService 文件目录服务
type FileService struct {
	store   *repository.Store
	tags    *TagReconciler
	points  *PointsLedger
	bonus   BonusSource
	rewards config.RewardsConfig
	logger  *logrus.Logger
}

// NewFileService 创建文件目录服务
func NewFileService(
	store *repository.Store,
	tags *TagReconciler,
	points *PointsLedger,
	bonus BonusSource,
	rewards config.RewardsConfig,
	logger *logrus.Logger,
) *FileService {
	return &FileService{
		store:   store,
		tags:    tags,
		points:  points,
		bonus:   bonus,
		rewards: rewards,
		logger:  logger,
	}
}

// CreateFile 保存文件与标签，提交后向所有者发放打标签奖励
func (s *FileService) CreateFile(ctx context.Context, session *Session, input *CreateFileInput) (*CreateFileResult, error) {
	if err := requireSession(session); err != nil {
		return nil, err
	}
	if err := utils.ValidateStruct(input); err != nil {
		return nil, invalidInput(err.Error())
	}

	uploadDate := input.UploadDate
	if uploadDate.IsZero() {
		uploadDate = time.Now()
	}

	file := &models.File{
		FilecoinHash: strings.TrimSpace(input.FilecoinHash),
		FileName:     input.FileName,
		FileType:     input.FileType,
		FileSize:     input.FileSize,
		ThumbnailURL: input.ThumbnailURL,
		Description:  input.Description,
		Network:      input.Network,
		UploadDate:   uploadDate,
		UserID:       session.UserID,
	}

	var reconciled *ReconcileResult
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		if err := tx.Files.Create(ctx, file); err != nil {
			return errors.WrapIf(err, "保存文件失败")
		}

		var err error
		reconciled, err = s.tags.Reconcile(ctx, tx, file.ID, input.Tags)
		if err != nil {
			return err
		}
		if len(reconciled.Tags) == 0 {
			return invalidInput("至少需要一个有效标签")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	result := &CreateFileResult{
		File: &FileView{
			File:  file,
			Tags:  reconciled.Tags,
			Tally: Tally{FileID: file.ID},
		},
		Skipped: reconciled.Skipped,
	}

	reward, err := s.rewardTagging(ctx, session.UserID, file.ID)
	if err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"file_id": file.ID,
			"user_id": session.UserID,
		}).Error("发放打标签奖励失败")
		result.RewardError = "奖励发放失败"
	} else {
		result.Reward = reward
	}

	s.logger.WithFields(logrus.Fields{
		"file_id": file.ID,
		"user_id": session.UserID,
		"tags":    len(reconciled.Tags),
	}).Info("文件已创建")
	return result, nil
}

// rewardTagging 发放固定奖励与随机奖励，两条流水在同一事务中
func (s *FileService) rewardTagging(ctx context.Context, userID, fileID uint) (*Reward, error) {
	bonus := s.bonus.Bonus(ctx)
	reward := &Reward{TagFile: s.rewards.TagFile, Bonus: bonus}

	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		entries := []PointEntry{
			{UserID: userID, Delta: s.rewards.TagFile, Reason: models.PointReasonTagFile, FileID: &fileID},
			{UserID: userID, Delta: bonus, Reason: models.PointReasonTagBonus, FileID: &fileID},
		}
		for _, entry := range entries {
			total, err := s.points.ApplyDelta(ctx, tx, entry)
			if err != nil {
				return err
			}
			reward.Total = total
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return reward, nil
}

// ListFiles 文件列表
// 按票数排序时取出全部匹配文件在内存中排序
func (s *FileService) ListFiles(ctx context.Context, query ListFilesQuery) ([]FileView, error) {
	switch query.OrderBy {
	case "", OrderByUploadDate, OrderByUpvotes:
	default:
		return nil, invalidInput("不支持的排序方式: " + query.OrderBy)
	}

	limit := query.Limit
	if limit <= 0 {
		limit = defaultFileLimit
	}
	if limit > maxFileLimit {
		limit = maxFileLimit
	}

	filter := repository.FileFilter{
		FileType: query.FileType,
		TagIDs:   query.TagIDs,
		Search:   strings.TrimSpace(query.Query),
		Limit:    limit,
	}
	if query.OrderBy == OrderByUpvotes {
		filter.Limit = 0
	}

	files, err := s.store.Files.List(ctx, filter)
	if err != nil {
		return nil, errors.WrapIf(err, "查询文件列表失败")
	}

	views, err := s.decorate(ctx, files)
	if err != nil {
		return nil, err
	}

	if query.OrderBy == OrderByUpvotes {
		sort.SliceStable(views, func(i, j int) bool {
			return views[i].Tally.Net > views[j].Tally.Net
		})
		if len(views) > limit {
			views = views[:limit]
		}
	}
	return views, nil
}

// decorate 批量附加标签与票数
func (s *FileService) decorate(ctx context.Context, files []models.File) ([]FileView, error) {
	ids := make([]uint, 0, len(files))
	for _, f := range files {
		ids = append(ids, f.ID)
	}

	tagsByFile, err := s.store.Tags.ListByFileIDs(ctx, ids)
	if err != nil {
		return nil, errors.WrapIf(err, "查询文件标签失败")
	}
	counts, err := s.store.Votes.CountByFileIDs(ctx, ids)
	if err != nil {
		return nil, errors.WrapIf(err, "统计票数失败")
	}

	views := make([]FileView, 0, len(files))
	for i := range files {
		file := &files[i]
		views = append(views, FileView{
			File:  file,
			Tags:  tagsByFile[file.ID],
			Tally: tallyFromCount(file.ID, counts[file.ID]),
		})
	}
	return views, nil
}

// GetFile 文件详情
func (s *FileService) GetFile(ctx context.Context, id uint) (*FileView, error) {
	file, err := s.store.Files.GetByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, notFound("文件不存在")
		}
		return nil, errors.WrapIf(err, "查询文件失败")
	}

	tags, err := s.store.Tags.ListByFileID(ctx, id)
	if err != nil {
		return nil, errors.WrapIf(err, "查询文件标签失败")
	}
	count, err := s.store.Votes.CountByFileID(ctx, id)
	if err != nil {
		return nil, errors.WrapIf(err, "统计票数失败")
	}
	comments, err := s.store.Comments.CountByFileID(ctx, id)
	if err != nil {
		return nil, errors.WrapIf(err, "统计评论失败")
	}

	return &FileView{
		File:         file,
		Tags:         tags,
		Tally:        tallyFromCount(id, count),
		CommentCount: comments,
	}, nil
}

// ListUserFiles 用户上传的文件，分页
func (s *FileService) ListUserFiles(ctx context.Context, session *Session, page, perPage int) ([]FileView, int64, error) {
	if err := requireSession(session); err != nil {
		return nil, 0, err
	}
	if page < 1 {
		page = 1
	}
	if perPage <= 0 || perPage > maxFileLimit {
		perPage = defaultFileLimit
	}

	files, total, err := s.store.Files.ListByUserID(ctx, session.UserID, (page-1)*perPage, perPage)
	if err != nil {
		return nil, 0, errors.WrapIf(err, "查询用户文件失败")
	}

	views, err := s.decorate(ctx, files)
	if err != nil {
		return nil, 0, err
	}
	return views, total, nil
}

// EditTags 为文件追加标签，仅文件所有者可操作
func (s *FileService) EditTags(ctx context.Context, session *Session, fileID uint, refs []TagRef) (*ReconcileResult, error) {
	if err := requireSession(session); err != nil {
		return nil, err
	}
	if len(refs) == 0 {
		return nil, invalidInput("标签不能为空")
	}
	if err := requireOwner(ctx, s.store, session, fileID); err != nil {
		return nil, err
	}

	var result *ReconcileResult
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		var err error
		result, err = s.tags.Reconcile(ctx, tx, fileID, refs)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
