package service

import (
	"context"
	"fmt"

	"emperror.dev/errors"
	"github.com/sirupsen/logrus"

	"filetag-go/internal/config"
	"filetag-go/internal/metrics"
	"filetag-go/internal/models"
	"filetag-go/internal/repository"
	"filetag-go/pkg/limiter"
)

// 投票状态迁移
const (
	TransitionNew    = "new"
	TransitionRevert = "revert"
	TransitionSwitch = "switch"
)

// VoteResult 投票结果
type VoteResult struct {
	FileID uint `json:"file_id"`
	// VoteType 投票后的状态，0 表示已取消
	VoteType    int    `json:"vote_type"`
	Transition  string `json:"transition"`
	OwnerPoints int    `json:"owner_points"`
	Tally       Tally  `json:"tally"`
}

// VoteLedger 投票账本
type VoteLedger struct {
	store     *repository.Store
	points    *PointsLedger
	guard     limiter.Limiter
	publisher TallyPublisher
	rewards   config.RewardsConfig
	logger    *logrus.Logger
}

// NewVoteLedger 创建投票账本，publisher 可以为 nil
func NewVoteLedger(
	store *repository.Store,
	points *PointsLedger,
	guard limiter.Limiter,
	publisher TallyPublisher,
	rewards config.RewardsConfig,
	logger *logrus.Logger,
) *VoteLedger {
	if guard == nil {
		guard = limiter.NewLocalLimiter(1)
	}
	return &VoteLedger{
		store:     store,
		points:    points,
		guard:     guard,
		publisher: publisher,
		rewards:   rewards,
		logger:    logger,
	}
}

// voteDelta 文件所有者因某方向投票获得的积分与原因
func (l *VoteLedger) voteDelta(voteType int) (int, string) {
	if voteType == models.VoteUp {
		return l.rewards.UpvoteReceived, models.PointReasonUpvoteReceived
	}
	return l.rewards.DownvoteReceived, models.PointReasonDownvoteReceived
}

// CastVote 投票
// 无投票时新增；与已有投票同向时取消；反向时改票，先撤销原积分再应用新积分
func (l *VoteLedger) CastVote(ctx context.Context, session *Session, fileID uint, voteType int) (*VoteResult, error) {
	if err := requireSession(session); err != nil {
		return nil, err
	}
	if voteType != models.VoteUp && voteType != models.VoteDown {
		return nil, invalidInput("投票类型必须为1或-1")
	}

	guardKey := fmt.Sprintf("vote:%d:%d", fileID, session.UserID)
	if err := l.guard.Acquire(ctx, guardKey); err != nil {
		if errors.Is(err, limiter.ErrLimitReached) {
			return nil, errors.WithMessage(ErrConflict, "投票正在处理中")
		}
		return nil, errors.WrapIf(err, "获取投票锁失败")
	}
	defer l.guard.Release(context.Background(), guardKey)

	result := &VoteResult{FileID: fileID}
	err := l.store.Transaction(ctx, func(tx *repository.Store) error {
		ownerID, err := tx.Files.GetOwnerID(ctx, fileID)
		if err != nil {
			if repository.IsNotFound(err) {
				return notFound("文件不存在")
			}
			return errors.WrapIf(err, "查询文件失败")
		}

		if err := requireUser(ctx, tx, session); err != nil {
			return err
		}

		entries, err := l.mutateVote(ctx, tx, session.UserID, fileID, voteType, result)
		if err != nil {
			return err
		}

		voterID := session.UserID
		for _, entry := range entries {
			entry.UserID = ownerID
			entry.FileID = &fileID
			entry.ActorID = &voterID
			total, err := l.points.ApplyDelta(ctx, tx, entry)
			if err != nil {
				return err
			}
			result.OwnerPoints = total
		}

		count, err := tx.Votes.CountByFileID(ctx, fileID)
		if err != nil {
			return errors.WrapIf(err, "统计票数失败")
		}
		result.Tally = tallyFromCount(fileID, count)
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.VotesCast.WithLabelValues(result.Transition).Inc()
	if l.publisher != nil {
		l.publisher.Publish(result.Tally)
	}

	l.logger.WithFields(logrus.Fields{
		"file_id":    fileID,
		"user_id":    session.UserID,
		"vote_type":  result.VoteType,
		"transition": result.Transition,
	}).Info("投票完成")
	return result, nil
}

// mutateVote 修改投票记录，返回需要应用到文件所有者的积分变动
func (l *VoteLedger) mutateVote(ctx context.Context, tx *repository.Store, userID, fileID uint, voteType int, result *VoteResult) ([]PointEntry, error) {
	existing, err := tx.Votes.Get(ctx, fileID, userID)
	if err != nil && !repository.IsNotFound(err) {
		return nil, errors.WrapIf(err, "查询投票失败")
	}

	delta, reason := l.voteDelta(voteType)

	if existing == nil {
		vote := &models.Vote{FileID: fileID, UserID: userID, VoteType: voteType}
		if err := tx.Votes.Create(ctx, vote); err != nil {
			if repository.IsDuplicateKey(err) {
				return nil, errors.WithMessage(ErrConflict, "投票正在处理中")
			}
			return nil, errors.WrapIf(err, "创建投票失败")
		}
		result.VoteType = voteType
		result.Transition = TransitionNew
		return []PointEntry{{Delta: delta, Reason: reason}}, nil
	}

	if existing.VoteType == voteType {
		if err := tx.Votes.Delete(ctx, existing.ID); err != nil {
			return nil, errors.WrapIf(err, "取消投票失败")
		}
		result.VoteType = 0
		result.Transition = TransitionRevert
		return []PointEntry{{Delta: -delta, Reason: models.PointReasonVoteRevert}}, nil
	}

	if err := tx.Votes.UpdateType(ctx, existing.ID, voteType); err != nil {
		return nil, errors.WrapIf(err, "修改投票失败")
	}
	oldDelta, _ := l.voteDelta(existing.VoteType)
	result.VoteType = voteType
	result.Transition = TransitionSwitch
	return []PointEntry{
		{Delta: -oldDelta, Reason: models.PointReasonVoteRevert},
		{Delta: delta, Reason: reason},
	}, nil
}

// Tally 文件票数统计
func (l *VoteLedger) Tally(ctx context.Context, fileID uint) (Tally, error) {
	exists, err := l.store.Files.Exists(ctx, fileID)
	if err != nil {
		return Tally{}, errors.WrapIf(err, "查询文件失败")
	}
	if !exists {
		return Tally{}, notFound("文件不存在")
	}

	count, err := l.store.Votes.CountByFileID(ctx, fileID)
	if err != nil {
		return Tally{}, errors.WrapIf(err, "统计票数失败")
	}
	return tallyFromCount(fileID, count), nil
}

// MyVote 当前用户对文件的投票，未投票返回0
func (l *VoteLedger) MyVote(ctx context.Context, session *Session, fileID uint) (int, error) {
	if err := requireSession(session); err != nil {
		return 0, err
	}

	vote, err := l.store.Votes.Get(ctx, fileID, session.UserID)
	if err != nil {
		if repository.IsNotFound(err) {
			return 0, nil
		}
		return 0, errors.WrapIf(err, "查询投票失败")
	}
	return vote.VoteType, nil
}

func tallyFromCount(fileID uint, count repository.VoteCount) Tally {
	return Tally{
		FileID:    fileID,
		Upvotes:   count.Upvotes,
		Downvotes: count.Downvotes,
		Net:       count.Net(),
	}
}
