package service

import (
	"context"

	"emperror.dev/errors"
	"github.com/sirupsen/logrus"

	"filetag-go/internal/metrics"
	"filetag-go/internal/models"
	"filetag-go/internal/repository"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 200
)

// PointEntry 一次积分变动
type PointEntry struct {
	UserID  uint
	Delta   int
	Reason  string
	FileID  *uint
	ActorID *uint
}

// PointsLedger 积分账本
type PointsLedger struct {
	store  *repository.Store
	logger *logrus.Logger
}

// NewPointsLedger 创建积分账本
func NewPointsLedger(store *repository.Store, logger *logrus.Logger) *PointsLedger {
	return &PointsLedger{
		store:  store,
		logger: logger,
	}
}

// ApplyDelta 原子调整积分并追加流水，返回调整后的积分
// tx 为 nil 时自行开启事务
func (l *PointsLedger) ApplyDelta(ctx context.Context, tx *repository.Store, entry PointEntry) (int, error) {
	if tx == nil {
		var total int
		err := l.store.Transaction(ctx, func(tx *repository.Store) error {
			var err error
			total, err = l.ApplyDelta(ctx, tx, entry)
			return err
		})
		return total, err
	}

	if entry.Reason == "" {
		return 0, invalidInput("积分变动原因不能为空")
	}

	total, err := tx.Users.AddPoints(ctx, entry.UserID, entry.Delta)
	if err != nil {
		if repository.IsNotFound(err) {
			return 0, notFound("用户不存在")
		}
		return 0, errors.WrapIf(err, "更新积分失败")
	}

	event := &models.PointEvent{
		UserID:  entry.UserID,
		Delta:   entry.Delta,
		Reason:  entry.Reason,
		FileID:  entry.FileID,
		ActorID: entry.ActorID,
	}
	if err := tx.Points.Create(ctx, event); err != nil {
		return 0, errors.WrapIf(err, "记录积分流水失败")
	}

	metrics.PointsDelta.WithLabelValues(entry.Reason).Inc()
	l.logger.WithFields(logrus.Fields{
		"user_id": entry.UserID,
		"delta":   entry.Delta,
		"reason":  entry.Reason,
		"total":   total,
	}).Debug("积分已变动")

	return total, nil
}

// History 用户积分流水，新的在前
func (l *PointsLedger) History(ctx context.Context, session *Session, limit int) ([]models.PointEvent, error) {
	if err := requireSession(session); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	events, err := l.store.Points.ListByUserID(ctx, session.UserID, limit)
	if err != nil {
		return nil, errors.WrapIf(err, "查询积分流水失败")
	}
	return events, nil
}
