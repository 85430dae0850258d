package service

import (
	"context"

	"emperror.dev/errors"
	"github.com/sirupsen/logrus"

	"filetag-go/internal/models"
	"filetag-go/internal/repository"
)

// DedupeResult 标签去重结果
type DedupeResult struct {
	Groups   int `json:"groups"`
	Removed  int `json:"removed"`
	Relinked int `json:"relinked"`
}

// TagMaintenance 标签维护任务
type TagMaintenance struct {
	store  *repository.Store
	logger *logrus.Logger
}

// NewTagMaintenance 创建标签维护任务
func NewTagMaintenance(store *repository.Store, logger *logrus.Logger) *TagMaintenance {
	return &TagMaintenance{
		store:  store,
		logger: logger,
	}
}

// DedupeTags 合并规范化文本相同的标签
// 每组保留最小ID，关联改指向保留的标签后删除其余标签，每组一个事务
func (m *TagMaintenance) DedupeTags(ctx context.Context) (*DedupeResult, error) {
	groups, err := m.store.Tags.DuplicateGroups(ctx)
	if err != nil {
		return nil, errors.WrapIf(err, "查询重复标签失败")
	}

	result := &DedupeResult{}
	for _, group := range groups {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		var removed, relinked int
		err := m.store.Transaction(ctx, func(tx *repository.Store) error {
			ids, err := tx.Tags.IDsByNormalized(ctx, group.Normalized)
			if err != nil {
				return errors.WrapIf(err, "查询标签失败")
			}
			if len(ids) < 2 {
				return nil
			}
			keepID, dupIDs := ids[0], ids[1:]

			fileIDs, err := tx.Tags.FileIDsByTagIDs(ctx, dupIDs)
			if err != nil {
				return errors.WrapIf(err, "查询标签关联失败")
			}
			links := make([]models.FileTag, 0, len(fileIDs))
			for _, fileID := range fileIDs {
				links = append(links, models.FileTag{FileID: fileID, TagID: keepID})
			}
			if err := tx.Tags.Link(ctx, links); err != nil {
				return errors.WrapIf(err, "迁移标签关联失败")
			}
			if err := tx.Tags.DeleteWithLinks(ctx, dupIDs); err != nil {
				return errors.WrapIf(err, "删除重复标签失败")
			}
			if err := tx.Tags.Rename(ctx, keepID, group.Normalized); err != nil {
				return errors.WrapIf(err, "规范化标签失败")
			}

			removed, relinked = len(dupIDs), len(links)
			return nil
		})
		if err != nil {
			return result, errors.WithDetails(err, "tag", group.Normalized)
		}

		result.Groups++
		result.Removed += removed
		result.Relinked += relinked
	}

	if result.Groups > 0 {
		m.logger.WithFields(logrus.Fields{
			"groups":   result.Groups,
			"removed":  result.Removed,
			"relinked": result.Relinked,
		}).Info("标签去重完成")
	}
	return result, nil
}
