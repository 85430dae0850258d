package service

import (
	"context"
	"strconv"
	"strings"

	"emperror.dev/errors"
	"github.com/sirupsen/logrus"

	"filetag-go/internal/metrics"
	"filetag-go/internal/models"
	"filetag-go/internal/repository"
)

const (
	temporaryTagPrefix = "temp-"
	maxTagLength       = 100
	tagSearchLimit     = 10
)

// TagRef 标签引用：ID 为 0 表示尚未入库的待定标签，否则为已入库标签
type TagRef struct {
	ID    uint
	Label string
}

// PendingTag 待定标签引用
func PendingTag(label string) TagRef {
	return TagRef{Label: label}
}

// PersistedTag 已入库标签引用
func PersistedTag(id uint, label string) TagRef {
	return TagRef{ID: id, Label: label}
}

// IsPending 是否为待定标签
func (r TagRef) IsPending() bool {
	return r.ID == 0
}

// ParseTagRef 解析客户端提交的标签引用
// 空ID或 temp- 前缀的临时ID视为待定标签，临时ID不会写入存储
func ParseTagRef(id, label string) (TagRef, error) {
	id = strings.TrimSpace(id)
	if id == "" || strings.HasPrefix(id, temporaryTagPrefix) {
		return PendingTag(label), nil
	}

	n, err := strconv.ParseUint(id, 10, 64)
	if err != nil || n == 0 {
		return TagRef{}, invalidInput("无效的标签ID: " + id)
	}
	return PersistedTag(uint(n), label), nil
}

// NormalizeTag 去除首尾空白并转为小写
func NormalizeTag(label string) string {
	return strings.ToLower(strings.TrimSpace(label))
}

// ReconcileResult 标签对账结果
type ReconcileResult struct {
	// Tags 按输入顺序去重后的标签
	Tags []models.Tag
	// Linked 本次新建的关联
	Linked []uint
	// Created 本次新建的标签
	Created []uint
	// Skipped 规范化后为空或过长而被忽略的输入
	Skipped []string
}

// TagReconciler 标签对账服务
type TagReconciler struct {
	store  *repository.Store
	logger *logrus.Logger
}

// NewTagReconciler 创建标签对账服务
func NewTagReconciler(store *repository.Store, logger *logrus.Logger) *TagReconciler {
	return &TagReconciler{
		store:  store,
		logger: logger,
	}
}

// Reconcile 将标签引用解析为标签ID并关联到文件
// 必须在事务中调用，任何失败都会使整个对账回滚
func (r *TagReconciler) Reconcile(ctx context.Context, tx *repository.Store, fileID uint, refs []TagRef) (*ReconcileResult, error) {
	result := &ReconcileResult{}

	linkedIDs, err := tx.Tags.LinkedTagIDs(ctx, fileID)
	if err != nil {
		return nil, errors.WrapIf(err, "查询文件标签失败")
	}
	linked := make(map[uint]bool, len(linkedIDs))
	for _, id := range linkedIDs {
		linked[id] = true
	}

	seenLabels := make(map[string]bool, len(refs))
	seenIDs := make(map[uint]bool, len(refs))
	var links []models.FileTag

	for _, ref := range refs {
		var tag *models.Tag

		if ref.IsPending() {
			label := NormalizeTag(ref.Label)
			if label == "" || len(label) > maxTagLength {
				result.Skipped = append(result.Skipped, ref.Label)
				continue
			}
			if seenLabels[label] {
				continue
			}
			seenLabels[label] = true

			tag, err = r.findOrCreate(ctx, tx, label, result)
			if err != nil {
				return nil, err
			}
		} else {
			tag, err = tx.Tags.GetByID(ctx, ref.ID)
			if err != nil {
				if repository.IsNotFound(err) {
					return nil, notFound("标签不存在: " + strconv.FormatUint(uint64(ref.ID), 10))
				}
				return nil, errors.WrapIf(err, "查询标签失败")
			}
			// 旧数据中规范化文本相同的另一个标签视为重复
			label := NormalizeTag(tag.Tag)
			if seenLabels[label] && !seenIDs[tag.ID] {
				continue
			}
			seenLabels[label] = true
		}

		if seenIDs[tag.ID] {
			continue
		}
		seenIDs[tag.ID] = true
		result.Tags = append(result.Tags, *tag)

		if !linked[tag.ID] {
			links = append(links, models.FileTag{FileID: fileID, TagID: tag.ID})
			result.Linked = append(result.Linked, tag.ID)
		}
	}

	if err := tx.Tags.Link(ctx, links); err != nil {
		return nil, errors.WrapIf(err, "关联标签失败")
	}

	if len(result.Linked) > 0 || len(result.Skipped) > 0 {
		r.logger.WithFields(logrus.Fields{
			"file_id": fileID,
			"linked":  result.Linked,
			"created": result.Created,
			"skipped": len(result.Skipped),
		}).Debug("标签对账完成")
	}
	return result, nil
}

// findOrCreate 大小写无关查找标签，不存在时以规范化文本创建
func (r *TagReconciler) findOrCreate(ctx context.Context, tx *repository.Store, label string, result *ReconcileResult) (*models.Tag, error) {
	tag, err := tx.Tags.FindByNormalized(ctx, label)
	if err == nil {
		return tag, nil
	}
	if !repository.IsNotFound(err) {
		return nil, errors.WrapIf(err, "查询标签失败")
	}

	tag = &models.Tag{Tag: label}
	if err := tx.Tags.Create(ctx, tag); err != nil {
		return nil, errors.WrapIf(err, "创建标签失败")
	}
	metrics.TagsCreated.Inc()
	result.Created = append(result.Created, tag.ID)
	return tag, nil
}

// SearchTags 子串搜索标签，空查询返回空列表
func (r *TagReconciler) SearchTags(ctx context.Context, query string) ([]models.Tag, error) {
	query = NormalizeTag(query)
	if query == "" {
		return []models.Tag{}, nil
	}

	tags, err := r.store.Tags.Search(ctx, query, tagSearchLimit)
	if err != nil {
		return nil, errors.WrapIf(err, "搜索标签失败")
	}
	return tags, nil
}

// FileTags 获取文件的标签
func (r *TagReconciler) FileTags(ctx context.Context, fileID uint) ([]models.Tag, error) {
	exists, err := r.store.Files.Exists(ctx, fileID)
	if err != nil {
		return nil, errors.WrapIf(err, "查询文件失败")
	}
	if !exists {
		return nil, notFound("文件不存在")
	}

	tags, err := r.store.Tags.ListByFileID(ctx, fileID)
	if err != nil {
		return nil, errors.WrapIf(err, "查询文件标签失败")
	}
	return tags, nil
}

// Unlink 移除文件的标签关联，仅文件所有者可操作
func (r *TagReconciler) Unlink(ctx context.Context, session *Session, fileID, tagID uint) error {
	if err := requireSession(session); err != nil {
		return err
	}
	if err := requireOwner(ctx, r.store, session, fileID); err != nil {
		return err
	}

	affected, err := r.store.Tags.Unlink(ctx, fileID, tagID)
	if err != nil {
		return errors.WrapIf(err, "移除标签失败")
	}
	if affected == 0 {
		return notFound("文件未关联该标签")
	}
	return nil
}

// requireOwner 校验会话用户是否为文件所有者
func requireOwner(ctx context.Context, store *repository.Store, session *Session, fileID uint) error {
	ownerID, err := store.Files.GetOwnerID(ctx, fileID)
	if err != nil {
		if repository.IsNotFound(err) {
			return notFound("文件不存在")
		}
		return errors.WrapIf(err, "查询文件失败")
	}
	if ownerID != session.UserID {
		return errors.WithMessage(ErrForbidden, "只有文件所有者可以编辑标签")
	}
	return nil
}
