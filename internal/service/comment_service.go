package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"emperror.dev/errors"
	"github.com/sirupsen/logrus"

	"filetag-go/internal/models"
	"filetag-go/internal/repository"
)

const maxCommentLength = 2000

// CommentService 评论服务
type CommentService struct {
	store  *repository.Store
	logger *logrus.Logger
}

// NewCommentService 创建评论服务
func NewCommentService(store *repository.Store, logger *logrus.Logger) *CommentService {
	return &CommentService{
		store:  store,
		logger: logger,
	}
}

// AddComment 发表评论
func (s *CommentService) AddComment(ctx context.Context, session *Session, fileID uint, text string) (*models.Comment, error) {
	if err := requireSession(session); err != nil {
		return nil, err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, invalidInput("评论内容不能为空")
	}
	if utf8.RuneCountInString(text) > maxCommentLength {
		return nil, invalidInput("评论内容不能超过2000字")
	}

	if err := ensureFileExists(ctx, s.store, fileID); err != nil {
		return nil, err
	}
	if err := requireUser(ctx, s.store, session); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		FileID:  fileID,
		UserID:  session.UserID,
		Comment: text,
	}
	if err := s.store.Comments.Create(ctx, comment); err != nil {
		return nil, errors.WrapIf(err, "保存评论失败")
	}
	comment.User = models.User{ID: session.UserID, WalletAddress: session.WalletAddress}
	return comment, nil
}

// ListComments 文件评论，旧的在前
func (s *CommentService) ListComments(ctx context.Context, fileID uint) ([]models.Comment, error) {
	if err := ensureFileExists(ctx, s.store, fileID); err != nil {
		return nil, err
	}

	comments, err := s.store.Comments.ListByFileID(ctx, fileID)
	if err != nil {
		return nil, errors.WrapIf(err, "查询评论失败")
	}
	return comments, nil
}

// DeleteComment 删除评论，仅作者可操作
func (s *CommentService) DeleteComment(ctx context.Context, session *Session, commentID uint) error {
	if err := requireSession(session); err != nil {
		return err
	}

	comment, err := s.store.Comments.GetByID(ctx, commentID)
	if err != nil {
		if repository.IsNotFound(err) {
			return notFound("评论不存在")
		}
		return errors.WrapIf(err, "查询评论失败")
	}
	if comment.UserID != session.UserID {
		return errors.WithMessage(ErrForbidden, "只能删除自己的评论")
	}

	if err := s.store.Comments.Delete(ctx, commentID); err != nil {
		return errors.WrapIf(err, "删除评论失败")
	}

	s.logger.WithFields(logrus.Fields{
		"comment_id": commentID,
		"file_id":    comment.FileID,
		"user_id":    session.UserID,
	}).Info("评论已删除")
	return nil
}

// ensureFileExists 文件不存在时返回 ErrNotFound
func ensureFileExists(ctx context.Context, store *repository.Store, fileID uint) error {
	exists, err := store.Files.Exists(ctx, fileID)
	if err != nil {
		return errors.WrapIf(err, "查询文件失败")
	}
	if !exists {
		return notFound("文件不存在")
	}
	return nil
}
