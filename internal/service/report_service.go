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

const maxReportReasonLength = 1000

// ReportService 举报服务
type ReportService struct {
	store  *repository.Store
	logger *logrus.Logger
}

// NewReportService 创建举报服务
func NewReportService(store *repository.Store, logger *logrus.Logger) *ReportService {
	return &ReportService{
		store:  store,
		logger: logger,
	}
}

// ReportFile 举报文件，原因可以为空
func (s *ReportService) ReportFile(ctx context.Context, session *Session, fileID uint, reason string) (*models.Report, error) {
	if err := requireSession(session); err != nil {
		return nil, err
	}

	reason = strings.TrimSpace(reason)
	if utf8.RuneCountInString(reason) > maxReportReasonLength {
		return nil, invalidInput("举报原因不能超过1000字")
	}

	if err := ensureFileExists(ctx, s.store, fileID); err != nil {
		return nil, err
	}
	if err := requireUser(ctx, s.store, session); err != nil {
		return nil, err
	}

	report := &models.Report{
		FileID: fileID,
		UserID: session.UserID,
	}
	if reason != "" {
		report.ReportReason = &reason
	}
	if err := s.store.Reports.Create(ctx, report); err != nil {
		return nil, errors.WrapIf(err, "保存举报失败")
	}

	s.logger.WithFields(logrus.Fields{
		"report_id": report.ID,
		"file_id":   fileID,
		"user_id":   session.UserID,
	}).Warn("收到文件举报")
	return report, nil
}

// ListReports 文件的举报记录，新的在前
func (s *ReportService) ListReports(ctx context.Context, session *Session, fileID uint) ([]models.Report, error) {
	if err := requireSession(session); err != nil {
		return nil, err
	}
	if err := ensureFileExists(ctx, s.store, fileID); err != nil {
		return nil, err
	}

	reports, err := s.store.Reports.ListByFileID(ctx, fileID)
	if err != nil {
		return nil, errors.WrapIf(err, "查询举报失败")
	}
	return reports, nil
}
