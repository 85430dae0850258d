package handler

import (
	"filetag-go/internal/dto"
	"filetag-go/internal/middleware"
	"filetag-go/internal/service"
	"filetag-go/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ReportHandler 举报处理器
type ReportHandler struct {
	reportService *service.ReportService
	logger        *logrus.Logger
}

// NewReportHandler 创建举报处理器
func NewReportHandler(reportService *service.ReportService, logger *logrus.Logger) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
		logger:        logger,
	}
}

// CreateReport 举报文件
func (h *ReportHandler) CreateReport(c *gin.Context) {
	fileID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	// 举报原因可选，允许空请求体
	var req dto.CreateReportRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.BadRequest(c, err.Error())
			return
		}
	}

	report, err := h.reportService.ReportFile(c.Request.Context(), middleware.GetSession(c), fileID, req.ReportReason)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	utils.SuccessWithMessage(c, "举报已提交", toReportResponse(report))
}

// ListReports 文件的举报记录
func (h *ReportHandler) ListReports(c *gin.Context) {
	fileID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	reports, err := h.reportService.ListReports(c.Request.Context(), middleware.GetSession(c), fileID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	items := make([]dto.ReportResponse, 0, len(reports))
	for i := range reports {
		items = append(items, toReportResponse(&reports[i]))
	}
	utils.SuccessResponse(c, dto.ListResponse{Items: items, Total: int64(len(items))})
}
