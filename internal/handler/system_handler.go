package handler

import (
	"context"
	"net/http"
	"time"

	"filetag-go/internal/dto"
	"filetag-go/internal/repository"
	"filetag-go/internal/service"
	"filetag-go/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// SystemHandler 健康检查、随机奖励预览与内部维护接口
type SystemHandler struct {
	store        *repository.Store
	bonusService *service.BonusService
	maintenance  *service.TagMaintenance
	logger       *logrus.Logger
}

// NewSystemHandler 创建系统处理器
func NewSystemHandler(store *repository.Store, bonusService *service.BonusService, maintenance *service.TagMaintenance, logger *logrus.Logger) *SystemHandler {
	return &SystemHandler{
		store:        store,
		bonusService: bonusService,
		maintenance:  maintenance,
		logger:       logger,
	}
}

// Health 健康检查
func (h *SystemHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		h.logger.WithError(err).Error("数据库健康检查失败")
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "database": "down"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "healthy", "database": "up"})
}

// BonusPreview 当前信标对应的奖励积分
func (h *SystemHandler) BonusPreview(c *gin.Context) {
	preview := h.bonusService.Preview(c.Request.Context())
	utils.SuccessResponse(c, dto.BonusPreviewResponse{
		Round:      preview.Round,
		Randomness: preview.Randomness,
		Bonus:      preview.Bonus,
		Fallback:   preview.Fallback,
	})
}

// DedupeTags 立即执行标签去重
func (h *SystemHandler) DedupeTags(c *gin.Context) {
	result, err := h.maintenance.DedupeTags(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	utils.SuccessResponse(c, dto.DedupeResponse{
		Groups:   result.Groups,
		Removed:  result.Removed,
		Relinked: result.Relinked,
	})
}
