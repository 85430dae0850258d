package handler

import (
	"filetag-go/internal/dto"
	"filetag-go/internal/middleware"
	"filetag-go/internal/service"
	"filetag-go/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// CommentHandler 评论处理器
type CommentHandler struct {
	commentService *service.CommentService
	logger         *logrus.Logger
}

// NewCommentHandler 创建评论处理器
func NewCommentHandler(commentService *service.CommentService, logger *logrus.Logger) *CommentHandler {
	return &CommentHandler{
		commentService: commentService,
		logger:         logger,
	}
}

// ListComments 文件评论列表
func (h *CommentHandler) ListComments(c *gin.Context) {
	fileID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	comments, err := h.commentService.ListComments(c.Request.Context(), fileID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	items := make([]dto.CommentResponse, 0, len(comments))
	for i := range comments {
		items = append(items, toCommentResponse(&comments[i]))
	}
	utils.SuccessResponse(c, dto.ListResponse{Items: items, Total: int64(len(items))})
}

// CreateComment 发表评论
func (h *CommentHandler) CreateComment(c *gin.Context) {
	fileID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	comment, err := h.commentService.AddComment(c.Request.Context(), middleware.GetSession(c), fileID, req.Comment)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	utils.SuccessWithMessage(c, "评论已发表", toCommentResponse(comment))
}

// DeleteComment 删除自己的评论
func (h *CommentHandler) DeleteComment(c *gin.Context) {
	commentID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.commentService.DeleteComment(c.Request.Context(), middleware.GetSession(c), commentID); err != nil {
		respondError(c, h.logger, err)
		return
	}

	utils.SuccessWithMessage(c, "评论已删除", gin.H{"success": true})
}
