package handler

import (
	"filetag-go/internal/dto"
	"filetag-go/internal/middleware"
	"filetag-go/internal/service"
	"filetag-go/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// FileHandler 文件目录处理器
type FileHandler struct {
	fileService   *service.FileService
	tagReconciler *service.TagReconciler
	logger        *logrus.Logger
}

// NewFileHandler 创建文件目录处理器
func NewFileHandler(fileService *service.FileService, tagReconciler *service.TagReconciler, logger *logrus.Logger) *FileHandler {
	return &FileHandler{
		fileService:   fileService,
		tagReconciler: tagReconciler,
		logger:        logger,
	}
}

// CreateFile 创建文件并打标签
// @Summary 创建文件并打标签，成功后发放积分奖励
// @Tags 文件
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateFileRequest true "文件信息"
// @Success 200 {object} utils.Response{data=dto.CreateFileResponse}
// @Router /api/files [post]
func (h *FileHandler) CreateFile(c *gin.Context) {
	var req dto.CreateFileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	refs, err := toTagRefs(req.Tags)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	input := &service.CreateFileInput{
		FilecoinHash: req.FilecoinHash,
		FileName:     req.FileName,
		FileType:     req.FileType,
		FileSize:     req.FileSize,
		ThumbnailURL: req.ThumbnailURL,
		Description:  req.Description,
		Network:      req.Network,
		Tags:         refs,
	}
	if req.UploadDate != nil {
		input.UploadDate = *req.UploadDate
	}

	session := middleware.GetSession(c)
	result, err := h.fileService.CreateFile(c.Request.Context(), session, input)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	result.File.File.User.WalletAddress = session.WalletAddress
	resp := dto.CreateFileResponse{
		File:        toFileResponse(result.File, false),
		SkippedTags: result.Skipped,
		RewardError: result.RewardError,
	}
	if result.Reward != nil {
		resp.Reward = &dto.RewardResponse{
			TagFile:     result.Reward.TagFile,
			Bonus:       result.Reward.Bonus,
			TotalPoints: result.Reward.Total,
		}
	}
	utils.SuccessWithMessage(c, "文件已保存", resp)
}

// ListFiles 文件列表与搜索
func (h *FileHandler) ListFiles(c *gin.Context) {
	var query dto.ListFilesQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	tagIDs, err := parseIDList(query.Tags)
	if err != nil {
		utils.BadRequest(c, "无效的标签ID列表")
		return
	}

	views, err := h.fileService.ListFiles(c.Request.Context(), service.ListFilesQuery{
		FileType: query.FileType,
		TagIDs:   tagIDs,
		Query:    query.Q,
		OrderBy:  query.OrderBy,
		Limit:    query.Limit,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	items := make([]dto.FileResponse, 0, len(views))
	for i := range views {
		items = append(items, toFileResponse(&views[i], false))
	}
	utils.SuccessResponse(c, dto.ListResponse{Items: items, Total: int64(len(items))})
}

// ListMyFiles 当前用户上传的文件，分页
// @Summary 当前用户上传的文件
// @Tags 文件
// @Produce json
// @Security BearerAuth
// @Param page query int false "页码"
// @Param per_page query int false "每页数量"
// @Success 200 {object} utils.PaginationResponse{data=[]dto.FileResponse}
// @Router /api/me/files [get]
func (h *FileHandler) ListMyFiles(c *gin.Context) {
	var query dto.PageQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}
	if query.Page == 0 {
		query.Page = 1
	}
	if query.PerPage == 0 {
		query.PerPage = 10
	}

	views, total, err := h.fileService.ListUserFiles(c.Request.Context(), middleware.GetSession(c), query.Page, query.PerPage)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	items := make([]dto.FileResponse, 0, len(views))
	for i := range views {
		items = append(items, toFileResponse(&views[i], false))
	}
	utils.PaginatedResponse(c, items, total, query.Page, query.PerPage)
}

// GetFile 文件详情
func (h *FileHandler) GetFile(c *gin.Context) {
	fileID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	view, err := h.fileService.GetFile(c.Request.Context(), fileID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	utils.SuccessResponse(c, toFileResponse(view, true))
}

// GetTags 文件的标签
func (h *FileHandler) GetTags(c *gin.Context) {
	fileID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	tags, err := h.tagReconciler.FileTags(c.Request.Context(), fileID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	utils.SuccessResponse(c, toTagResponses(tags))
}

// UpdateTags 为文件追加标签
func (h *FileHandler) UpdateTags(c *gin.Context) {
	fileID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateTagsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	refs, err := toTagRefs(req.Tags)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	result, err := h.fileService.EditTags(c.Request.Context(), middleware.GetSession(c), fileID, refs)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	utils.SuccessResponse(c, dto.UpdateTagsResponse{
		Tags:        toTagResponses(result.Tags),
		Linked:      nonNilIDs(result.Linked),
		Created:     nonNilIDs(result.Created),
		SkippedTags: result.Skipped,
	})
}

// UnlinkTag 移除文件标签
func (h *FileHandler) UnlinkTag(c *gin.Context) {
	fileID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	tagID, ok := parseIDParam(c, "tag_id")
	if !ok {
		return
	}

	if err := h.tagReconciler.Unlink(c.Request.Context(), middleware.GetSession(c), fileID, tagID); err != nil {
		respondError(c, h.logger, err)
		return
	}

	utils.SuccessWithMessage(c, "标签已移除", gin.H{"success": true})
}

// SearchTags 标签搜索
func (h *FileHandler) SearchTags(c *gin.Context) {
	tags, err := h.tagReconciler.SearchTags(c.Request.Context(), c.Query("q"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	utils.SuccessResponse(c, toTagResponses(tags))
}

func nonNilIDs(ids []uint) []uint {
	if ids == nil {
		return []uint{}
	}
	return ids
}
