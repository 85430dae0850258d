package handler

import (
	"strconv"

	"filetag-go/internal/dto"
	"filetag-go/internal/middleware"
	"filetag-go/internal/service"
	"filetag-go/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// WalletHandler 钱包身份处理器
type WalletHandler struct {
	identityService *service.IdentityService
	pointsLedger    *service.PointsLedger
	logger          *logrus.Logger
}

// NewWalletHandler 创建钱包身份处理器
func NewWalletHandler(identityService *service.IdentityService, pointsLedger *service.PointsLedger, logger *logrus.Logger) *WalletHandler {
	return &WalletHandler{
		identityService: identityService,
		pointsLedger:    pointsLedger,
		logger:          logger,
	}
}

// Connect 连接钱包
// @Summary 连接钱包，首次连接时创建用户
// @Tags 钱包
// @Accept json
// @Produce json
// @Param request body dto.ConnectWalletRequest true "钱包地址"
// @Success 200 {object} utils.Response{data=dto.ConnectWalletResponse}
// @Router /api/wallet/connect [post]
func (h *WalletHandler) Connect(c *gin.Context) {
	var req dto.ConnectWalletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	result, err := h.identityService.Connect(c.Request.Context(), req.WalletAddress)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	utils.SuccessWithMessage(c, "钱包已连接", dto.ConnectWalletResponse{
		AccessToken: result.AccessToken,
		TokenType:   result.TokenType,
		ExpiresIn:   result.ExpiresIn,
		User:        toUserInfo(result.User),
	})
}

// GetMe 获取当前用户信息
// @Summary 获取当前用户信息
// @Tags 钱包
// @Produce json
// @Security BearerAuth
// @Success 200 {object} utils.Response{data=dto.UserInfo}
// @Router /api/me [get]
func (h *WalletHandler) GetMe(c *gin.Context) {
	user, err := h.identityService.Me(c.Request.Context(), middleware.GetSession(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	utils.SuccessResponse(c, toUserInfo(user))
}

// GetPoints 获取积分流水
func (h *WalletHandler) GetPoints(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	events, err := h.pointsLedger.History(c.Request.Context(), middleware.GetSession(c), limit)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	items := make([]dto.PointEventResponse, 0, len(events))
	for i := range events {
		items = append(items, toPointEventResponse(&events[i]))
	}
	utils.SuccessResponse(c, dto.ListResponse{Items: items, Total: int64(len(items))})
}
