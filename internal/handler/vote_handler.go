package handler

import (
	"context"
	"net/http"
	"time"

	"filetag-go/internal/dto"
	"filetag-go/internal/middleware"
	"filetag-go/internal/service"
	"filetag-go/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const (
	liveWriteWait  = 10 * time.Second
	livePongWait   = 60 * time.Second
	livePingPeriod = livePongWait * 9 / 10
)

// VoteService 投票处理器依赖的投票操作，由 service.VoteLedger 实现
type VoteService interface {
	CastVote(ctx context.Context, session *service.Session, fileID uint, voteType int) (*service.VoteResult, error)
	Tally(ctx context.Context, fileID uint) (service.Tally, error)
	MyVote(ctx context.Context, session *service.Session, fileID uint) (int, error)
}

// VoteHandler 投票处理器
type VoteHandler struct {
	voteLedger VoteService
	hub        *service.VoteHub
	upgrader   websocket.Upgrader
	logger     *logrus.Logger
}

// NewVoteHandler 创建投票处理器
func NewVoteHandler(voteLedger VoteService, hub *service.VoteHub, logger *logrus.Logger) *VoteHandler {
	return &VoteHandler{
		voteLedger: voteLedger,
		hub:        hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// 跨域由 CORS 中间件统一控制
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		logger: logger,
	}
}

// CastVote 投票
// @Summary 投票，同向再次投票取消，反向投票改票
// @Tags 投票
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.VoteRequest true "投票方向"
// @Success 200 {object} utils.Response{data=dto.VoteResponse}
// @Router /api/files/{id}/vote [post]
func (h *VoteHandler) CastVote(c *gin.Context) {
	fileID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.VoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	result, err := h.voteLedger.CastVote(c.Request.Context(), middleware.GetSession(c), fileID, req.VoteType)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	tally := toTallyResponse(result.Tally)
	myVote := result.VoteType
	tally.MyVote = &myVote
	utils.SuccessResponse(c, dto.VoteResponse{
		FileID:      result.FileID,
		VoteType:    result.VoteType,
		Transition:  result.Transition,
		OwnerPoints: result.OwnerPoints,
		Tally:       tally,
	})
}

// GetVotes 票数统计，携带会话时附带自己的投票
func (h *VoteHandler) GetVotes(c *gin.Context) {
	fileID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	tally, err := h.voteLedger.Tally(c.Request.Context(), fileID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	resp := toTallyResponse(tally)
	if session := middleware.GetSession(c); session != nil {
		myVote, err := h.voteLedger.MyVote(c.Request.Context(), session, fileID)
		if err != nil {
			respondError(c, h.logger, err)
			return
		}
		resp.MyVote = &myVote
	}
	utils.SuccessResponse(c, resp)
}

// Live 通过 websocket 推送文件票数变化
func (h *VoteHandler) Live(c *gin.Context) {
	fileID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	// 先订阅再读取初始票数，两者之间提交的投票会进入通道
	ch := h.hub.Subscribe(fileID)
	defer h.hub.Unsubscribe(fileID, ch)

	// 升级前校验文件存在，便于返回普通错误响应
	tally, err := h.voteLedger.Tally(c.Request.Context(), fileID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.WithError(err).WithField("file_id", fileID).Warn("websocket升级失败")
		return
	}
	defer conn.Close()

	// 读循环只用于感知断开和处理 pong
	closed := make(chan struct{})
	conn.SetReadLimit(512)
	_ = conn.SetReadDeadline(time.Now().Add(livePongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(livePongWait))
	})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	if err := writeTally(conn, tally); err != nil {
		return
	}

	ticker := time.NewTicker(livePingPeriod)
	defer ticker.Stop()

	for {
		select {
		case next := <-ch:
			if err := writeTally(conn, next); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(liveWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-closed:
			return
		case <-c.Request.Context().Done():
			return
		}
	}
}

func writeTally(conn *websocket.Conn, tally service.Tally) error {
	_ = conn.SetWriteDeadline(time.Now().Add(liveWriteWait))
	return conn.WriteJSON(dto.LiveMessage{Type: "tally", Data: toTallyResponse(tally)})
}
