package middleware

import (
	"strings"

	"filetag-go/internal/service"
	"filetag-go/internal/utils"

	"github.com/gin-gonic/gin"
)

const sessionKey = "session"

// AuthMiddleware JWT认证中间件，要求已连接钱包
func AuthMiddleware(jwtManager *utils.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, message := parseSession(c, jwtManager)
		if session == nil {
			utils.Unauthorized(c, message)
			c.Abort()
			return
		}

		setSession(c, session)
		c.Next()
	}
}

// OptionalAuthMiddleware 可选认证，Token 缺失或无效时按匿名请求处理
func OptionalAuthMiddleware(jwtManager *utils.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if session, _ := parseSession(c, jwtManager); session != nil {
			setSession(c, session)
		}
		c.Next()
	}
}

// parseSession 从 Authorization 头解析会话，失败时返回提示信息
func parseSession(c *gin.Context, jwtManager *utils.JWTManager) (*service.Session, string) {
	// 获取Token
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return nil, "请先连接钱包"
	}

	// 解析Bearer Token
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return nil, "无效的认证格式"
	}

	// 验证Token
	claims, err := jwtManager.ValidateToken(parts[1])
	if err != nil || claims.UserID == 0 || claims.WalletAddress == "" {
		return nil, "Token无效或已过期"
	}

	return &service.Session{
		UserID:        claims.UserID,
		WalletAddress: claims.WalletAddress,
	}, ""
}

func setSession(c *gin.Context, session *service.Session) {
	c.Set(sessionKey, session)
	c.Set("user_id", session.UserID)
}

// GetSession 从上下文获取会话，匿名请求返回 nil
func GetSession(c *gin.Context) *service.Session {
	value, exists := c.Get(sessionKey)
	if !exists {
		return nil
	}
	session, _ := value.(*service.Session)
	return session
}

// GetUserID 从上下文获取用户ID
func GetUserID(c *gin.Context) (uint, bool) {
	userID, exists := c.Get("user_id")
	if !exists {
		return 0, false
	}
	return userID.(uint), true
}
