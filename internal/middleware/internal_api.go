package middleware

import (
	"crypto/subtle"

	"filetag-go/internal/utils"

	"github.com/gin-gonic/gin"
)

const InternalAPIKeyHeader = "X-Internal-API-Key"

// InternalAPIAuth 内部API认证中间件，用于运维脚本触发维护任务
// 未配置密钥时内部API全部拒绝
func InternalAPIAuth(internalKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestKey := c.GetHeader(InternalAPIKeyHeader)

		if internalKey == "" || subtle.ConstantTimeCompare([]byte(requestKey), []byte(internalKey)) != 1 {
			utils.Unauthorized(c, "无效的内部API密钥")
			c.Abort()
			return
		}

		c.Next()
	}
}
