package middleware

import (
	"time"

	"filetag-go/internal/config"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORS 跨域中间件
func CORS(cfg *config.Config) gin.HandlerFunc {
	corsConfig := cors.Config{
		AllowMethods:     cfg.CORS.AllowMethods,
		AllowHeaders:     cfg.CORS.AllowHeaders,
		ExposeHeaders:    []string{RequestIDHeader},
		AllowCredentials: cfg.CORS.AllowCredentials,
		MaxAge:           12 * time.Hour,
	}

	origins := cfg.CORS.Origins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	// 通配符与凭据不能同时使用，此时回显请求来源
	for _, origin := range origins {
		if origin == "*" {
			if cfg.CORS.AllowCredentials {
				corsConfig.AllowOriginFunc = func(string) bool { return true }
			} else {
				corsConfig.AllowAllOrigins = true
			}
			break
		}
	}
	if !corsConfig.AllowAllOrigins && corsConfig.AllowOriginFunc == nil {
		corsConfig.AllowOrigins = origins
	}

	if len(corsConfig.AllowMethods) == 0 {
		corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	}
	if len(corsConfig.AllowHeaders) == 0 {
		corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", RequestIDHeader}
	}

	return cors.New(corsConfig)
}
