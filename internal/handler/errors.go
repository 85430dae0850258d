package handler

import (
	"strconv"

	"emperror.dev/errors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"filetag-go/internal/service"
	"filetag-go/internal/utils"
)

// respondError 将业务错误映射为HTTP响应，未分类错误记录日志并返回通用提示
func respondError(c *gin.Context, logger *logrus.Logger, err error) {
	switch {
	case errors.Is(err, service.ErrWalletRequired):
		utils.Unauthorized(c, err.Error())
	case errors.Is(err, service.ErrNotFound):
		utils.NotFound(c, err.Error())
	case errors.Is(err, service.ErrForbidden):
		utils.Forbidden(c, err.Error())
	case errors.Is(err, service.ErrConflict):
		utils.Conflict(c, err.Error())
	case errors.Is(err, service.ErrInvalidInput):
		utils.BadRequest(c, err.Error())
	default:
		_ = c.Error(err)
		logger.WithError(err).WithFields(logrus.Fields{
			"path":       c.FullPath(),
			"request_id": c.GetString("request_id"),
		}).Error("请求处理失败")
		utils.InternalError(c, "服务器内部错误，请稍后重试")
	}
}

// parseIDParam 解析路径中的正整数ID，失败时已写入响应
func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		utils.BadRequest(c, "无效的ID: "+c.Param(name))
		return 0, false
	}
	return uint(id), true
}
